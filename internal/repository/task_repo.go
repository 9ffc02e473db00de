package repository

import (
	"time"

	"go-taskboard-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	FindAllActive() ([]model.Task, error)
	FindActiveByCreator(creator uuid.UUID) ([]model.Task, error)
	FindActiveByID(id uuid.UUID) (*model.Task, error)
	Create(task *model.Task) error
	Save(task *model.Task) error
	SoftDelete(id uuid.UUID) error
}

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db}
}

// Soft-deleted rows carry a non-null deleted_at, so the default query scope
// already excludes them from every lookup below.

func (r *taskRepo) FindAllActive() ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.Preload("Creator").Order("created_at").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) FindActiveByCreator(creator uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.Preload("Creator").Where("created_by = ?", creator).Order("created_at").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) FindActiveByID(id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.Preload("Creator").First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) Create(task *model.Task) error {
	return r.db.Create(task).Error
}

func (r *taskRepo) Save(task *model.Task) error {
	return r.db.Save(task).Error
}

// SoftDelete marks the row deleted and stamps the deletion time in a single
// UPDATE. The row is never physically removed.
func (r *taskRepo) SoftDelete(id uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&model.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		}).Error
}
