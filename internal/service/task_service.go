package service

import (
	"errors"
	"fmt"

	"go-taskboard-ws/internal/model"
	"go-taskboard-ws/internal/repository"
	"go-taskboard-ws/internal/ws"
	"go-taskboard-ws/pkg/validator"

	"github.com/google/uuid"
)

var (
	// ErrTaskNotFound covers both absent rows and soft-deleted rows; the two
	// are indistinguishable to callers.
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid status: must be one of pending, in-progress, completed, blocked")
	ErrValidation    = errors.New("validation failed")
)

type TaskService interface {
	ListTasks(callerID uuid.UUID, perms []uint) ([]model.Task, error)
	GetTask(id uuid.UUID, callerID uuid.UUID, perms []uint) (*model.Task, error)
	CreateTask(req *CreateTaskRequest, callerID uuid.UUID, callerName string, perms []uint) (*model.Task, error)
	UpdateTask(id uuid.UUID, req *UpdateTaskRequest, callerID uuid.UUID, callerName string, perms []uint) (*model.Task, error)
	SoftDeleteTask(id uuid.UUID, callerID uuid.UUID, callerName string, perms []uint) error
}

// CreateTaskRequest deliberately has no creator field: the creator is always
// the authenticated caller, whatever the client sends.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTaskRequest is a partial merge: only non-nil fields overwrite the
// stored values.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type taskService struct {
	taskRepo repository.TaskRepository
	wsHub    *ws.Hub
}

func NewTaskService(taskRepo repository.TaskRepository, hub *ws.Hub) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		wsHub:    hub,
	}
}

func (s *taskService) ListTasks(callerID uuid.UUID, perms []uint) ([]model.Task, error) {
	if CanListAllTasks(perms) {
		return s.taskRepo.FindAllActive()
	}
	// Without READ_ALL_TASKS the listing is scoped to the caller's own tasks.
	return s.taskRepo.FindActiveByCreator(callerID)
}

func (s *taskService) GetTask(id uuid.UUID, callerID uuid.UUID, perms []uint) (*model.Task, error) {
	// Absent or soft-deleted rows are not-found before any permission check.
	task, err := s.taskRepo.FindActiveByID(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	if err := CanReadTask(perms, callerID, task.CreatedBy); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) CreateTask(req *CreateTaskRequest, callerID uuid.UUID, callerName string, perms []uint) (*model.Task, error) {
	if err := CanCreateTask(perms); err != nil {
		return nil, err
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	// Status defaults to pending; anything outside the enum is rejected.
	status := model.StatusPending
	if req.Status != "" {
		status = model.TaskStatus(req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	creator := callerID
	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		CreatedBy:   &creator,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}

	s.broadcast("task_created", task, callerName)
	return task, nil
}

func (s *taskService) UpdateTask(id uuid.UUID, req *UpdateTaskRequest, callerID uuid.UUID, callerName string, perms []uint) (*model.Task, error) {
	task, err := s.taskRepo.FindActiveByID(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	if err := CanUpdateTask(perms, callerID, task.CreatedBy); err != nil {
		return nil, err
	}

	// Reject a bad status before any field is merged, so a failed request
	// never mutates the record.
	if req.Status != nil && !model.TaskStatus(*req.Status).Valid() {
		return nil, ErrInvalidStatus
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = model.TaskStatus(*req.Status)
	}

	if err := s.taskRepo.Save(task); err != nil {
		return nil, err
	}

	s.broadcast("task_updated", task, callerName)
	return task, nil
}

func (s *taskService) SoftDeleteTask(id uuid.UUID, callerID uuid.UUID, callerName string, perms []uint) error {
	task, err := s.taskRepo.FindActiveByID(id)
	if err != nil {
		return ErrTaskNotFound
	}

	if err := CanDeleteTask(perms, callerID, task.CreatedBy); err != nil {
		return err
	}

	if err := s.taskRepo.SoftDelete(task.ID); err != nil {
		return err
	}

	s.broadcast("task_deleted", task, callerName)
	return nil
}

func (s *taskService) broadcast(eventType string, task *model.Task, actor string) {
	if s.wsHub == nil {
		return
	}
	ev := ws.TaskEvent{
		Type:   eventType,
		TaskID: task.ID.String(),
		Actor:  actor,
	}
	if eventType != "task_deleted" {
		ev.Task = task
	}
	go s.wsHub.BroadcastEvent(ev)
}
