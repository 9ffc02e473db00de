package repository

import (
	"go-taskboard-ws/internal/model"

	"gorm.io/gorm"
)

type PermissionRepository interface {
	FindAll() ([]model.Permission, error)
	FindByID(id uint) (*model.Permission, error)
	FindByIDs(ids []uint) ([]model.Permission, error)
	SeedDefaults() error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

func (r *permissionRepo) FindAll() ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepo) FindByID(id uint) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.First(&permission, id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepo) FindByIDs(ids []uint) ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.Where("id IN ?", ids).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// SeedDefaults creates the permission table rows with their fixed IDs if
// they don't exist yet.
func (r *permissionRepo) SeedDefaults() error {
	for _, p := range model.DefaultPermissions {
		var existing model.Permission
		if err := r.db.First(&existing, p.ID).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&p).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
