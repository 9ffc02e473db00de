package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusBlocked    TaskStatus = "blocked"
)

// Valid reports whether s is one of the four enumerated statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

// Task is a tracked work item. Deletion is always logical: IsDeleted flips to
// true and DeletedAt is stamped, the row stays in storage. CreatedBy goes
// null when the creator is removed (ON DELETE SET NULL), never otherwise.
type Task struct {
	BaseModel
	Title       string     `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	Creator   *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"creator,omitempty"`

	// Deleted rows never reach clients, so the timestamp stays internal.
	IsDeleted bool           `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
