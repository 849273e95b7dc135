package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task entity
type Task struct {
	ID          string `gorm:"primaryKey;size:36"`
	ProjectID   string `gorm:"not null;size:36;index"`
	Title       string `gorm:"not null"`
	Description string
	Status      TaskStatus   `gorm:"not null;default:'pending'"`
	Priority    TaskPriority `gorm:"not null;default:'medium'"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
