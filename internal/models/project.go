package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Project entity. Every task belongs to a project; templated follow-up tasks
// attach to a per-client administrative project created on demand.
type Project struct {
	ID          string        `gorm:"primaryKey;size:36"`
	ClientID    string        `gorm:"not null;size:36;index"`
	Client      Client        `gorm:"foreignKey:ClientID"`
	Name        string        `gorm:"not null"`
	Description string
	Status      ProjectStatus `gorm:"not null;default:'pending'"`
	Budget      *float64
	Deadline    *time.Time
	// Administrative marks the implicit project holding plan follow-up tasks.
	Administrative bool   `gorm:"not null;default:false;index"`
	Tasks          []Task `gorm:"foreignKey:ProjectID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Project) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
