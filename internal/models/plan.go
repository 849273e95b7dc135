package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan catalog entry. Name doubles as the task-template tier key
// (Básico, Premium, VIP in the seeded catalog).
type Plan struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"unique;not null"`
	Description string
	Price       float64 `gorm:"not null"` // non-negative, validated before create
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Plan) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
