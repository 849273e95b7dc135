package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientStatus is the closed set of lifecycle states a client moves through.
// Transitions between states are validated by the lifecycle package.
type ClientStatus string

const (
	StatusPorVisitar     ClientStatus = "por_visitar"
	StatusPendiente      ClientStatus = "pendiente"
	StatusPlanConfirmado ClientStatus = "plan_confirmado"
	StatusEnProceso      ClientStatus = "en_proceso"
	StatusCompletado     ClientStatus = "completado"
	StatusInactivo       ClientStatus = "inactivo"
)

// Valid reports whether s is one of the six known statuses.
func (s ClientStatus) Valid() bool {
	switch s {
	case StatusPorVisitar, StatusPendiente, StatusPlanConfirmado,
		StatusEnProceso, StatusCompletado, StatusInactivo:
		return true
	}
	return false
}

// Client entity
type Client struct {
	ID      string       `gorm:"primaryKey;size:36"`
	Name    string       `gorm:"not null;index"`
	Email   string       `gorm:"unique;not null;index"`
	Phone   string
	Company string
	Status  ClientStatus `gorm:"not null;default:'por_visitar';index"`
	// MembershipPlanID references the Plan by id. MembershipPlan keeps the plan
	// name as written at confirmation time; deleting or renaming the plan does
	// not rewrite it (display snapshot, may dangle).
	MembershipPlanID *string `gorm:"size:36;index"`
	MembershipPlan   string
	Notes            string // append-only timestamped annotations
	FirstContactDate *time.Time
	PlanStartDate    *time.Time
	LeadSource       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *Client) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
