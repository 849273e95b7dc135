package models

import "time"

// Audit logging
type AuditLog struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   // who made the change (0 for system paths)
	EntityType string // ex: "Client", "Task", "Plan"
	EntityID   string // id of the modified entity
	Action     string // ex: "create", "update", "transition"
	Field      string
	OldValue   string
	NewValue   string
	CreatedAt  time.Time
}
