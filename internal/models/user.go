package models

import "time"

// User & auth related models
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null"` // bcrypt hash
	Name      string `gorm:"index"`
	RoleID    uint
	Role      Role `gorm:"foreignKey:RoleID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"` // admin, client
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Notification struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index"`
	Type      string // ex: "dashboard", "mail"
	Title     string
	Message   string
	Read      bool
	SentAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
