package models

import (
	"time"
)

// User roles
const (
	RoleClient = "client"
	RoleCoach  = "coach"
	RoleAdmin  = "admin"
)

// User account statuses
const (
	UserStatusActive   = "active"
	UserStatusBlocked  = "blocked"
	UserStatusInactive = "inactive"
)

// User represents an account in the system (client, coach or admin)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"` // bcrypt hash
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `gorm:"not null" json:"last_name"`
	Phone        *string   `json:"phone"`
	Role         string    `gorm:"not null;default:'client';check:role IN ('client','admin','coach')" json:"role"`
	Status       string    `gorm:"not null;default:'active';check:status IN ('active','blocked','inactive')" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may act in the system
func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}

// FullName returns "First Last"
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// ValidUserStatus reports whether status is one of the known account statuses
func ValidUserStatus(status string) bool {
	switch status {
	case UserStatusActive, UserStatusBlocked, UserStatusInactive:
		return true
	}
	return false
}
