package models

import (
	"errors"
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

// ErrInvalidTransition is returned when a status change is not allowed
var ErrInvalidTransition = errors.New("invalid appointment status transition")

// ParseAppointmentStatus converts s into a known status
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no transition leaves this status
func (s AppointmentStatus) IsTerminal() bool {
	return s != StatusScheduled
}

// CanTransitionTo reports whether s may move to next.
// Only scheduled appointments change state.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s != StatusScheduled {
		return false
	}
	switch next {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Transition returns next if the move is allowed, ErrInvalidTransition otherwise
func (s AppointmentStatus) Transition(next AppointmentStatus) (AppointmentStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, ErrInvalidTransition
	}
	return next, nil
}

// Appointment represents a booked session between a client and a coach.
// Non-cancelled rows are unique per coach slot and per client slot; the
// partial unique indexes below enforce this in the store itself.
type Appointment struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ClientID        uint              `gorm:"not null;index;uniqueIndex:idx_appointments_client_slot,where:status <> 'cancelled'" json:"client_id"`
	Client          User              `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	CoachID         uint              `gorm:"not null;index;uniqueIndex:idx_appointments_coach_slot,where:status <> 'cancelled'" json:"coach_id"`
	Coach           Coach             `gorm:"foreignKey:CoachID;constraint:OnDelete:CASCADE" json:"-"`
	AppointmentDate string            `gorm:"type:varchar(10);not null;uniqueIndex:idx_appointments_coach_slot,where:status <> 'cancelled';uniqueIndex:idx_appointments_client_slot,where:status <> 'cancelled'" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:varchar(5);not null;uniqueIndex:idx_appointments_coach_slot,where:status <> 'cancelled';uniqueIndex:idx_appointments_client_slot,where:status <> 'cancelled'" json:"appointment_time"`
	Duration        int               `gorm:"not null;default:60" json:"duration"` // minutes
	Status          AppointmentStatus `gorm:"type:varchar(16);not null;default:'scheduled';check:status IN ('scheduled','completed','cancelled','no-show')" json:"status"`
	Notes           *string           `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}
