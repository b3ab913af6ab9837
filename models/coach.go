package models

import (
	"strings"
	"time"
)

// Coach represents a coach profile, attached 1:1 to a User with role=coach
type Coach struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User                User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Specialty           string    `gorm:"not null" json:"specialty"`
	Bio                 string    `gorm:"type:text" json:"bio"`
	ExperienceYears     int       `gorm:"not null;default:0;check:experience_years >= 0" json:"experience_years"`
	HourlyRate          float64   `gorm:"type:decimal(10,2);not null;default:0;check:hourly_rate >= 0" json:"hourly_rate"`
	ProfileImageKey     *string   `gorm:"column:profile_image" json:"-"`        // nullable, S3 key
	ProfileImageURL     *string   `gorm:"-" json:"profile_image_url,omitempty"` // computed presigned URL
	AvailableDays       string    `gorm:"not null;default:'Monday,Tuesday,Wednesday,Thursday,Friday'" json:"available_days"`
	AvailableHoursStart string    `gorm:"not null;default:'09:00'" json:"available_hours_start"`
	AvailableHoursEnd   string    `gorm:"not null;default:'18:00'" json:"available_hours_end"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Coach model
func (Coach) TableName() string {
	return "coaches"
}

// Days returns the weekday names the coach works on
func (c Coach) Days() []string {
	var days []string
	for _, d := range strings.Split(c.AvailableDays, ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return days
}

// WorksOn reports whether the named weekday is in the coach's available days
func (c Coach) WorksOn(weekday time.Weekday) bool {
	for _, d := range c.Days() {
		if strings.EqualFold(d, weekday.String()) {
			return true
		}
	}
	return false
}
