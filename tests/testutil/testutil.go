package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// SetupTestDB opens a fresh migrated in-memory SQLite database, installs it
// as config.DB and restores the previous one when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	previous := config.GetDB()
	require.NoError(t, config.ConnectDatabase(config.Default()))
	db := config.GetDB()
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		config.SetDB(previous)
	})
	return db
}

var emailSeq atomic.Int64

// testPasswordHash is computed once; bcrypt is slow enough to matter across many fixtures
var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateUser inserts an active user with the given role and a unique email
func CreateUser(t *testing.T, db *gorm.DB, role, firstName, lastName string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("%s.%d@example.com", role, emailSeq.Add(1)),
		PasswordHash: testPasswordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CoachOption customizes a fixture coach
type CoachOption func(*models.Coach)

// WithSchedule sets the coach's working days and hours
func WithSchedule(days, start, end string) CoachOption {
	return func(c *models.Coach) {
		c.AvailableDays = days
		c.AvailableHoursStart = start
		c.AvailableHoursEnd = end
	}
}

// CreateCoach inserts a coach user and profile. Defaults to Monday to Friday, 09:00 to 18:00.
func CreateCoach(t *testing.T, db *gorm.DB, firstName, lastName string, opts ...CoachOption) *models.Coach {
	t.Helper()

	user := CreateUser(t, db, models.RoleCoach, firstName, lastName)
	coach := &models.Coach{
		UserID:              user.ID,
		Specialty:           "Strength Training",
		Bio:                 "Test coach",
		ExperienceYears:     5,
		HourlyRate:          50,
		AvailableDays:       "Monday,Tuesday,Wednesday,Thursday,Friday",
		AvailableHoursStart: "09:00",
		AvailableHoursEnd:   "18:00",
	}
	for _, opt := range opts {
		opt(coach)
	}
	require.NoError(t, db.Create(coach).Error)
	coach.User = *user
	return coach
}

// CreateAppointment inserts an appointment row directly, bypassing booking rules
func CreateAppointment(t *testing.T, db *gorm.DB, clientID, coachID uint, date, clock string, status models.AppointmentStatus) *models.Appointment {
	t.Helper()

	appt := &models.Appointment{
		ClientID:        clientID,
		CoachID:         coachID,
		AppointmentDate: date,
		AppointmentTime: clock,
		Duration:        60,
		Status:          status,
	}
	require.NoError(t, db.Create(appt).Error)
	return appt
}

// Today is the current date at midnight UTC
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// NextWeekday returns the next date (YYYY-MM-DD) after today falling on weekday
func NextWeekday(weekday string) string {
	d := Today()
	for i := 0; i < 7; i++ {
		d = d.AddDate(0, 0, 1)
		if d.Weekday().String() == weekday {
			break
		}
	}
	return d.Format("2006-01-02")
}
