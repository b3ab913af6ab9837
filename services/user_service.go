package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUserInput is an admin-created account
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Role      string
}

// UpdateProfileInput holds the fields a user may change on their own account
type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     *string
}

// UserStats summarizes accounts by role and status
type UserStats struct {
	Total   int64 `json:"total"`
	Clients int64 `json:"clients"`
	Coaches int64 `json:"coaches"`
	Admins  int64 `json:"admins"`
	Active  int64 `json:"active"`
	Blocked int64 `json:"blocked"`
}

// AppointmentStats summarizes appointments by status
type AppointmentStats struct {
	Total     int64 `json:"total"`
	Scheduled int64 `json:"scheduled"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	NoShows   int64 `json:"no_shows"`
}

// RecentStats counts activity over the last 30 days
type RecentStats struct {
	NewUsers        int64 `json:"new_users_this_month"`
	NewAppointments int64 `json:"appointments_this_month"`
}

// Stats is the admin dashboard summary
type Stats struct {
	Users        UserStats        `json:"users"`
	Appointments AppointmentStats `json:"appointments"`
	Recent       RecentStats      `json:"recent"`
}

// UserService handles account administration and self-service profiles
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service backed by db
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Find loads a user by id
func (s *UserService) Find(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// List returns every account, newest first
func (s *UserService) List() ([]models.User, error) {
	users := []models.User{}
	if err := s.db.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Profile returns the caller's own account
func (s *UserService) Profile(id uint) (*models.User, error) {
	return s.Find(id)
}

// Create adds an account. Role defaults to client. A coach-role user created
// here has no coach profile until one is attached through the coach endpoints.
func (s *UserService) Create(in CreateUserInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleClient
	}
	if !models.ValidRole(role) {
		return nil, validationError("role", "invalid role %q", role)
	}
	if len(strings.TrimSpace(in.FirstName)) < 2 || len(strings.TrimSpace(in.LastName)) < 2 {
		return nil, validationError("first_name", "first and last name must be at least 2 characters")
	}
	if len(in.Password) < 6 {
		return nil, validationError("password", "password must be at least 6 characters")
	}

	email := normalizeEmail(in.Email)
	var existing int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        trimmedOrNil(in.Phone),
		Role:         role,
		Status:       models.UserStatusActive,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Get().WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("User created")
	return &user, nil
}

// SetStatus blocks or reactivates an account. Admins cannot change their own status.
func (s *UserService) SetStatus(actorID, id uint, status string) error {
	if actorID == id {
		return ErrSelfModification
	}
	if !models.ValidUserStatus(status) {
		return validationError("status", "invalid status %q", status)
	}

	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update user status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	logger.Get().WithFields(logrus.Fields{"user_id": id, "status": status, "by": actorID}).Info("User status changed")
	return nil
}

// Delete removes an account. Coach profiles and appointments go with it.
func (s *UserService) Delete(actorID, id uint) error {
	if actorID == id {
		return ErrSelfModification
	}

	result := s.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	logger.Get().WithFields(logrus.Fields{"user_id": id, "by": actorID}).Info("User deleted")
	return nil
}

// UpdateProfile changes the caller's own names and phone
func (s *UserService) UpdateProfile(id uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Find(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"phone": trimmedOrNil(in.Phone)}
	if v := strings.TrimSpace(in.FirstName); v != "" {
		updates["first_name"] = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		updates["last_name"] = v
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.Find(id)
}

// Stats builds the admin dashboard counters
func (s *UserService) Stats() (*Stats, error) {
	stats := &Stats{}
	since := time.Now().AddDate(0, 0, -30)

	counts := []struct {
		target *int64
		model  interface{}
		query  string
		args   []interface{}
	}{
		{&stats.Users.Total, &models.User{}, "", nil},
		{&stats.Users.Clients, &models.User{}, "role = ?", []interface{}{models.RoleClient}},
		{&stats.Users.Coaches, &models.User{}, "role = ?", []interface{}{models.RoleCoach}},
		{&stats.Users.Admins, &models.User{}, "role = ?", []interface{}{models.RoleAdmin}},
		{&stats.Users.Active, &models.User{}, "status = ?", []interface{}{models.UserStatusActive}},
		{&stats.Users.Blocked, &models.User{}, "status = ?", []interface{}{models.UserStatusBlocked}},
		{&stats.Appointments.Total, &models.Appointment{}, "", nil},
		{&stats.Appointments.Scheduled, &models.Appointment{}, "status = ?", []interface{}{models.StatusScheduled}},
		{&stats.Appointments.Completed, &models.Appointment{}, "status = ?", []interface{}{models.StatusCompleted}},
		{&stats.Appointments.Cancelled, &models.Appointment{}, "status = ?", []interface{}{models.StatusCancelled}},
		{&stats.Appointments.NoShows, &models.Appointment{}, "status = ?", []interface{}{models.StatusNoShow}},
		{&stats.Recent.NewUsers, &models.User{}, "created_at >= ?", []interface{}{since}},
		{&stats.Recent.NewAppointments, &models.Appointment{}, "created_at >= ?", []interface{}{since}},
	}

	for _, c := range counts {
		q := s.db.Model(c.model)
		if c.query != "" {
			q = q.Where(c.query, c.args...)
		}
		if err := q.Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
	}
	return stats, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
