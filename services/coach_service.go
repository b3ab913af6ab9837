package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Availability is the set of open slots for one coach on one date
type Availability struct {
	Available bool     `json:"available"`
	Date      string   `json:"date"`
	Slots     []string `json:"available_slots"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// CreateCoachInput carries a new coach and its backing user account
type CreateCoachInput struct {
	Email               string
	Password            string
	FirstName           string
	LastName            string
	Specialty           string
	Bio                 string
	HourlyRate          float64
	ExperienceYears     int
	AvailableDays       string
	AvailableHoursStart string
	AvailableHoursEnd   string
}

// UpdateCoachInput replaces a coach profile; empty names leave the user untouched
type UpdateCoachInput struct {
	FirstName           string
	LastName            string
	Specialty           string
	Bio                 string
	HourlyRate          float64
	ExperienceYears     int
	AvailableDays       string
	AvailableHoursStart string
	AvailableHoursEnd   string
}

// CoachService is the coach directory: public lookups plus admin management
type CoachService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewCoachService creates a coach directory backed by db
func NewCoachService(db *gorm.DB, cfg *config.Config) *CoachService {
	return &CoachService{db: db, cfg: cfg}
}

// activeCoaches scopes a query to coaches whose user account is active
func (s *CoachService) activeCoaches() *gorm.DB {
	return s.db.Model(&models.Coach{}).
		Joins("JOIN users ON users.id = coaches.user_id").
		Where("users.status = ?", models.UserStatusActive).
		Preload("User")
}

// ListActiveCoaches returns coaches backed by active users, ordered by name
func (s *CoachService) ListActiveCoaches() ([]models.Coach, error) {
	coaches := []models.Coach{}
	if err := s.activeCoaches().Order("users.first_name, users.last_name").Find(&coaches).Error; err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	for i := range coaches {
		attachImageURL(&coaches[i])
	}
	return coaches, nil
}

// GetCoach returns one active coach
func (s *CoachService) GetCoach(id uint) (*models.Coach, error) {
	var coach models.Coach
	if err := s.activeCoaches().Where("coaches.id = ?", id).First(&coach).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, fmt.Errorf("failed to load coach: %w", err)
	}
	attachImageURL(&coach)
	return &coach, nil
}

// GetAvailability computes the open slots for coachID on date (YYYY-MM-DD).
// It never writes.
func (s *CoachService) GetAvailability(coachID uint, date string) (*Availability, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, validationError("date", "%s", err.Error())
	}

	coach, err := s.GetCoach(coachID)
	if err != nil {
		return nil, err
	}

	result := &Availability{Date: day.Format(utils.DateLayout), Slots: []string{}}
	if !coach.WorksOn(day.Weekday()) {
		result.Message = "Coach not available on this day"
		return result, nil
	}

	start, end, err := coachWindow(coach)
	if err != nil {
		return nil, err
	}

	booked, err := bookedIntervals(s.db, "coach_id", coach.ID, result.Date, s.cfg.AppointmentDuration)
	if err != nil {
		return nil, err
	}

	for _, slot := range utils.Slots(start, end, s.cfg.SlotMinutes, s.cfg.AppointmentDuration) {
		m, _ := utils.ParseClock(slot)
		if !booked.overlaps(m, s.cfg.AppointmentDuration) {
			result.Slots = append(result.Slots, slot)
		}
	}

	result.Available = true
	result.StartTime = coach.AvailableHoursStart
	result.EndTime = coach.AvailableHoursEnd
	return result, nil
}

// ListAllCoaches returns every coach regardless of account status (admin view)
func (s *CoachService) ListAllCoaches() ([]models.Coach, error) {
	coaches := []models.Coach{}
	err := s.db.Model(&models.Coach{}).
		Joins("JOIN users ON users.id = coaches.user_id").
		Preload("User").
		Order("users.first_name, users.last_name").
		Find(&coaches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	for i := range coaches {
		attachImageURL(&coaches[i])
	}
	return coaches, nil
}

// CreateCoach creates the coach's user account and profile in one transaction
func (s *CoachService) CreateCoach(in CreateCoachInput) (*models.Coach, error) {
	days, startStr, endStr, err := normalizeSchedule(in.AvailableDays, in.AvailableHoursStart, in.AvailableHoursEnd)
	if err != nil {
		return nil, err
	}
	if err := validateRates(in.HourlyRate, in.ExperienceYears); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	coach := models.Coach{
		Specialty:           strings.TrimSpace(in.Specialty),
		Bio:                 strings.TrimSpace(in.Bio),
		HourlyRate:          in.HourlyRate,
		ExperienceYears:     in.ExperienceYears,
		AvailableDays:       days,
		AvailableHoursStart: startStr,
		AvailableHoursEnd:   endStr,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Email:        normalizeEmail(in.Email),
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			Role:         models.RoleCoach,
			Status:       models.UserStatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		coach.UserID = user.ID
		if err := tx.Create(&coach).Error; err != nil {
			return fmt.Errorf("failed to create coach profile: %w", err)
		}
		coach.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().WithFields(logrus.Fields{
		"coach_id": coach.ID,
		"user_id":  coach.UserID,
	}).Info("Coach created")
	return &coach, nil
}

// UpdateCoach replaces the coach's profile and optionally the backing user's names
func (s *CoachService) UpdateCoach(id uint, in UpdateCoachInput) (*models.Coach, error) {
	days, startStr, endStr, err := normalizeSchedule(in.AvailableDays, in.AvailableHoursStart, in.AvailableHoursEnd)
	if err != nil {
		return nil, err
	}
	if err := validateRates(in.HourlyRate, in.ExperienceYears); err != nil {
		return nil, err
	}

	var coach models.Coach
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&coach, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCoachNotFound
			}
			return fmt.Errorf("failed to load coach: %w", err)
		}

		updates := map[string]interface{}{
			"specialty":             strings.TrimSpace(in.Specialty),
			"bio":                   strings.TrimSpace(in.Bio),
			"hourly_rate":           in.HourlyRate,
			"experience_years":      in.ExperienceYears,
			"available_days":        days,
			"available_hours_start": startStr,
			"available_hours_end":   endStr,
		}
		if err := tx.Model(&coach).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update coach profile: %w", err)
		}

		names := map[string]interface{}{}
		if v := strings.TrimSpace(in.FirstName); v != "" {
			names["first_name"] = v
		}
		if v := strings.TrimSpace(in.LastName); v != "" {
			names["last_name"] = v
		}
		if len(names) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", coach.UserID).Updates(names).Error; err != nil {
				return fmt.Errorf("failed to update user details: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&coach, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload coach: %w", err)
	}
	attachImageURL(&coach)
	return &coach, nil
}

// DeleteCoach removes the coach and its user account. Coaches with scheduled
// appointments are kept until those are cancelled.
func (s *CoachService) DeleteCoach(id uint) error {
	var imageKey *string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var coach models.Coach
		if err := tx.First(&coach, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCoachNotFound
			}
			return fmt.Errorf("failed to load coach: %w", err)
		}

		var active int64
		if err := tx.Model(&models.Appointment{}).
			Where("coach_id = ? AND status = ?", id, models.StatusScheduled).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count appointments: %w", err)
		}
		if active > 0 {
			return ErrCoachHasAppointments
		}

		if err := tx.Delete(&models.Coach{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete coach profile: %w", err)
		}
		if err := tx.Delete(&models.User{}, coach.UserID).Error; err != nil {
			return fmt.Errorf("failed to delete user account: %w", err)
		}
		imageKey = coach.ProfileImageKey
		return nil
	})
	if err != nil {
		return err
	}

	if imageKey != nil {
		if images := GetImageService(); images != nil {
			if err := images.DeleteImage(*imageKey); err != nil {
				logger.Get().WithError(err).WithField("coach_id", id).Warn("Failed to delete coach image")
			}
		}
	}
	return nil
}

// SetProfileImage stores a new image key on the coach and returns the previous one
func (s *CoachService) SetProfileImage(id uint, key string) (previous *string, err error) {
	var coach models.Coach
	if err := s.db.First(&coach, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, fmt.Errorf("failed to load coach: %w", err)
	}
	if err := s.db.Model(&coach).Update("profile_image", key).Error; err != nil {
		return nil, fmt.Errorf("failed to store profile image: %w", err)
	}
	return coach.ProfileImageKey, nil
}

// coachIDForUser resolves the coach profile owned by a coach-role user
func coachIDForUser(db *gorm.DB, userID uint) (uint, error) {
	var coach models.Coach
	if err := db.Select("id").Where("user_id = ?", userID).First(&coach).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &ServiceError{Kind: KindNotFound, Code: "COACH_NOT_FOUND", Message: "Coach profile not found"}
		}
		return 0, fmt.Errorf("failed to load coach profile: %w", err)
	}
	return coach.ID, nil
}

// coachWindow parses the coach's daily window into minutes after midnight
func coachWindow(coach *models.Coach) (start, end int, err error) {
	start, err = utils.ParseClock(coach.AvailableHoursStart)
	if err != nil {
		return 0, 0, fmt.Errorf("coach %d has an invalid start time: %w", coach.ID, err)
	}
	end, err = utils.ParseClock(coach.AvailableHoursEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("coach %d has an invalid end time: %w", coach.ID, err)
	}
	return start, end, nil
}

func normalizeSchedule(days, start, end string) (string, string, string, error) {
	normalizedDays, err := utils.NormalizeWeekdays(days)
	if err != nil {
		return "", "", "", validationError("available_days", "%s", err.Error())
	}
	startMin, err := utils.ParseClock(start)
	if err != nil {
		return "", "", "", validationError("available_hours_start", "invalid start time %q, expected HH:MM", start)
	}
	endMin, err := utils.ParseClock(end)
	if err != nil {
		return "", "", "", validationError("available_hours_end", "invalid end time %q, expected HH:MM", end)
	}
	if startMin >= endMin {
		return "", "", "", validationError("available_hours_end", "available hours must end after they start")
	}
	return normalizedDays, utils.FormatClock(startMin), utils.FormatClock(endMin), nil
}

func validateRates(hourlyRate float64, experienceYears int) error {
	if hourlyRate < 0 {
		return validationError("hourly_rate", "hourly rate must not be negative")
	}
	if experienceYears < 0 {
		return validationError("experience_years", "experience years must not be negative")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// attachImageURL resolves the coach's image key into a URL when image storage is configured
func attachImageURL(coach *models.Coach) {
	if coach.ProfileImageKey == nil || *coach.ProfileImageKey == "" {
		return
	}
	images := GetImageService()
	if images == nil {
		return
	}
	url, err := images.GetImageURL(*coach.ProfileImageKey)
	if err != nil {
		logger.Get().WithError(err).WithField("coach_id", coach.ID).Warn("Failed to resolve coach image URL")
		return
	}
	coach.ProfileImageURL = &url
}
