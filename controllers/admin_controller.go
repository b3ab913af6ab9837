package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/services"
	"github.com/kendall-kelly/coach-booking-api/utils"
)

const (
	defaultAvailableDays  = "Monday,Tuesday,Wednesday,Thursday,Friday"
	defaultHoursStart     = "09:00"
	defaultHoursEnd       = "18:00"
	defaultSpecialtyLabel = "General Fitness"
)

// CreateUserRequest is the body of POST /api/admin/users
type CreateUserRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	FirstName string  `json:"first_name" binding:"required,min=2"`
	LastName  string  `json:"last_name" binding:"required,min=2"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role" binding:"omitempty,oneof=client coach admin"`
}

// UpdateUserStatusRequest is the body of PATCH /api/admin/users/:id/status
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active blocked inactive"`
}

// CreateCoachRequest is the body of POST /api/admin/coaches
type CreateCoachRequest struct {
	Email               string  `json:"email" binding:"required,email"`
	Password            string  `json:"password" binding:"required,min=6"`
	FirstName           string  `json:"first_name" binding:"required,min=2"`
	LastName            string  `json:"last_name" binding:"required,min=2"`
	Specialty           string  `json:"specialty"`
	Bio                 string  `json:"bio"`
	HourlyRate          float64 `json:"hourly_rate" binding:"gte=0"`
	ExperienceYears     int     `json:"experience_years" binding:"gte=0"`
	AvailableDays       string  `json:"available_days"`
	AvailableHoursStart string  `json:"available_hours_start"`
	AvailableHoursEnd   string  `json:"available_hours_end"`
}

// UpdateCoachRequest is the body of PUT /api/admin/coaches/:id
type UpdateCoachRequest struct {
	FirstName           string  `json:"first_name" binding:"omitempty,min=2"`
	LastName            string  `json:"last_name" binding:"omitempty,min=2"`
	Specialty           string  `json:"specialty" binding:"required"`
	Bio                 string  `json:"bio"`
	HourlyRate          float64 `json:"hourly_rate" binding:"gte=0"`
	ExperienceYears     int     `json:"experience_years" binding:"gte=0"`
	AvailableDays       string  `json:"available_days" binding:"required"`
	AvailableHoursStart string  `json:"available_hours_start" binding:"required"`
	AvailableHoursEnd   string  `json:"available_hours_end" binding:"required"`
}

// UpdateAppointmentStatusRequest is the body of PATCH /api/admin/appointments/:id/status
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminController serves the admin surface. Routes are mounted behind RequireRole("admin").
type AdminController struct {
	users    *services.UserService
	coaches  *services.CoachService
	bookings *services.BookingService
}

func NewAdminController(users *services.UserService, coaches *services.CoachService, bookings *services.BookingService) *AdminController {
	return &AdminController{users: users, coaches: coaches, bookings: bookings}
}

// ListUsers handles GET /api/admin/users
func (ctl *AdminController) ListUsers(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}

	users, err := ctl.users.List()
	if err != nil {
		respondServiceError(c, err, "Failed to fetch users")
		return
	}
	respond(c, http.StatusOK, users)
}

// CreateUser handles POST /api/admin/users
func (ctl *AdminController) CreateUser(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := ctl.users.Create(services.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create user")
		return
	}
	respond(c, http.StatusCreated, user)
}

// UpdateUserStatus handles PATCH /api/admin/users/:id/status
func (ctl *AdminController) UpdateUserStatus(c *gin.Context) {
	admin, ok := ctl.admin(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := ctl.users.SetStatus(admin.ID, id, req.Status); err != nil {
		respondServiceError(c, err, "Failed to update user status")
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// DeleteUser handles DELETE /api/admin/users/:id
func (ctl *AdminController) DeleteUser(c *gin.Context) {
	admin, ok := ctl.admin(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctl.users.Delete(admin.ID, id); err != nil {
		respondServiceError(c, err, "Failed to delete user")
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

// ListCoaches handles GET /api/admin/coaches
func (ctl *AdminController) ListCoaches(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}

	coaches, err := ctl.coaches.ListAllCoaches()
	if err != nil {
		respondServiceError(c, err, "Failed to fetch coaches")
		return
	}
	respond(c, http.StatusOK, coaches)
}

// CreateCoach handles POST /api/admin/coaches
func (ctl *AdminController) CreateCoach(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}

	var req CreateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	coach, err := ctl.coaches.CreateCoach(services.CreateCoachInput{
		Email:               req.Email,
		Password:            req.Password,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Specialty:           orDefault(req.Specialty, defaultSpecialtyLabel),
		Bio:                 req.Bio,
		HourlyRate:          req.HourlyRate,
		ExperienceYears:     req.ExperienceYears,
		AvailableDays:       orDefault(req.AvailableDays, defaultAvailableDays),
		AvailableHoursStart: orDefault(req.AvailableHoursStart, defaultHoursStart),
		AvailableHoursEnd:   orDefault(req.AvailableHoursEnd, defaultHoursEnd),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create coach")
		return
	}
	respond(c, http.StatusCreated, coach)
}

// UpdateCoach handles PUT /api/admin/coaches/:id
func (ctl *AdminController) UpdateCoach(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	coach, err := ctl.coaches.UpdateCoach(id, services.UpdateCoachInput{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Specialty:           req.Specialty,
		Bio:                 req.Bio,
		HourlyRate:          req.HourlyRate,
		ExperienceYears:     req.ExperienceYears,
		AvailableDays:       req.AvailableDays,
		AvailableHoursStart: req.AvailableHoursStart,
		AvailableHoursEnd:   req.AvailableHoursEnd,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update coach")
		return
	}
	respond(c, http.StatusOK, coach)
}

// DeleteCoach handles DELETE /api/admin/coaches/:id
func (ctl *AdminController) DeleteCoach(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctl.coaches.DeleteCoach(id); err != nil {
		respondServiceError(c, err, "Failed to delete coach")
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

// UploadCoachImage handles POST /api/admin/coaches/:id/image (multipart field "image")
func (ctl *AdminController) UploadCoachImage(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	images := services.GetImageService()
	if images == nil {
		respondError(c, http.StatusServiceUnavailable, "IMAGE_STORAGE_UNAVAILABLE", "Image storage is not configured", nil)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required in the \"image\" field", nil)
		return
	}

	key, err := images.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message, nil)
			return
		}
		logger.Get().WithError(err).WithField("coach_id", id).Error("Coach image upload failed")
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store image", nil)
		return
	}

	previous, err := ctl.coaches.SetProfileImage(id, key)
	if err != nil {
		if delErr := images.DeleteImage(key); delErr != nil {
			logger.Get().WithError(delErr).WithField("key", key).Warn("Failed to remove orphaned image")
		}
		respondServiceError(c, err, "Failed to update coach image")
		return
	}
	if previous != nil && *previous != key {
		if err := images.DeleteImage(*previous); err != nil {
			logger.Get().WithError(err).WithField("key", *previous).Warn("Failed to delete replaced image")
		}
	}

	url, err := images.GetImageURL(key)
	if err != nil {
		logger.Get().WithError(err).WithField("key", key).Warn("Failed to resolve image URL")
	}
	respond(c, http.StatusOK, gin.H{
		"coach_id":          id,
		"profile_image_url": url,
	})
}

// ListAppointments handles GET /api/admin/appointments
func (ctl *AdminController) ListAppointments(c *gin.Context) {
	admin, ok := ctl.admin(c)
	if !ok {
		return
	}

	appointments, err := ctl.bookings.List(services.Actor{UserID: admin.ID, Role: models.RoleAdmin})
	if err != nil {
		respondServiceError(c, err, "Failed to fetch appointments")
		return
	}
	respond(c, http.StatusOK, appointments)
}

// UpdateAppointmentStatus handles PATCH /api/admin/appointments/:id/status
func (ctl *AdminController) UpdateAppointmentStatus(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	appt, err := ctl.bookings.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update appointment status")
		return
	}
	respond(c, http.StatusOK, appt)
}

// GetStats handles GET /api/admin/stats
func (ctl *AdminController) GetStats(c *gin.Context) {
	if _, ok := ctl.admin(c); !ok {
		return
	}

	stats, err := ctl.users.Stats()
	if err != nil {
		respondServiceError(c, err, "Failed to compute statistics")
		return
	}
	respond(c, http.StatusOK, stats)
}

// admin loads the caller and re-checks the admin role against the store
func (ctl *AdminController) admin(c *gin.Context) (*models.User, bool) {
	user, ok := actingUser(c, ctl.users)
	if !ok {
		return nil, false
	}
	if user.Role != models.RoleAdmin {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Access denied. Admin only.", nil)
		return nil, false
	}
	return user, true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
