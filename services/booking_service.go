package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/metrics"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Actor is the authenticated caller an operation runs on behalf of
type Actor struct {
	UserID uint
	Role   string
}

// BookingRequest is a client's request for one slot
type BookingRequest struct {
	CoachID uint
	Date    string
	Time    string
	Notes   string
}

// CoachSummary is the coach side of an appointment listing
type CoachSummary struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email,omitempty"`
	Specialty  string  `json:"specialty"`
	HourlyRate float64 `json:"hourly_rate"`
}

// ClientSummary is the client side of an appointment listing
type ClientSummary struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// AppointmentView is an appointment shaped for the caller's role
type AppointmentView struct {
	ID              uint                     `json:"id"`
	ClientID        uint                     `json:"client_id"`
	CoachID         uint                     `json:"coach_id"`
	AppointmentDate string                   `json:"appointment_date"`
	AppointmentTime string                   `json:"appointment_time"`
	Duration        int                      `json:"duration"`
	Status          models.AppointmentStatus `json:"status"`
	Notes           *string                  `json:"notes"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Coach           *CoachSummary            `json:"coach,omitempty"`
	Client          *ClientSummary           `json:"client,omitempty"`
}

// BookingService is the booking engine. All slot-conflict decisions happen
// inside a transaction backed by the partial unique indexes on appointments.
type BookingService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewBookingService creates a booking engine backed by db
func NewBookingService(db *gorm.DB, cfg *config.Config) *BookingService {
	return &BookingService{db: db, cfg: cfg}
}

// Book reserves a slot for clientID
func (s *BookingService) Book(clientID uint, req BookingRequest) (*models.Appointment, error) {
	appt, err := s.book(clientID, req)

	outcome := "booked"
	var se *ServiceError
	switch {
	case err == nil:
	case errors.As(err, &se):
		outcome = se.Code
	default:
		outcome = "error"
	}
	metrics.RecordBooking(outcome)

	entry := logger.Get().WithFields(logrus.Fields{
		"client_id": clientID,
		"coach_id":  req.CoachID,
		"date":      req.Date,
		"time":      req.Time,
		"outcome":   outcome,
	})
	switch {
	case err == nil:
		entry.WithField("appointment_id", appt.ID).Info("Appointment booked")
	case se != nil:
		entry.Info("Booking rejected")
	default:
		entry.WithError(err).Error("Booking failed")
	}
	return appt, err
}

func (s *BookingService) book(clientID uint, req BookingRequest) (*models.Appointment, error) {
	if req.CoachID == 0 {
		return nil, validationError("coach_id", "coach_id is required")
	}
	day, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, validationError("appointment_date", "%s", err.Error())
	}
	start, err := utils.ParseClock(req.Time)
	if err != nil {
		return nil, validationError("appointment_time", "%s", err.Error())
	}

	coach, err := NewCoachService(s.db, s.cfg).GetCoach(req.CoachID)
	if err != nil {
		return nil, err
	}
	if !coach.WorksOn(day.Weekday()) {
		return nil, ErrCoachUnavailable
	}

	windowStart, windowEnd, err := coachWindow(coach)
	if err != nil {
		return nil, err
	}
	duration := s.cfg.AppointmentDuration
	if start < windowStart || start+duration > windowEnd || (start-windowStart)%s.cfg.SlotMinutes != 0 {
		return nil, ErrOutsideAvailability
	}

	appt := models.Appointment{
		ClientID:        clientID,
		CoachID:         coach.ID,
		AppointmentDate: day.Format(utils.DateLayout),
		AppointmentTime: utils.FormatClock(start),
		Duration:        duration,
		Status:          models.StatusScheduled,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		appt.Notes = &notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		coachBooked, err := bookedIntervals(tx, "coach_id", coach.ID, appt.AppointmentDate, duration)
		if err != nil {
			return err
		}
		if coachBooked.overlaps(start, duration) {
			return ErrSlotTaken
		}

		clientBooked, err := bookedIntervals(tx, "client_id", clientID, appt.AppointmentDate, duration)
		if err != nil {
			return err
		}
		if clientBooked.overlaps(start, duration) {
			return ErrClientDoubleBooked
		}

		return tx.Create(&appt).Error
	})
	if err != nil {
		var se *ServiceError
		if errors.As(err, &se) {
			return nil, se
		}
		// a concurrent booking won the race between our check and insert
		if isUniqueViolation(err) {
			if strings.Contains(strings.ToLower(err.Error()), "coach") {
				return nil, ErrSlotTaken
			}
			return nil, ErrClientDoubleBooked
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	return &appt, nil
}

// Cancel moves a scheduled appointment to cancelled. Repeating the call is a
// not-found error and changes nothing.
func (s *BookingService) Cancel(actor Actor, id uint) error {
	appt, err := s.load(s.db, id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, appt); err != nil {
		return err
	}

	result := s.db.Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, models.StatusScheduled).
		Update("status", models.StatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel appointment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotCancellable
	}

	metrics.RecordTransition(string(models.StatusCancelled))
	logger.Get().WithFields(logrus.Fields{
		"appointment_id": id,
		"user_id":        actor.UserID,
		"role":           actor.Role,
	}).Info("Appointment cancelled")
	return nil
}

// UpdateStatus applies an admin status change, enforcing the lifecycle
func (s *BookingService) UpdateStatus(id uint, status string) (*models.Appointment, error) {
	next, ok := models.ParseAppointmentStatus(status)
	if !ok {
		return nil, validationError("status", "invalid status %q", status)
	}

	appt, err := s.load(s.db, id)
	if err != nil {
		return nil, err
	}
	if _, err := appt.Status.Transition(next); err != nil {
		return nil, ErrInvalidTransition
	}

	result := s.db.Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, appt.Status).
		Update("status", next)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// lost a race with another status change
		return nil, ErrInvalidTransition
	}

	metrics.RecordTransition(string(next))
	logger.Get().WithFields(logrus.Fields{
		"appointment_id": id,
		"from":           appt.Status,
		"to":             next,
	}).Info("Appointment status changed")

	return s.load(s.db, id)
}

// List returns the caller's appointments, newest first. Clients see their own
// bookings, coaches their schedule, admins everything.
func (s *BookingService) List(actor Actor) ([]AppointmentView, error) {
	query := s.db.Model(&models.Appointment{}).
		Order("appointment_date DESC, appointment_time DESC, id DESC")

	switch actor.Role {
	case models.RoleClient:
		query = query.Where("client_id = ?", actor.UserID).Preload("Coach.User")
	case models.RoleCoach:
		coachID, err := coachIDForUser(s.db, actor.UserID)
		if err != nil {
			return nil, err
		}
		query = query.Where("coach_id = ?", coachID).Preload("Client")
	case models.RoleAdmin:
		query = query.Preload("Client").Preload("Coach.User")
	default:
		return nil, ErrForbidden
	}

	appointments := []models.Appointment{}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	views := make([]AppointmentView, 0, len(appointments))
	for i := range appointments {
		views = append(views, newAppointmentView(&appointments[i], actor.Role))
	}
	return views, nil
}

// Get returns one appointment if the caller is a party to it or an admin
func (s *BookingService) Get(actor Actor, id uint) (*AppointmentView, error) {
	var appt models.Appointment
	err := s.db.Preload("Client").Preload("Coach.User").First(&appt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	if err := s.authorize(actor, &appt); err != nil {
		return nil, err
	}

	view := newAppointmentView(&appt, models.RoleAdmin)
	return &view, nil
}

func (s *BookingService) load(db *gorm.DB, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := db.First(&appt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	return &appt, nil
}

// authorize checks that actor is a party to appt or an admin
func (s *BookingService) authorize(actor Actor, appt *models.Appointment) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleClient:
		if appt.ClientID == actor.UserID {
			return nil
		}
	case models.RoleCoach:
		coachID, err := coachIDForUser(s.db, actor.UserID)
		if err != nil {
			return err
		}
		if appt.CoachID == coachID {
			return nil
		}
	}
	return ErrForbidden
}

func newAppointmentView(appt *models.Appointment, role string) AppointmentView {
	view := AppointmentView{
		ID:              appt.ID,
		ClientID:        appt.ClientID,
		CoachID:         appt.CoachID,
		AppointmentDate: appt.AppointmentDate,
		AppointmentTime: appt.AppointmentTime,
		Duration:        appt.Duration,
		Status:          appt.Status,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}

	if role != models.RoleCoach && appt.Coach.ID != 0 {
		view.Coach = &CoachSummary{
			FirstName:  appt.Coach.User.FirstName,
			LastName:   appt.Coach.User.LastName,
			Specialty:  appt.Coach.Specialty,
			HourlyRate: appt.Coach.HourlyRate,
		}
		if role == models.RoleAdmin {
			view.Coach.Email = appt.Coach.User.Email
		}
	}
	if role != models.RoleClient && appt.Client.ID != 0 {
		view.Client = &ClientSummary{
			FirstName: appt.Client.FirstName,
			LastName:  appt.Client.LastName,
			Email:     appt.Client.Email,
			Phone:     appt.Client.Phone,
		}
	}
	return view
}

// interval is a booked span in minutes after midnight
type interval struct {
	start, end int
}

type intervals []interval

func (iv intervals) overlaps(start, duration int) bool {
	end := start + duration
	for _, b := range iv {
		if start < b.end && b.start < end {
			return true
		}
	}
	return false
}

// bookedIntervals loads the non-cancelled appointments for one coach or client on date.
// column is either "coach_id" or "client_id".
func bookedIntervals(db *gorm.DB, column string, id uint, date string, defaultDuration int) (intervals, error) {
	var rows []models.Appointment
	err := db.Select("appointment_time", "duration").
		Where(column+" = ? AND appointment_date = ? AND status <> ?", id, date, models.StatusCancelled).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}

	booked := make(intervals, 0, len(rows))
	for _, row := range rows {
		start, err := utils.ParseClock(row.AppointmentTime)
		if err != nil {
			logger.Get().WithField("time", row.AppointmentTime).Warn("Skipping appointment with malformed time")
			continue
		}
		d := row.Duration
		if d <= 0 {
			d = defaultDuration
		}
		booked = append(booked, interval{start: start, end: start + d})
	}
	return booked, nil
}
