package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/services"
)

// BookAppointmentRequest is the body of POST /api/appointments
type BookAppointmentRequest struct {
	CoachID         uint   `json:"coach_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
	Notes           string `json:"notes"`
}

// AppointmentController handles booking, listing and cancelling appointments
type AppointmentController struct {
	bookings *services.BookingService
	users    *services.UserService
}

func NewAppointmentController(bookings *services.BookingService, users *services.UserService) *AppointmentController {
	return &AppointmentController{bookings: bookings, users: users}
}

// BookAppointment handles POST /api/appointments (clients only)
func (ctl *AppointmentController) BookAppointment(c *gin.Context) {
	user, ok := actingUser(c, ctl.users)
	if !ok {
		return
	}
	if user.Role != models.RoleClient {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only clients can book appointments", nil)
		return
	}

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	appt, err := ctl.bookings.Book(user.ID, services.BookingRequest{
		CoachID: req.CoachID,
		Date:    req.AppointmentDate,
		Time:    req.AppointmentTime,
		Notes:   req.Notes,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to book appointment")
		return
	}

	respond(c, http.StatusCreated, appt)
}

// ListMyAppointments handles GET /api/appointments/my
func (ctl *AppointmentController) ListMyAppointments(c *gin.Context) {
	user, ok := actingUser(c, ctl.users)
	if !ok {
		return
	}

	appointments, err := ctl.bookings.List(actorOf(user))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch appointments")
		return
	}
	respond(c, http.StatusOK, appointments)
}

// GetAppointment handles GET /api/appointments/:id
func (ctl *AppointmentController) GetAppointment(c *gin.Context) {
	user, ok := actingUser(c, ctl.users)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	appointment, err := ctl.bookings.Get(actorOf(user), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch appointment")
		return
	}
	respond(c, http.StatusOK, appointment)
}

// CancelAppointment handles DELETE /api/appointments/:id. The row is kept
// with status cancelled.
func (ctl *AppointmentController) CancelAppointment(c *gin.Context) {
	user, ok := actingUser(c, ctl.users)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctl.bookings.Cancel(actorOf(user), id); err != nil {
		respondServiceError(c, err, "Failed to cancel appointment")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"id":     id,
		"status": models.StatusCancelled,
	})
}
