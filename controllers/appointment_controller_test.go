package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/services"
	"github.com/kendall-kelly/coach-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookAppointment(t *testing.T) {
	env := newTestEnv(t)
	coach := testutil.CreateCoach(t, env.db, "John", "Smith")
	client := testutil.CreateUser(t, env.db, models.RoleClient, "Jane", "Doe")
	other := testutil.CreateUser(t, env.db, models.RoleClient, "Bob", "Roe")
	monday := testutil.NextWeekday("Monday")

	body := gin.H{
		"coach_id":         coach.ID,
		"appointment_date": monday,
		"appointment_time": "10:00",
		"notes":            "knee rehab",
	}

	w := doJSON(t, env.router(client.ID, models.RoleClient), http.MethodPost, "/api/appointments", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var appt models.Appointment
	decodeData(t, w, &appt)
	assert.NotZero(t, appt.ID)
	assert.Equal(t, models.StatusScheduled, appt.Status)

	w = doJSON(t, env.router(other.ID, models.RoleClient), http.MethodPost, "/api/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SLOT_TAKEN", decode(t, w).Error.Code)
}

func TestBookAppointmentRejections(t *testing.T) {
	env := newTestEnv(t)
	coach := testutil.CreateCoach(t, env.db, "John", "Smith")
	client := testutil.CreateUser(t, env.db, models.RoleClient, "Jane", "Doe")
	blocked := testutil.CreateUser(t, env.db, models.RoleClient, "Bob", "Roe")
	require.NoError(t, env.db.Model(blocked).Update("status", models.UserStatusBlocked).Error)
	monday := testutil.NextWeekday("Monday")

	tests := []struct {
		name   string
		userID uint
		role   string
		body   gin.H
		status int
		code   string
	}{
		{
			name: "missing fields", userID: client.ID, role: models.RoleClient,
			body:   gin.H{"coach_id": coach.ID},
			status: http.StatusBadRequest, code: "VALIDATION_ERROR",
		},
		{
			name: "malformed time", userID: client.ID, role: models.RoleClient,
			body:   gin.H{"coach_id": coach.ID, "appointment_date": monday, "appointment_time": "ten"},
			status: http.StatusBadRequest, code: "VALIDATION_ERROR",
		},
		{
			name: "day off", userID: client.ID, role: models.RoleClient,
			body:   gin.H{"coach_id": coach.ID, "appointment_date": testutil.NextWeekday("Sunday"), "appointment_time": "10:00"},
			status: http.StatusBadRequest, code: "COACH_UNAVAILABLE",
		},
		{
			name: "coach role cannot book", userID: coach.UserID, role: models.RoleCoach,
			body:   gin.H{"coach_id": coach.ID, "appointment_date": monday, "appointment_time": "10:00"},
			status: http.StatusForbidden, code: "FORBIDDEN",
		},
		{
			name: "blocked account", userID: blocked.ID, role: models.RoleClient,
			body:   gin.H{"coach_id": coach.ID, "appointment_date": monday, "appointment_time": "10:00"},
			status: http.StatusForbidden, code: "ACCOUNT_INACTIVE",
		},
		{
			name: "deleted account", userID: 9999, role: models.RoleClient,
			body:   gin.H{"coach_id": coach.ID, "appointment_date": monday, "appointment_time": "10:00"},
			status: http.StatusUnauthorized, code: "USER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, env.router(tt.userID, tt.role), http.MethodPost, "/api/appointments", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode(t, w).Error.Code)
		})
	}
}

func TestListMyAppointments(t *testing.T) {
	env := newTestEnv(t)
	john := testutil.CreateCoach(t, env.db, "John", "Smith")
	sarah := testutil.CreateCoach(t, env.db, "Sarah", "Johnson")
	client := testutil.CreateUser(t, env.db, models.RoleClient, "Jane", "Doe")
	monday := testutil.NextWeekday("Monday")

	testutil.CreateAppointment(t, env.db, client.ID, john.ID, monday, "09:00", models.StatusScheduled)
	testutil.CreateAppointment(t, env.db, client.ID, sarah.ID, monday, "11:00", models.StatusScheduled)

	w := doJSON(t, env.router(john.UserID, models.RoleCoach), http.MethodGet, "/api/appointments/my", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []services.AppointmentView
	decodeData(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, john.ID, views[0].CoachID)
	require.NotNil(t, views[0].Client)
	assert.Equal(t, client.Email, views[0].Client.Email)

	w = doJSON(t, env.router(client.ID, models.RoleClient), http.MethodGet, "/api/appointments/my", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &views)
	require.Len(t, views, 2)
	assert.Equal(t, "11:00", views[0].AppointmentTime, "latest time first")
}

func TestGetAndCancelAppointment(t *testing.T) {
	env := newTestEnv(t)
	coach := testutil.CreateCoach(t, env.db, "John", "Smith")
	client := testutil.CreateUser(t, env.db, models.RoleClient, "Jane", "Doe")
	stranger := testutil.CreateUser(t, env.db, models.RoleClient, "Bob", "Roe")
	appt := testutil.CreateAppointment(t, env.db, client.ID, coach.ID, testutil.NextWeekday("Monday"), "10:00", models.StatusScheduled)
	path := "/api/appointments/" + itoa(appt.ID)

	w := doJSON(t, env.router(stranger.ID, models.RoleClient), http.MethodGet, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, env.router(client.ID, models.RoleClient), http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view services.AppointmentView
	decodeData(t, w, &view)
	assert.Equal(t, appt.ID, view.ID)

	w = doJSON(t, env.router(stranger.ID, models.RoleClient), http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, env.router(client.ID, models.RoleClient), http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, env.router(client.ID, models.RoleClient), http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "APPOINTMENT_NOT_FOUND", decode(t, w).Error.Code)

	var stored models.Appointment
	require.NoError(t, env.db.First(&stored, appt.ID).Error)
	assert.Equal(t, models.StatusCancelled, stored.Status, "cancel keeps the row")

	w = doJSON(t, env.router(client.ID, models.RoleClient), http.MethodDelete, "/api/appointments/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
