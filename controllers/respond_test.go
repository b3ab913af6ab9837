package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestRespondServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", services.ErrOutsideAvailability, http.StatusBadRequest, "OUTSIDE_AVAILABILITY"},
		{"conflict", services.ErrSlotTaken, http.StatusBadRequest, "SLOT_TAKEN"},
		{"not found", services.ErrNotCancellable, http.StatusNotFound, "APPOINTMENT_NOT_FOUND"},
		{"forbidden", services.ErrSelfModification, http.StatusForbidden, "SELF_MODIFICATION"},
		{"internal", errors.New("pq: connection reset by peer"), http.StatusInternalServerError, "DATABASE_ERROR"},
		{"wrapped service error", fmt.Errorf("outer: %w", services.ErrCoachNotFound), http.StatusNotFound, "COACH_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err, "Something failed")

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotContains(t, w.Body.String(), "connection reset", "internal details stay in the logs")
		})
	}
}

// A storage failure in the middle of a booking surfaces as a plain 500.
func TestBookingStorageFailureIsCollapsed(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "status"}).
			AddRow(1, "client@example.com", "client", "active"))
	mock.ExpectQuery(`FROM "coaches"`).
		WillReturnError(errors.New("FATAL: terminating connection due to administrator command"))

	cfg := config.Default()
	users := services.NewUserService(db)
	ctl := NewAppointmentController(services.NewBookingService(db, cfg), users)

	r := gin.New()
	r.POST("/api/appointments", func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	}, ctl.BookAppointment)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", gin.H{
		"coach_id":         3,
		"appointment_date": "2024-06-10",
		"appointment_time": "10:00",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "DATABASE_ERROR", body.Error.Code)
	assert.Equal(t, "Failed to book appointment", body.Error.Message)
	assert.NotContains(t, w.Body.String(), "administrator command")
	assert.NoError(t, mock.ExpectationsWereMet())
}
