package controllers

import (
	"net/http"
	"testing"

	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/services"
	"github.com/kendall-kelly/coach-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCoaches(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateCoach(t, env.db, "Sarah", "Johnson")
	testutil.CreateCoach(t, env.db, "John", "Smith")
	r := env.router(0, "")

	w := doJSON(t, r, http.MethodGet, "/api/coaches", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var coaches []models.Coach
	decodeData(t, w, &coaches)
	require.Len(t, coaches, 2)
	assert.Equal(t, "John", coaches[0].User.FirstName)
	assert.NotContains(t, w.Body.String(), "password", "password hashes never leave the API")
}

func TestGetCoachEndpoint(t *testing.T) {
	env := newTestEnv(t)
	coach := testutil.CreateCoach(t, env.db, "John", "Smith")
	r := env.router(0, "")

	tests := []struct {
		name     string
		path     string
		status   int
		wantCode string
	}{
		{"found", "/api/coaches/" + itoa(coach.ID), http.StatusOK, ""},
		{"missing", "/api/coaches/9999", http.StatusNotFound, "COACH_NOT_FOUND"},
		{"bad id", "/api/coaches/abc", http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
			}
		})
	}
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	env := newTestEnv(t)
	coach := testutil.CreateCoach(t, env.db, "John", "Smith", testutil.WithSchedule("Monday,Tuesday", "09:00", "17:00"))
	r := env.router(0, "")

	w := doJSON(t, r, http.MethodGet, "/api/coaches/"+itoa(coach.ID)+"/availability/"+testutil.NextWeekday("Monday"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var open services.Availability
	decodeData(t, w, &open)
	assert.True(t, open.Available)
	assert.Len(t, open.Slots, 8)
	assert.Equal(t, "09:00", open.Slots[0])
	assert.Equal(t, "16:00", open.Slots[7])

	w = doJSON(t, r, http.MethodGet, "/api/coaches/"+itoa(coach.ID)+"/availability/"+testutil.NextWeekday("Wednesday"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var closed services.Availability
	decodeData(t, w, &closed)
	assert.False(t, closed.Available)
	assert.Empty(t, closed.Slots)

	w = doJSON(t, r, http.MethodGet, "/api/coaches/"+itoa(coach.ID)+"/availability/next-monday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, map[string]interface{}{"field": "date"}, body.Error.Details)
}
