package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, models.RoleClient, "Jane", "Doe")

	w := doJSON(t, env.router(user.ID, models.RoleClient), http.MethodGet, "/api/users/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.User
	decodeData(t, w, &profile)
	assert.Equal(t, user.Email, profile.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, env.router(4242, models.RoleClient), http.MethodGet, "/api/users/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", decode(t, w).Error.Code)
}

func TestUpdateMyProfile(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, models.RoleClient, "Jane", "Doe")
	r := env.router(user.ID, models.RoleClient)

	w := doJSON(t, r, http.MethodPut, "/api/users/profile", gin.H{"first_name": "Janet", "phone": " 555-0100 "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile models.User
	decodeData(t, w, &profile)
	assert.Equal(t, "Janet", profile.FirstName)
	assert.Equal(t, "Doe", profile.LastName, "omitted name is unchanged")
	require.NotNil(t, profile.Phone)
	assert.Equal(t, "555-0100", *profile.Phone)

	w = doJSON(t, r, http.MethodPut, "/api/users/profile", gin.H{"last_name": "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)

	w = doJSON(t, r, http.MethodPut, "/api/users/profile", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &profile)
	assert.Nil(t, profile.Phone, "phone is cleared when omitted")
}
