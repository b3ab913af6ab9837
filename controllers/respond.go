package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/middleware"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/services"
)

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

// respondServiceError maps domain failures onto HTTP statuses. Anything that is
// not a ServiceError is logged and collapsed into a generic 500.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		logger.Get().WithError(err).WithField("path", c.FullPath()).Error(fallback)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", fallback, nil)
		return
	}

	var details interface{}
	if se.Field != "" {
		details = gin.H{"field": se.Field}
	}

	switch se.Kind {
	case services.KindValidation, services.KindConflict:
		respondError(c, http.StatusBadRequest, se.Code, se.Message, details)
	case services.KindNotFound:
		respondError(c, http.StatusNotFound, se.Code, se.Message, details)
	case services.KindForbidden:
		respondError(c, http.StatusForbidden, se.Code, se.Message, details)
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", fallback, nil)
	}
}

func respondBindingError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name, gin.H{"field": name})
		return 0, false
	}
	return uint(id), true
}

// actingUser loads the caller from the store. The token proves identity, but
// blocked or removed accounts are rejected here.
func actingUser(c *gin.Context, users *services.UserService) (*models.User, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information", nil)
		return nil, false
	}

	user, err := users.Find(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, "USER_NOT_FOUND", "User account no longer exists", nil)
			return nil, false
		}
		respondServiceError(c, err, "Failed to load user")
		return nil, false
	}

	if !user.IsActive() {
		respondError(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Your account is not active", nil)
		return nil, false
	}
	return user, true
}

func actorOf(user *models.User) services.Actor {
	return services.Actor{UserID: user.ID, Role: user.Role}
}
