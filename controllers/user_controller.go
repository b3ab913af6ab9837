package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/services"
)

// UpdateProfileRequest is the body of PUT /api/users/profile.
// Empty names are left unchanged; phone is replaced as given.
type UpdateProfileRequest struct {
	FirstName string  `json:"first_name" binding:"omitempty,min=2"`
	LastName  string  `json:"last_name" binding:"omitempty,min=2"`
	Phone     *string `json:"phone"`
}

// UserController serves the caller's own profile
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GetMyProfile handles GET /api/users/profile
func (ctl *UserController) GetMyProfile(c *gin.Context) {
	user, ok := actingUser(c, ctl.users)
	if !ok {
		return
	}
	respond(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/users/profile
func (ctl *UserController) UpdateMyProfile(c *gin.Context) {
	user, ok := actingUser(c, ctl.users)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	updated, err := ctl.users.UpdateProfile(user.ID, services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update user profile")
		return
	}
	respond(c, http.StatusOK, updated)
}
