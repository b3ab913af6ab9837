package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/services"
)

// CoachController serves the public coach directory
type CoachController struct {
	coaches *services.CoachService
}

func NewCoachController(coaches *services.CoachService) *CoachController {
	return &CoachController{coaches: coaches}
}

// ListCoaches handles GET /api/coaches
func (ctl *CoachController) ListCoaches(c *gin.Context) {
	coaches, err := ctl.coaches.ListActiveCoaches()
	if err != nil {
		respondServiceError(c, err, "Failed to fetch coaches")
		return
	}
	respond(c, http.StatusOK, coaches)
}

// GetCoach handles GET /api/coaches/:id
func (ctl *CoachController) GetCoach(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	coach, err := ctl.coaches.GetCoach(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch coach")
		return
	}
	respond(c, http.StatusOK, coach)
}

// GetAvailability handles GET /api/coaches/:id/availability/:date
func (ctl *CoachController) GetAvailability(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	availability, err := ctl.coaches.GetAvailability(id, c.Param("date"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch availability")
		return
	}
	respond(c, http.StatusOK, availability)
}
