package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/controllers"
	"github.com/kendall-kelly/coach-booking-api/metrics"
	"github.com/kendall-kelly/coach-booking-api/middleware"
	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// newRouter builds the full HTTP surface over db
func newRouter(cfg *config.Config, log *logrus.Logger, db *gorm.DB) *gin.Engine {
	userService := services.NewUserService(db)
	coachService := services.NewCoachService(db, cfg)
	bookingService := services.NewBookingService(db, cfg)

	coaches := controllers.NewCoachController(coachService)
	appointments := controllers.NewAppointmentController(bookingService, userService)
	admin := controllers.NewAdminController(userService, coachService, bookingService)
	users := controllers.NewUserController(userService)
	uploads := controllers.NewUploadController(cfg.UploadDir)

	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.RequestLogger(log), metrics.GinMiddleware())
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck(db))
		api.GET("/uploads/:filename", uploads.GetUploadedImage)

		api.GET("/coaches", coaches.ListCoaches)
		api.GET("/coaches/:id", coaches.GetCoach)
		api.GET("/coaches/:id/availability/:date", coaches.GetAvailability)
	}

	bookingLimiter := middleware.NewRateLimiter(cfg.BookingRateLimit, cfg.BookingRateBurst)

	protected := api.Group("")
	protected.Use(middleware.EnsureValidToken(cfg))
	{
		protected.POST("/appointments",
			middleware.RequireRole(models.RoleClient),
			bookingLimiter.Middleware(),
			appointments.BookAppointment)
		protected.GET("/appointments/my", appointments.ListMyAppointments)
		protected.GET("/appointments/:id", appointments.GetAppointment)
		protected.DELETE("/appointments/:id", appointments.CancelAppointment)

		protected.GET("/users/profile", users.GetMyProfile)
		protected.PUT("/users/profile", users.UpdateMyProfile)
	}

	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
	{
		adminGroup.GET("/users", admin.ListUsers)
		adminGroup.POST("/users", admin.CreateUser)
		adminGroup.PATCH("/users/:id/status", admin.UpdateUserStatus)
		adminGroup.DELETE("/users/:id", admin.DeleteUser)

		adminGroup.GET("/coaches", admin.ListCoaches)
		adminGroup.POST("/coaches", admin.CreateCoach)
		adminGroup.PUT("/coaches/:id", admin.UpdateCoach)
		adminGroup.DELETE("/coaches/:id", admin.DeleteCoach)
		adminGroup.POST("/coaches/:id/image", admin.UploadCoachImage)

		adminGroup.GET("/appointments", admin.ListAppointments)
		adminGroup.PATCH("/appointments/:id/status", admin.UpdateAppointmentStatus)

		adminGroup.GET("/stats", admin.GetStats)
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}

	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

// healthCheck reports liveness and whether the database answers a ping
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "connected"
		status := http.StatusOK

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			database = "unavailable"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"success":  status == http.StatusOK,
			"message":  "Coach Booking API is running",
			"database": database,
		})
	}
}
