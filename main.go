package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().WithError(err).Fatal("Invalid configuration")
	}
	config.SetConfig(cfg)

	log := logger.Init(cfg.GoEnv, cfg.LogLevel)
	log.WithField("env", cfg.GoEnv).Info("Starting Coach Booking API server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	db := config.GetDB()

	if err := config.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	log.Info("Database migration completed successfully")

	if cfg.SeedData {
		if err := config.Seed(db); err != nil {
			log.WithError(err).Fatal("Failed to seed database")
		}
	}

	if _, err := services.InitImageService(cfg); err != nil {
		// Uploads answer 503 until storage is configured correctly
		log.WithError(err).Warn("Coach image storage unavailable")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, log, db),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error during shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped gracefully")
}
