// Package logger configures the application's structured logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var instance = logrus.StandardLogger()

// Init configures the shared logger for the given environment and level.
// Production logs are JSON, everything else uses the text formatter.
func Init(env, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, falling back to info", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	instance = log
	return log
}

// Get returns the shared logger
func Get() *logrus.Logger {
	return instance
}

// Set replaces the shared logger (primarily for testing)
func Set(log *logrus.Logger) {
	instance = log
}
