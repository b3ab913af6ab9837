package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL         string
	Port                string
	GoEnv               string
	JWTSecret           string
	JWTIssuer           string
	JWTAudience         string
	CORSAllowedOrigins  []string
	SlotMinutes         int
	AppointmentDuration int
	BookingRateLimit    int
	BookingRateBurst    int
	SeedData            bool
	AWSRegion           string
	AWSS3Bucket         string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	UploadDir           string
	LogLevel            string
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Deployed environments set variables directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", "./database/fitnessma.db"),
		Port:                getEnv("PORT", "5001"),
		GoEnv:               getEnv("GO_ENV", "development"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTIssuer:           getEnv("JWT_ISSUER", "fitnessma"),
		JWTAudience:         getEnv("JWT_AUDIENCE", "fitnessma-api"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SlotMinutes:         getEnvInt("SLOT_MINUTES", 60),
		AppointmentDuration: getEnvInt("APPOINTMENT_DURATION", 60),
		BookingRateLimit:    getEnvInt("BOOKING_RATE_LIMIT", 5),
		BookingRateBurst:    getEnvInt("BOOKING_RATE_BURST", 10),
		SeedData:            getEnvBool("SEED_DATA", env == "development"),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:         getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	// Development and test fall back to a fixed signing secret
	if config.JWTSecret == "" && !config.IsProduction() {
		config.JWTSecret = defaultDevSecret
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

const defaultDevSecret = "dev_secret_change_this_in_production"

// Default returns the configuration used when nothing has been loaded,
// mainly by unit tests that exercise controllers directly.
func Default() *Config {
	return &Config{
		DatabaseURL:         ":memory:",
		Port:                "5001",
		GoEnv:               "test",
		JWTSecret:           defaultDevSecret,
		JWTIssuer:           "fitnessma",
		JWTAudience:         "fitnessma-api",
		CORSAllowedOrigins:  []string{"*"},
		SlotMinutes:         60,
		AppointmentDuration: 60,
		BookingRateLimit:    5,
		BookingRateBurst:    10,
		AWSRegion:           "us-east-1",
		UploadDir:           "./uploads",
		LogLevel:            "info",
	}
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SlotMinutes <= 0 || c.SlotMinutes > 24*60 {
		return fmt.Errorf("SLOT_MINUTES must be between 1 and 1440, got %d", c.SlotMinutes)
	}
	if c.AppointmentDuration <= 0 || c.AppointmentDuration%c.SlotMinutes != 0 {
		return fmt.Errorf("APPOINTMENT_DURATION must be a positive multiple of SLOT_MINUTES (%d), got %d",
			c.SlotMinutes, c.AppointmentDuration)
	}
	if c.BookingRateLimit <= 0 || c.BookingRateBurst <= 0 {
		return fmt.Errorf("BOOKING_RATE_LIMIT and BOOKING_RATE_BURST must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// ImageStorageEnabled reports whether coach profile images can be stored in S3
func (c *Config) ImageStorageEnabled() bool {
	return c.AWSS3Bucket != ""
}

// GetConfig returns the loaded configuration, or the defaults if none was set
func GetConfig() *Config {
	if appConfig == nil {
		return Default()
	}
	return appConfig
}

// SetConfig sets the application configuration (called once at startup and by tests)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("Invalid integer for %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warnf("Invalid boolean for %s=%q, using default %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
