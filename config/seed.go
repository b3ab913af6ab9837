package config

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/kendall-kelly/coach-booking-api/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedData describes the fixtures loaded into a fresh database
type SeedData struct {
	Admin struct {
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
	} `yaml:"admin"`
	CoachPassword string      `yaml:"coach_password"`
	Coaches       []SeedCoach `yaml:"coaches"`
}

// SeedCoach is a sample coach with its backing user
type SeedCoach struct {
	Email           string  `yaml:"email"`
	FirstName       string  `yaml:"first_name"`
	LastName        string  `yaml:"last_name"`
	Specialty       string  `yaml:"specialty"`
	Bio             string  `yaml:"bio"`
	ExperienceYears int     `yaml:"experience_years"`
	HourlyRate      float64 `yaml:"hourly_rate"`
}

// LoadSeedData parses the embedded fixtures
func LoadSeedData() (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// Seed creates the default admin and sample coaches. Existing emails are skipped,
// so running it on every start is safe.
func Seed(db *gorm.DB) error {
	data, err := LoadSeedData()
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := ensureUser(tx, data.Admin.Email, data.Admin.Password, data.Admin.FirstName, data.Admin.LastName, models.RoleAdmin); err != nil {
			return err
		}

		for _, sc := range data.Coaches {
			user, err := ensureUser(tx, sc.Email, data.CoachPassword, sc.FirstName, sc.LastName, models.RoleCoach)
			if err != nil {
				return err
			}
			if user == nil {
				continue
			}
			coach := models.Coach{
				UserID:          user.ID,
				Specialty:       sc.Specialty,
				Bio:             sc.Bio,
				ExperienceYears: sc.ExperienceYears,
				HourlyRate:      sc.HourlyRate,
			}
			if err := tx.Create(&coach).Error; err != nil {
				return fmt.Errorf("failed to seed coach %s: %w", sc.Email, err)
			}
		}

		log.WithField("coaches", len(data.Coaches)).Info("Seed data ensured")
		return nil
	})
}

// ensureUser creates the user unless the email already exists.
// It returns nil when nothing was created.
func ensureUser(tx *gorm.DB, email, password, firstName, lastName, role string) (*models.User, error) {
	var existing models.User
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return &user, nil
}
