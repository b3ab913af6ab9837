package testutil

import (
	"strconv"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/middleware"
	"github.com/stretchr/testify/require"
)

// MintToken signs an HS256 token the way the identity provider would
func MintToken(t *testing.T, cfg *config.Config, userID uint, role string) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"role": role,
		"iss":  cfg.JWTIssuer,
		"aud":  []string{cfg.JWTAudience},
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

// MockValidatedClaims builds the claims EnsureValidToken would store
func MockValidatedClaims(userID uint, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "fitnessma",
			Subject: strconv.FormatUint(uint64(userID), 10),
		},
		CustomClaims: &middleware.CustomClaims{Role: role},
	}
}

// MockAuthMiddleware stands in for EnsureValidToken in handler tests
func MockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.ClaimsKey, MockValidatedClaims(userID, role))
		c.Next()
	}
}
