package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/models"
)

// Context keys set by EnsureValidToken
const (
	UserIDKey = "user_id"
	ClaimsKey = "validated_claims"
)

// CustomClaims carries the caller's role alongside the registered claims.
type CustomClaims struct {
	Role  string `json:"role"`
	Scope string `json:"scope,omitempty"`
}

// Validate rejects tokens whose role is not one we know about.
func (c CustomClaims) Validate(ctx context.Context) error {
	if !models.ValidRole(c.Role) {
		return &AuthError{Code: "INVALID_ROLE", Message: "token carries an unknown role"}
	}
	return nil
}

// HasScope checks whether our claims have a specific scope.
func (c CustomClaims) HasScope(expectedScope string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == expectedScope {
			return true
		}
	}
	return false
}

// EnsureValidToken validates the HS256 bearer token and stores the numeric
// user id and claims in the gin context.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	log := logger.Get()
	secret := []byte(cfg.JWTSecret)

	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) { return secret, nil },
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).Debug("Rejected bearer token")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.WithError(writeErr).Warn("Failed to write error response")
		}
	}

	checker := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authenticated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				return
			}

			userID, err := strconv.ParseUint(token.RegisteredClaims.Subject, 10, 64)
			if err != nil || userID == 0 {
				errorHandler(w, r, &AuthError{Code: "INVALID_SUBJECT", Message: "token subject is not a user id"})
				return
			}

			c.Set(UserIDKey, uint(userID))
			c.Set(ClaimsKey, token)
			c.Request = r
			authenticated = true
		}

		checker.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if !authenticated {
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not numeric"}
	}

	return id, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetRole returns the role claim of the authenticated caller
func GetRole(c *gin.Context) (string, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return "", err
	}
	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok || custom == nil {
		return "", &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}
	return custom.Role, nil
}

// RequireRole aborts with 403 unless the caller's role claim is one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetRole(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_CLAIMS",
					"message": "Could not retrieve token claims",
				},
			})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Access denied. Insufficient permissions.",
			},
		})
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
