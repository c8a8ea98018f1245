package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/validation"
)

/* ============================== JWT Claims ============================== */

// Claims represents the JWT payload we issue and expect.
type Claims struct {
	Sub string `json:"sub"` // username
	jwt.RegisteredClaims
}

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 7 * 24 * time.Hour

/* ============================== JWT Helpers ============================= */

// IssueToken signs an HS256 JWT for the given username.
func IssueToken(secret, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

/* ============================== Middleware ============================== */

// RequireAuth validates a Bearer JWT and injects the username into the context.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			return fiber.ErrUnauthorized
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || claims.Sub == "" {
			return fiber.ErrUnauthorized
		}

		c.Locals("username", claims.Sub)
		return c.Next()
	}
}

// MustUsername reads the authenticated username from context or panics (programming error).
func MustUsername(c *fiber.Ctx) string {
	if v, ok := c.Locals("username").(string); ok && v != "" {
		return v
	}
	panic(errors.New("username not in context"))
}

/* =========================== Error Formatting =========================== */

// httpCodeToString converts an HTTP status code to a short, stable string.
func httpCodeToString(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusBadGateway:
		return "BAD_GATEWAY"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// ErrorHandler is a global Fiber error handler that returns a consistent JSON
// shape. Record-store errors are mapped here so handlers can return them as is.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		ve *store.ValidationError
		be *store.BlockedError
		pe *store.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		return validation.Respond(c, ve.Errors)

	case errors.As(err, &be):
		return c.Status(fiber.StatusConflict).JSON(models.BlockedResponse{
			Error:      true,
			Message:    be.Entity + " has dependent records",
			Code:       "INTEGRITY_BLOCKED",
			Dependents: be.Dependents,
		})

	case errors.Is(err, store.ErrNotFound):
		err = fiber.ErrNotFound

	case errors.Is(err, store.ErrConflict):
		err = fiber.ErrConflict

	case errors.As(err, &pe):
		// The change is live in memory but not on disk.
		zap.S().Errorw("request left unsaved changes", "path", c.Path(), "op", pe.Op, "error", pe.Err)
		err = fiber.NewError(fiber.StatusInternalServerError, "Changes could not be saved")
	}

	// Defaults
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	// Fiber errors carry status codes
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if strings.TrimSpace(fe.Message) != "" {
			msg = fe.Message
		}
	} else {
		zap.S().Errorw("unhandled error", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Code:    httpCodeToString(code),
		Error:   true,
		Message: msg,
	})
}
