package auth_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldoetobex/mojaz-backend/internal/auth"
	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/internal/testhelpers"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

const secret = "test-secret"

/* ============================================================================
   Helpers
   ============================================================================ */

func newAuthApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	st, _ := testhelpers.NewStore(t)
	h := auth.NewHandler(st, secret, map[string]string{"admin": "admin123"})

	app := testhelpers.NewApp()
	app.Post("/api/signup", h.Signup)
	app.Post("/api/login", h.Login)
	app.Get("/api/me", auth.RequireAuth(secret), h.Me)
	return app, st
}

func bearer(tok string) []string { return []string{"Authorization", "Bearer " + tok} }

/* ============================================================================
   Signup / Login
   ============================================================================ */

func TestSignupThenLogin(t *testing.T) {
	app, st := newAuthApp(t)

	var out auth.AuthResponse
	code := testhelpers.DoJSON(t, app, "POST", "/api/signup",
		map[string]string{"username": "sara", "password": "secret1"}, &out)
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "sara", out.Username)
	assert.NotEmpty(t, out.Token)

	u, err := st.FindUser("sara")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Password, "$2"), "password must be stored hashed")

	code = testhelpers.DoJSON(t, app, "POST", "/api/login",
		map[string]string{"username": "sara", "password": "secret1"}, &out)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = testhelpers.Do(t, app, "POST", "/api/login",
		map[string]string{"username": "sara", "password": "wrong!"})
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestSignupRejectsDuplicatesAndSeedNames(t *testing.T) {
	app, _ := newAuthApp(t)
	body := map[string]string{"username": "sara", "password": "secret1"}

	code, _ := testhelpers.Do(t, app, "POST", "/api/signup", body)
	require.Equal(t, fiber.StatusCreated, code)
	code, _ = testhelpers.Do(t, app, "POST", "/api/signup", body)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = testhelpers.Do(t, app, "POST", "/api/signup",
		map[string]string{"username": "admin", "password": "whatever"})
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestSignupValidation(t *testing.T) {
	app, _ := newAuthApp(t)

	var out models.ValidationErrorResponse
	code := testhelpers.DoJSON(t, app, "POST", "/api/signup",
		map[string]string{"username": "a b", "password": "123"}, &out)
	require.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, out.Errors, "username")
	assert.Contains(t, out.Errors, "password")
}

func TestSeedLoginPromotesUser(t *testing.T) {
	app, st := newAuthApp(t)

	_, err := st.FindUser("admin")
	require.ErrorIs(t, err, store.ErrNotFound)

	code, _ := testhelpers.Do(t, app, "POST", "/api/login",
		map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, fiber.StatusOK, code)

	u, err := st.FindUser("admin")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", u.Password)

	// a second login goes through the stored row
	code, _ = testhelpers.Do(t, app, "POST", "/api/login",
		map[string]string{"username": "admin", "password": "admin123"})
	assert.Equal(t, fiber.StatusOK, code)
}

func TestLegacyPlaintextPasswordIsUpgraded(t *testing.T) {
	app, st := newAuthApp(t)
	require.NoError(t, st.InsertUser(models.User{Username: "old", Password: "plainpw"}))

	code, _ := testhelpers.Do(t, app, "POST", "/api/login",
		map[string]string{"username": "old", "password": "plainpw"})
	require.Equal(t, fiber.StatusOK, code)

	u, err := st.FindUser("old")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Password, "$2"))

	code, _ = testhelpers.Do(t, app, "POST", "/api/login",
		map[string]string{"username": "old", "password": "plainpw"})
	assert.Equal(t, fiber.StatusOK, code)
}

/* ============================================================================
   Middleware
   ============================================================================ */

func TestRequireAuth(t *testing.T) {
	app, st := newAuthApp(t)
	require.NoError(t, st.InsertUser(models.User{Username: "sara", Password: "x"}))

	tok, err := auth.IssueToken(secret, "sara")
	require.NoError(t, err)

	var me auth.MeResponse
	code := testhelpers.DoJSON(t, app, "GET", "/api/me", nil, &me, bearer(tok)...)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "sara", me.Username)

	code, _ = testhelpers.Do(t, app, "GET", "/api/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	other, err := auth.IssueToken("another-secret", "sara")
	require.NoError(t, err)
	code, _ = testhelpers.Do(t, app, "GET", "/api/me", nil, bearer(other)...)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		Sub: "sara",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	raw, err := expired.SignedString([]byte(secret))
	require.NoError(t, err)
	code, _ = testhelpers.Do(t, app, "GET", "/api/me", nil, bearer(raw)...)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

/* ============================================================================
   Error handler
   ============================================================================ */

func TestErrorHandlerMapsStoreErrors(t *testing.T) {
	app := testhelpers.NewApp()
	app.Get("/blocked", func(c *fiber.Ctx) error {
		return &store.BlockedError{Entity: "client", ID: 1, Dependents: []string{"cases", "invoices"}}
	})
	app.Get("/missing", func(c *fiber.Ctx) error { return store.ErrNotFound })
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return &store.ValidationError{Errors: map[string][]string{"name": {"The name field is required"}}}
	})
	app.Get("/unsaved", func(c *fiber.Ctx) error {
		return &store.PersistenceError{Op: "insert client", Err: errors.New("disk full")}
	})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	var blocked models.BlockedResponse
	code := testhelpers.DoJSON(t, app, "GET", "/blocked", nil, &blocked)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "INTEGRITY_BLOCKED", blocked.Code)
	assert.Equal(t, []string{"cases", "invoices"}, blocked.Dependents)

	var e models.ErrorResponse
	code = testhelpers.DoJSON(t, app, "GET", "/missing", nil, &e)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", e.Code)

	code, raw := testhelpers.Do(t, app, "GET", "/invalid", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
	var ve map[string]any
	require.NoError(t, json.Unmarshal(raw, &ve))
	assert.Equal(t, "Validation failed", ve["message"])

	code = testhelpers.DoJSON(t, app, "GET", "/unsaved", nil, &e)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Changes could not be saved", e.Message)

	code = testhelpers.DoJSON(t, app, "GET", "/boom", nil, &e)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", e.Message)
}

func TestErrorHandlerStatusCodes(t *testing.T) {
	app := testhelpers.NewApp()
	want := map[int]string{
		fiber.StatusBadRequest:         "BAD_REQUEST",
		fiber.StatusUnauthorized:       "UNAUTHORIZED",
		fiber.StatusForbidden:          "FORBIDDEN",
		fiber.StatusNotFound:           "NOT_FOUND",
		fiber.StatusConflict:           "CONFLICT",
		fiber.StatusBadGateway:         "BAD_GATEWAY",
		fiber.StatusServiceUnavailable: "SERVICE_UNAVAILABLE",
	}
	for status := range want {
		status := status // per-iteration copy (pre-Go 1.22 loop semantics)
		app.Get(fmt.Sprintf("/status/%d", status), func(c *fiber.Ctx) error {
			return fiber.NewError(status, "nope")
		})
	}
	for status, name := range want {
		var e models.ErrorResponse
		code := testhelpers.DoJSON(t, app, "GET", fmt.Sprintf("/status/%d", status), nil, &e)
		assert.Equal(t, status, code)
		assert.Equal(t, name, e.Code, "status %d", status)
		assert.Equal(t, "nope", e.Message)
	}
}
