package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/validation"
)

/* ================================ DTOs ================================= */

// Request body for /signup
type SignupRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Request body for /login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=40"`
	Password string `json:"password" validate:"required,max=72"`
}

// Standard auth response
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Profile response for /me
type MeResponse struct {
	Username string `json:"username"`
}

/* ============================== Handler ================================= */

// Handler serves signup/login against the users table. Seeds are static
// credentials that become real rows on their first successful login.
type Handler struct {
	store  *store.Store
	secret string
	seeds  map[string]string
}

func NewHandler(st *store.Store, secret string, seeds map[string]string) *Handler {
	if seeds == nil {
		seeds = map[string]string{}
	}
	return &Handler{store: st, secret: secret, seeds: seeds}
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

/* =============================== Signup ================================= */

// @Summary      Sign up
// @Description  Register a new office account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  SignupRequest  true  "Signup payload"
// @Success      201      {object}  AuthResponse
// @Failure      400      {object}  models.ValidationErrorResponse
// @Failure      409      {object}  models.ErrorResponse  "username already exists"
// @Router       /signup [post]
func (h *Handler) Signup(c *fiber.Ctx) error {
	var in SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	in.Username = strings.TrimSpace(in.Username)

	// Validate request (Laravel-like error shape)
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	// Seed names are reserved for their seed credential
	if _, ok := h.seeds[in.Username]; ok {
		return fiber.NewError(fiber.StatusConflict, "username already exists")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return err
	}
	if err := h.store.InsertUser(models.User{Username: in.Username, Password: hash}); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fiber.NewError(fiber.StatusConflict, "username already exists")
		}
		return err
	}

	token, err := IssueToken(h.secret, in.Username)
	if err != nil {
		return err
	}
	zap.S().Infow("user signed up", "username", in.Username)
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, Username: in.Username})
}

/* ================================ Login ================================= */

// @Summary      Login
// @Description  Authenticate and receive a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  LoginRequest  true  "Login payload"
// @Success      200      {object}  AuthResponse
// @Failure      400      {object}  models.ValidationErrorResponse
// @Failure      401      {object}  models.ErrorResponse
// @Router       /login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var in LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	in.Username = strings.TrimSpace(in.Username)

	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	ok, err := h.authenticate(in.Username, in.Password)
	if err != nil {
		return err
	}
	if !ok {
		zap.S().Warnw("login failed", "username", in.Username)
		return fiber.ErrUnauthorized
	}

	token, err := IssueToken(h.secret, in.Username)
	if err != nil {
		return err
	}
	return c.JSON(AuthResponse{Token: token, Username: in.Username})
}

// authenticate checks a stored user first, then the seed credentials.
// A stored plaintext password is accepted once and replaced by its hash; a
// seed login inserts the user.
func (h *Handler) authenticate(username, password string) (bool, error) {
	u, err := h.store.FindUser(username)
	switch {
	case err == nil:
		if isBcrypt(u.Password) {
			return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil, nil
		}
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
			return false, nil
		}
		hash, err := hashPassword(password)
		if err != nil {
			return false, err
		}
		if err := h.store.UpdateUserPassword(username, hash); err != nil {
			return false, err
		}
		zap.S().Infow("upgraded legacy password to bcrypt", "username", username)
		return true, nil

	case errors.Is(err, store.ErrNotFound):
		seed, ok := h.seeds[username]
		if !ok || subtle.ConstantTimeCompare([]byte(seed), []byte(password)) != 1 {
			return false, nil
		}
		hash, err := hashPassword(password)
		if err != nil {
			return false, err
		}
		if err := h.store.InsertUser(models.User{Username: username, Password: hash}); err != nil && !errors.Is(err, store.ErrConflict) {
			return false, err
		}
		zap.S().Infow("seed user promoted", "username", username)
		return true, nil

	default:
		return false, err
	}
}

/* ================================= Me =================================== */

// @Summary      Get current user
// @Description  Return the authenticated username
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  MeResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /me [get]
func (h *Handler) Me(c *fiber.Ctx) error {
	username := MustUsername(c)
	if _, err := h.store.FindUser(username); err != nil {
		return fiber.ErrUnauthorized
	}
	return c.JSON(MeResponse{Username: username})
}
