package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"storefront/internal/db"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

// AuthHandler handles password registration and session sign-in.
type AuthHandler struct {
	db *db.DB
}

// NewAuthHandler creates a new API auth handler.
func NewAuthHandler(database *db.DB) *AuthHandler {
	return &AuthHandler{db: database}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
}

// Register creates an account. Only a signed-in admin may choose the role;
// everyone else gets a customer account.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body registerRequest
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	role := models.RoleCustomer
	if caller := middleware.CurrentUser(c); caller != nil && caller.IsAdmin() && body.Role != "" {
		if !models.IsValidRole(body.Role) {
			return jsonError(c, fiber.StatusBadRequest, "invalid role")
		}
		role = body.Role
	}

	user := &models.User{
		Name:  strings.TrimSpace(body.Name),
		Email: strings.TrimSpace(body.Email),
		Role:  role,
	}
	if err := h.db.CreateUser(c.Context(), user, body.Password); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return jsonError(c, fiber.StatusConflict, "email already registered")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create user")
	}

	return jsonCreated(c, user)
}

// Login checks the credentials and stores the user in the session.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	user, err := h.db.AuthenticateUser(c.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, db.ErrInvalidCredentials) {
			return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to sign in")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return jsonError(c, fiber.StatusInternalServerError, "session not available")
	}
	sess.Set(middleware.SessionUserKey, user.ID.String())

	return jsonSuccess(c, user)
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}
	return jsonSuccess(c, fiber.Map{"message": "signed out"})
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, user)
}
