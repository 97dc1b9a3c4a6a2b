package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"storefront/internal/db"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/validation"
)

// UserHandler handles user management operations via JSON API (admin only).
type UserHandler struct {
	db *db.DB
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(database *db.DB) *UserHandler {
	return &UserHandler{db: database}
}

// List returns all users.
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.db.ListUsers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}
	return jsonSuccess(c, users)
}

// Create adds a user with any role.
func (h *UserHandler) Create(c fiber.Ctx) error {
	var body struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"omitempty,oneof=customer sales finance admin"`
	}
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	user := &models.User{
		Name:  strings.TrimSpace(body.Name),
		Email: strings.TrimSpace(body.Email),
		Role:  body.Role,
	}
	if err := h.db.CreateUser(c.Context(), user, body.Password); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return jsonError(c, fiber.StatusConflict, "email already registered")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create user")
	}

	return jsonCreated(c, user)
}

// Update changes a user's name, email or role.
func (h *UserHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var body models.UserUpdate
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.IsEmpty() {
		return jsonError(c, fiber.StatusBadRequest, "no fields to update")
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		return jsonError(c, fiber.StatusBadRequest, "name cannot be empty")
	}
	if body.Email != nil && !validation.ValidateEmail(*body.Email) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid email format")
	}
	if body.Role != nil && !models.IsValidRole(*body.Role) {
		return jsonError(c, fiber.StatusBadRequest, "invalid role")
	}

	user, err := h.db.UpdateUser(c.Context(), id, body)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrUserNotFound):
			return jsonError(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, db.ErrDuplicateEmail):
			return jsonError(c, fiber.StatusConflict, "email already registered")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update user")
	}

	return jsonSuccess(c, user)
}

// Delete removes a user. Admins cannot delete themselves.
func (h *UserHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if current := middleware.CurrentUser(c); current != nil && current.ID == id {
		return jsonError(c, fiber.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.db.DeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete user")
	}

	return jsonSuccess(c, fiber.Map{"message": "user deleted"})
}
