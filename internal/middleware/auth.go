package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	"storefront/internal/db"
	"storefront/internal/models"
)

// SessionUserKey is the session key holding the signed-in user's ID.
const SessionUserKey = "user_id"

// UserGetter loads users by ID.
type UserGetter interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	users UserGetter
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(users UserGetter) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// RequireAuth ensures the user is authenticated, responding 401 if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.sessionUser(c)
	if user == nil {
		return unauthorized(c)
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.sessionUser(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

// RequireRole allows the request through only when the user loaded by
// RequireAuth holds one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}
		if !user.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error":  "insufficient permissions",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth or OptionalAuth, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func (m *AuthMiddleware) sessionUser(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	raw, ok := sess.Get(SessionUserKey).(string)
	if !ok || raw == "" {
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		sess.Delete(SessionUserKey)
		return nil
	}

	user, err := m.users.GetUserByID(c.Context(), id)
	if errors.Is(err, db.ErrUserNotFound) {
		// Account deleted since sign-in.
		sess.Delete(SessionUserKey)
		return nil
	}
	if err != nil {
		return nil
	}
	return user
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "authentication required",
	})
}
