package visibility

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// FromCtx builds the Viewer for a request. Unauthenticated requests get
// the zero Viewer. Works for both required-JWT routes and routes using
// the optional auth middleware.
func FromCtx(c *fiber.Ctx) Viewer {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Viewer{}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Viewer{}
	}

	var viewer Viewer
	if sub, ok := claims["sub"].(string); ok {
		if id, err := uuid.Parse(sub); err == nil {
			viewer.UserID = &id
		}
	}
	if role, ok := claims["role"].(string); ok {
		viewer.IsAdmin = role == "admin"
	}
	return viewer
}
