// Package principal resolves the authenticated caller from JWT claims.
// Domain services take an explicit Principal value instead of reading
// ambient request state.
package principal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/apperrors"
)

// Principal identifies an authenticated caller.
type Principal struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// FromContext extracts the Principal from the verified JWT in Fiber locals.
func FromContext(c *fiber.Ctx) (Principal, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Principal{}, apperrors.Unauthenticated("missing or invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, apperrors.Unauthenticated("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Principal{}, apperrors.Unauthenticated("missing sub claim")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return Principal{}, apperrors.Unauthenticated("malformed sub claim")
	}

	isAdmin, _ := claims["admin"].(bool)
	return Principal{UserID: userID, IsAdmin: isAdmin}, nil
}
