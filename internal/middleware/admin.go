package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wavelinehq/waveline/internal/dto"
	"github.com/wavelinehq/waveline/internal/models"
	"github.com/wavelinehq/waveline/internal/principal"
	"gorm.io/gorm"
)

// AdminRequired checks the admin claim and confirms it against the user
// record, so a stale token cannot keep admin access after a role change.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Kind: "unauthenticated", Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", p.UserID).Error; err == nil && user.IsAdmin() {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Kind: "forbidden", Message: "Admin access required",
		})
	}
}
