package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/dto"
)

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindDependency:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail maps a service error onto a stable machine-readable response.
// Internal details never reach the client.
func fail(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(kind),
		Message: message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Kind: string(apperrors.KindValidation), Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Kind: string(apperrors.KindUnauthenticated), Message: "Unauthorized",
	})
}
