package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/dto"
	"github.com/wavelinehq/waveline/internal/principal"
	"github.com/wavelinehq/waveline/internal/services"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) SubmitReport(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.moderationService.SubmitUserReport(p.UserID, postID, req.Reason, req.CustomReason)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.moderationService.ListReports(c.Query("status", ""))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"reports": reports, "total": len(reports)})
}

func (h *ModerationHandler) ResolveReport(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.ResolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.moderationService.ResolveReport(c.Context(), p.UserID, reportID, req.Action)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(report)
}
