package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/dto"
	"github.com/wavelinehq/waveline/internal/principal"
	"github.com/wavelinehq/waveline/internal/services"
)

type UserHandler struct {
	userService   *services.UserService
	followService *services.FollowService
}

func NewUserHandler(userService *services.UserService, followService *services.FollowService) *UserHandler {
	return &UserHandler{userService: userService, followService: followService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(profile)
}

// UpdateProfile accepts multipart form fields (display_name, bio) plus an
// optional avatar file.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateProfileRequest
	if v := c.FormValue("display_name"); v != "" {
		req.DisplayName = &v
	}
	if form, err := c.MultipartForm(); err == nil {
		if vals, ok := form.Value["bio"]; ok && len(vals) > 0 {
			req.Bio = &vals[0]
		}
	}

	var avatar []byte
	var avatarType string
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return badRequest(c, "Could not read avatar file")
		}
		defer f.Close()
		avatar, err = io.ReadAll(f)
		if err != nil {
			return badRequest(c, "Could not read avatar file")
		}
		avatarType = file.Header.Get("Content-Type")
	}

	user, err := h.userService.UpdateProfile(c.Context(), p.UserID, &req, avatar, avatarType)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(user)
}

func (h *UserHandler) FollowToggle(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	direction, err := h.followService.FollowToggle(p.UserID, targetID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.FollowToggleResponse{Direction: direction})
}

func (h *UserHandler) FreezeToggle(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	frozen, err := h.userService.FreezeToggle(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"is_frozen": frozen})
}
