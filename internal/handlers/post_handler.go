package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/dto"
	"github.com/wavelinehq/waveline/internal/principal"
	"github.com/wavelinehq/waveline/internal/services"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost accepts either a JSON body with text, or a multipart form with
// a text field and an image file.
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var text string
	var image []byte
	var imageType string

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return badRequest(c, "Could not read image file")
		}
		defer f.Close()
		image, err = io.ReadAll(f)
		if err != nil {
			return badRequest(c, "Could not read image file")
		}
		imageType = file.Header.Get("Content-Type")
		text = c.FormValue("text")
	} else {
		var req dto.CreatePostRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		text = req.Text
	}

	post, err := h.postService.CreatePost(c.Context(), p.UserID, text, image, imageType)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	post, err := h.postService.GetPost(postID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) GetFeed(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	posts, err := h.postService.GetFeed(p.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(posts)
}

func (h *PostHandler) GetUserPosts(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	posts, err := h.postService.GetUserPosts(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(posts)
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	if err := h.postService.DeletePost(c.Context(), p.UserID, postID); err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Post deleted"})
}

func (h *PostHandler) LikeToggle(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	resp, err := h.postService.LikeToggle(p.UserID, postID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *PostHandler) LikeToggleReply(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	replyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reply ID")
	}

	resp, err := h.postService.LikeToggleReply(p.UserID, replyID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *PostHandler) ReplyToPost(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	reply, err := h.postService.ReplyToPost(p.UserID, postID, req.Text)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (h *PostHandler) DeleteReply(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}
	replyID, err := uuid.Parse(c.Params("replyId"))
	if err != nil {
		return badRequest(c, "Invalid reply ID")
	}

	if err := h.postService.DeleteReply(p.UserID, postID, replyID); err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Reply deleted"})
}
