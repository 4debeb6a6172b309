package handlers

import (
	"fintrack-backend/internal/social"

	"github.com/gofiber/fiber/v2"
)

type CommentHandler struct {
	comments *social.CommentService
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

func NewCommentHandler(comments *social.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input social.CreateCommentInput
	if err := bind(c, &input); err != nil {
		return err
	}

	comment, err := h.comments.Create(c.UserContext(), p.UserID, input)
	if err != nil {
		return err
	}
	return created(c, "Comment created successfully", comment)
}

func (h *CommentHandler) ListByBlog(c *fiber.Ctx) error {
	page, err := pageFromQuery(c, social.DefaultCommentLimit)
	if err != nil {
		return err
	}
	result, err := h.comments.ListByBlog(c.UserContext(), c.Params("blogId"), page)
	if err != nil {
		return err
	}
	return ok(c, "Comments fetched successfully", result)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input UpdateCommentRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	comment, err := h.comments.Update(c.UserContext(), c.Params("id"), p.UserID, input.Content)
	if err != nil {
		return err
	}
	return ok(c, "Comment updated successfully", comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if _, err := h.comments.Delete(c.UserContext(), c.Params("id"), p.UserID); err != nil {
		return err
	}
	return ok(c, "Comment deleted successfully", nil)
}
