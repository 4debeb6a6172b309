package handlers

import (
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/social"

	"github.com/gofiber/fiber/v2"
)

type BlogHandler struct {
	blogs *social.BlogService
}

type BlogStatusRequest struct {
	Status models.BlogStatus `json:"status" validate:"required,oneof=draft published archived"`
}

func NewBlogHandler(blogs *social.BlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input social.CreateBlogInput
	if err := bind(c, &input); err != nil {
		return err
	}

	blog, err := h.blogs.Create(c.UserContext(), p.UserID, input)
	if err != nil {
		return err
	}
	return created(c, "Blog created successfully", blog)
}

// List returns published posts unless another status is asked for.
func (h *BlogHandler) List(c *fiber.Ctx) error {
	var q social.BlogQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.blogs.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return ok(c, "Blogs fetched successfully", page)
}

func (h *BlogHandler) ListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var q social.BlogQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.blogs.ListMine(c.UserContext(), p.UserID, q)
	if err != nil {
		return err
	}
	return ok(c, "Blogs fetched successfully", page)
}

func (h *BlogHandler) Get(c *fiber.Ctx) error {
	blog, err := h.blogs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, "Blog fetched successfully", blog)
}

func (h *BlogHandler) GetBySlug(c *fiber.Ctx) error {
	blog, err := h.blogs.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return ok(c, "Blog fetched successfully", blog)
}

func (h *BlogHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input social.UpdateBlogInput
	if err := bind(c, &input); err != nil {
		return err
	}

	blog, err := h.blogs.Update(c.UserContext(), c.Params("id"), p.UserID, input)
	if err != nil {
		return err
	}
	return ok(c, "Blog updated successfully", blog)
}

func (h *BlogHandler) SetStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input BlogStatusRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	blog, err := h.blogs.SetStatus(c.UserContext(), c.Params("id"), p.UserID, input.Status)
	if err != nil {
		return err
	}
	return ok(c, "Blog status updated successfully", blog)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if _, err := h.blogs.Delete(c.UserContext(), c.Params("id"), p.UserID); err != nil {
		return err
	}
	return ok(c, "Blog deleted successfully", nil)
}
