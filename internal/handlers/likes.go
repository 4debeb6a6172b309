package handlers

import (
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/social"

	"github.com/gofiber/fiber/v2"
)

type LikeHandler struct {
	likes *social.LikeService
}

type ToggleLikeRequest struct {
	EntityType models.EntityType `json:"entityType" validate:"required,oneof=blog comment"`
	EntityID   string            `json:"entityId" validate:"required"`
}

type LikeStatusQuery struct {
	EntityType models.EntityType `query:"entityType" validate:"required,oneof=blog comment"`
	EntityID   string            `query:"entityId" validate:"required"`
}

func NewLikeHandler(likes *social.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

func (h *LikeHandler) Toggle(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input ToggleLikeRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	result, err := h.likes.Toggle(c.UserContext(), p.UserID, input.EntityType, input.EntityID)
	if err != nil {
		return err
	}
	message := "Liked successfully"
	if result.Action == social.ActionUnliked {
		message = "Unliked successfully"
	}
	return ok(c, message, result)
}

func (h *LikeHandler) Status(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var q LikeStatusQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	liked, err := h.likes.Status(c.UserContext(), p.UserID, q.EntityType, q.EntityID)
	if err != nil {
		return err
	}
	return ok(c, "Like status fetched successfully", fiber.Map{"liked": liked})
}
