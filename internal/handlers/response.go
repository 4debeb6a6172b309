package handlers

import (
	"errors"

	"fintrack-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusOK, message, data)
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusCreated, message, data)
}

// ErrorHandler renders every error returned from a handler as an
// ErrorResponse. Internal failures are logged and reported generically.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Message: fe.Message})
	}

	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Request failed")
	}
	return c.Status(status).JSON(ErrorResponse{Message: apperr.PublicMessage(err)})
}
