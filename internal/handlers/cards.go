package handlers

import (
	"io"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/cards"

	"github.com/gofiber/fiber/v2"
)

// maxStatementSize caps uploaded statements at 10 MiB.
const maxStatementSize = 10 << 20

type CardHandler struct {
	cards *cards.Service
}

func NewCardHandler(svc *cards.Service) *CardHandler {
	return &CardHandler{cards: svc}
}

func (h *CardHandler) Recommend(c *fiber.Ctx) error {
	var input cards.RecommendInput
	if err := bind(c, &input); err != nil {
		return err
	}
	rec, err := h.cards.Recommend(c.UserContext(), input)
	if err != nil {
		return err
	}
	return ok(c, "Card recommendation generated successfully", rec)
}

// UploadStatement accepts a PDF in the multipart field "statement".
func (h *CardHandler) UploadStatement(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("statement")
	if err != nil {
		return apperr.BadRequest("No PDF file uploaded")
	}
	if header.Size > maxStatementSize {
		return apperr.BadRequest("Statement file is too large")
	}

	file, err := header.Open()
	if err != nil {
		return apperr.Internal("Could not read uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperr.Internal("Could not read uploaded file", err)
	}

	statement, err := h.cards.UploadStatement(c.UserContext(), p.UserID, data)
	if err != nil {
		return err
	}
	return created(c, "Statement processed successfully", statement)
}

func (h *CardHandler) ListStatements(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	statements, err := h.cards.ListStatements(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, "Statements fetched successfully", statements)
}
