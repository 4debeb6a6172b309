package handlers

import (
	"fintrack-backend/internal/funds"

	"github.com/gofiber/fiber/v2"
)

type FundHandler struct {
	funds *funds.Service
}

type CompareFundsRequest struct {
	FundIDs []string `json:"fundIds" validate:"required,min=2,max=5,dive,required"`
}

func NewFundHandler(svc *funds.Service) *FundHandler {
	return &FundHandler{funds: svc}
}

func (h *FundHandler) List(c *fiber.Ctx) error {
	var f funds.Filter
	if err := bindQuery(c, &f); err != nil {
		return err
	}
	return ok(c, "Funds fetched successfully", h.funds.List(f))
}

func (h *FundHandler) Get(c *fiber.Ctx) error {
	fund, err := h.funds.Get(c.Params("fundId"))
	if err != nil {
		return err
	}
	return ok(c, "Fund details fetched successfully", fund)
}

func (h *FundHandler) Performance(c *fiber.Ctx) error {
	perf, err := h.funds.Performance(c.Params("fundId"), c.Query("period"))
	if err != nil {
		return err
	}
	return ok(c, "Fund performance data fetched successfully", perf)
}

func (h *FundHandler) Holdings(c *fiber.Ctx) error {
	holdings, err := h.funds.Holdings(c.Params("fundId"))
	if err != nil {
		return err
	}
	return ok(c, "Fund holdings fetched successfully", holdings)
}

// Recommend never fails on model errors; it falls back to a catalog pick
// and says so in the message.
func (h *FundHandler) Recommend(c *fiber.Ctx) error {
	var prefs funds.Preferences
	if err := bind(c, &prefs); err != nil {
		return err
	}
	rec := h.funds.Recommend(c.UserContext(), prefs)
	message := funds.RecommendedMessage
	if !rec.AIGenerated {
		message = funds.RecommendFallbackMessage
	}
	return ok(c, message, rec)
}

func (h *FundHandler) Compare(c *fiber.Ctx) error {
	var input CompareFundsRequest
	if err := bind(c, &input); err != nil {
		return err
	}
	result, err := h.funds.Compare(c.UserContext(), input.FundIDs)
	if err != nil {
		return err
	}
	message := funds.ComparedMessage
	if !result.AIGenerated {
		message = funds.CompareFallbackMessage
	}
	return ok(c, message, result)
}

func (h *FundHandler) SIP(c *fiber.Ctx) error {
	var input funds.SIPInput
	if err := bind(c, &input); err != nil {
		return err
	}
	calc, err := h.funds.SIP(input)
	if err != nil {
		return err
	}
	return ok(c, "SIP calculation completed successfully", calc)
}

func (h *FundHandler) LumpSum(c *fiber.Ctx) error {
	var input funds.LumpSumInput
	if err := bind(c, &input); err != nil {
		return err
	}
	calc, err := h.funds.LumpSum(input)
	if err != nil {
		return err
	}
	return ok(c, "Lump sum calculation completed successfully", calc)
}
