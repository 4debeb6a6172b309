package handlers

import (
	"fintrack-backend/internal/finance"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	expenses *finance.ExpenseService
}

type IncomeHandler struct {
	incomes *finance.IncomeService
}

func NewExpenseHandler(expenses *finance.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

func NewIncomeHandler(incomes *finance.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomes: incomes}
}

// ledgerQuery reads page, limit, category and the optional date range.
func ledgerQuery(c *fiber.Ctx) (finance.ListQuery, error) {
	var q finance.ListQuery
	if err := bindQuery(c, &q); err != nil {
		return q, err
	}
	var err error
	if q.StartDate, err = queryDate(c, "startDate"); err != nil {
		return q, err
	}
	if q.EndDate, err = queryDate(c, "endDate"); err != nil {
		return q, err
	}
	return q, nil
}

func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input finance.ExpenseInput
	if err := bind(c, &input); err != nil {
		return err
	}
	expense, err := h.expenses.Create(c.UserContext(), p.UserID, input)
	if err != nil {
		return err
	}
	return created(c, "Expense created successfully", expense)
}

func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	q, err := ledgerQuery(c)
	if err != nil {
		return err
	}
	page, err := h.expenses.List(c.UserContext(), p.UserID, q)
	if err != nil {
		return err
	}
	return ok(c, "Expenses fetched successfully", page)
}

func (h *ExpenseHandler) Stats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	q, err := ledgerQuery(c)
	if err != nil {
		return err
	}
	stats, err := h.expenses.Stats(c.UserContext(), p.UserID, q.StartDate, q.EndDate)
	if err != nil {
		return err
	}
	return ok(c, "Expense statistics fetched successfully", stats)
}

func (h *ExpenseHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	expense, err := h.expenses.Get(c.UserContext(), c.Params("id"), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, "Expense fetched successfully", expense)
}

func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input finance.ExpenseUpdate
	if err := bind(c, &input); err != nil {
		return err
	}
	expense, err := h.expenses.Update(c.UserContext(), c.Params("id"), p.UserID, input)
	if err != nil {
		return err
	}
	return ok(c, "Expense updated successfully", expense)
}

func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.expenses.Delete(c.UserContext(), c.Params("id"), p.UserID); err != nil {
		return err
	}
	return ok(c, "Expense deleted successfully", nil)
}

func (h *IncomeHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input finance.IncomeInput
	if err := bind(c, &input); err != nil {
		return err
	}
	income, err := h.incomes.Create(c.UserContext(), p.UserID, input)
	if err != nil {
		return err
	}
	return created(c, "Income created successfully", income)
}

func (h *IncomeHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	q, err := ledgerQuery(c)
	if err != nil {
		return err
	}
	page, err := h.incomes.List(c.UserContext(), p.UserID, q)
	if err != nil {
		return err
	}
	return ok(c, "Incomes fetched successfully", page)
}

func (h *IncomeHandler) Stats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	q, err := ledgerQuery(c)
	if err != nil {
		return err
	}
	stats, err := h.incomes.Stats(c.UserContext(), p.UserID, q.StartDate, q.EndDate)
	if err != nil {
		return err
	}
	return ok(c, "Income statistics fetched successfully", stats)
}

func (h *IncomeHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	income, err := h.incomes.Get(c.UserContext(), c.Params("id"), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, "Income fetched successfully", income)
}

func (h *IncomeHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input finance.IncomeUpdate
	if err := bind(c, &input); err != nil {
		return err
	}
	income, err := h.incomes.Update(c.UserContext(), c.Params("id"), p.UserID, input)
	if err != nil {
		return err
	}
	return ok(c, "Income updated successfully", income)
}

func (h *IncomeHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.incomes.Delete(c.UserContext(), c.Params("id"), p.UserID); err != nil {
		return err
	}
	return ok(c, "Income deleted successfully", nil)
}
