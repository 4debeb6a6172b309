package finance

import (
	"context"
	"strings"
	"time"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"
)

type ExpenseInput struct {
	Amount             float64           `json:"amount" validate:"gte=0"`
	Category           string            `json:"category" validate:"required"`
	Description        string            `json:"description" validate:"required"`
	Date               *time.Time        `json:"date"`
	PaymentMethod      string            `json:"paymentMethod" validate:"required"`
	Tags               []string          `json:"tags"`
	IsRecurring        bool              `json:"isRecurring"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency"`
}

// ExpenseUpdate changes only the fields that are set.
type ExpenseUpdate struct {
	Amount             *float64          `json:"amount" validate:"omitempty,gte=0"`
	Category           *string           `json:"category"`
	Description        *string           `json:"description"`
	Date               *time.Time        `json:"date"`
	PaymentMethod      *string           `json:"paymentMethod"`
	Tags               *[]string         `json:"tags"`
	IsRecurring        *bool             `json:"isRecurring"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency"`
}

type ExpensePage struct {
	Expenses   []models.Expense      `json:"expenses"`
	Pagination repository.Pagination `json:"pagination"`
}

type ExpenseService struct {
	repo *repository.LedgerRepository[models.Expense]
	now  func() time.Time
}

func NewExpenseService(repo *repository.LedgerRepository[models.Expense]) *ExpenseService {
	return &ExpenseService{repo: repo, now: time.Now}
}

func (s *ExpenseService) Create(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:             userID,
		Amount:             in.Amount,
		Category:           in.Category,
		Description:        strings.TrimSpace(in.Description),
		PaymentMethod:      in.PaymentMethod,
		Tags:               cleanTags(in.Tags),
		IsRecurring:        in.IsRecurring,
		RecurringFrequency: in.RecurringFrequency,
		Date:               s.now(),
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, apperr.Internal("Could not create expense", err)
	}
	return expense, nil
}

func validateExpense(e *models.Expense) error {
	if err := validAmount(e.Amount); err != nil {
		return err
	}
	if !models.IsExpenseCategory(e.Category) {
		return apperr.BadRequest("Invalid expense category")
	}
	if !models.IsPaymentMethod(e.PaymentMethod) {
		return apperr.BadRequest("Invalid payment method")
	}
	if e.Description == "" {
		return apperr.BadRequest("Description is required")
	}
	freq, err := recurrence(e.IsRecurring, e.RecurringFrequency)
	if err != nil {
		return err
	}
	e.RecurringFrequency = freq
	return nil
}

func (s *ExpenseService) List(ctx context.Context, userID string, q ListQuery) (*ExpensePage, error) {
	if q.Category != "" && !models.IsExpenseCategory(q.Category) {
		return nil, apperr.BadRequest("Invalid expense category")
	}
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	page := repository.NewPage(q.Page, q.Limit, DefaultLimit)

	expenses, total, err := s.repo.List(ctx, userID, filter, page)
	if err != nil {
		return nil, apperr.Internal("Could not list expenses", err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return &ExpensePage{Expenses: expenses, Pagination: page.Paginate(total)}, nil
}

func (s *ExpenseService) Get(ctx context.Context, id, userID string) (*models.Expense, error) {
	expense, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, apperr.Internal("Could not load expense", err)
	}
	if expense == nil {
		return nil, apperr.NotFound("Expense not found")
	}
	return expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, id, userID string, in ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		expense.Amount = *in.Amount
	}
	if in.Category != nil {
		expense.Category = *in.Category
	}
	if in.Description != nil {
		expense.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}
	if in.PaymentMethod != nil {
		expense.PaymentMethod = *in.PaymentMethod
	}
	if in.Tags != nil {
		expense.Tags = cleanTags(*in.Tags)
	}
	if in.IsRecurring != nil {
		expense.IsRecurring = *in.IsRecurring
	}
	if in.RecurringFrequency != nil {
		expense.RecurringFrequency = in.RecurringFrequency
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, apperr.Internal("Could not update expense", err)
	}
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return apperr.Internal("Could not delete expense", err)
	}
	if !deleted {
		return apperr.NotFound("Expense not found")
	}
	return nil
}

func (s *ExpenseService) Stats(ctx context.Context, userID string, from, to *time.Time) (*Stats, error) {
	period, err := statsPeriod(s.now(), from, to)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.Stats(ctx, userID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, apperr.Internal("Could not compute expense stats", err)
	}
	return summarize(totals, period), nil
}
