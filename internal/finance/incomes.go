package finance

import (
	"context"
	"strings"
	"time"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"
)

type IncomeInput struct {
	Amount             float64           `json:"amount" validate:"gte=0"`
	Category           string            `json:"category" validate:"required"`
	Description        string            `json:"description" validate:"required"`
	Date               *time.Time        `json:"date"`
	Source             string            `json:"source" validate:"required"`
	Tags               []string          `json:"tags"`
	IsRecurring        bool              `json:"isRecurring"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency"`
}

// IncomeUpdate changes only the fields that are set.
type IncomeUpdate struct {
	Amount             *float64          `json:"amount" validate:"omitempty,gte=0"`
	Category           *string           `json:"category"`
	Description        *string           `json:"description"`
	Date               *time.Time        `json:"date"`
	Source             *string           `json:"source"`
	Tags               *[]string         `json:"tags"`
	IsRecurring        *bool             `json:"isRecurring"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency"`
}

type IncomePage struct {
	Incomes    []models.Income       `json:"incomes"`
	Pagination repository.Pagination `json:"pagination"`
}

type IncomeService struct {
	repo *repository.LedgerRepository[models.Income]
	now  func() time.Time
}

func NewIncomeService(repo *repository.LedgerRepository[models.Income]) *IncomeService {
	return &IncomeService{repo: repo, now: time.Now}
}

func (s *IncomeService) Create(ctx context.Context, userID string, in IncomeInput) (*models.Income, error) {
	income := &models.Income{
		UserID:             userID,
		Amount:             in.Amount,
		Category:           in.Category,
		Description:        strings.TrimSpace(in.Description),
		Source:             strings.TrimSpace(in.Source),
		Tags:               cleanTags(in.Tags),
		IsRecurring:        in.IsRecurring,
		RecurringFrequency: in.RecurringFrequency,
		Date:               s.now(),
	}
	if in.Date != nil {
		income.Date = *in.Date
	}
	if err := validateIncome(income); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, income); err != nil {
		return nil, apperr.Internal("Could not create income", err)
	}
	return income, nil
}

func validateIncome(e *models.Income) error {
	if err := validAmount(e.Amount); err != nil {
		return err
	}
	if !models.IsIncomeCategory(e.Category) {
		return apperr.BadRequest("Invalid income category")
	}
	if e.Source == "" {
		return apperr.BadRequest("Source is required")
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

func (s *IncomeService) List(ctx context.Context, userID string, q ListQuery) (*IncomePage, error) {
	if q.Category != "" && !models.IsIncomeCategory(q.Category) {
		return nil, apperr.BadRequest("Invalid income category")
	}
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	page := repository.NewPage(q.Page, q.Limit, DefaultLimit)

	incomes, total, err := s.repo.List(ctx, userID, filter, page)
	if err != nil {
		return nil, apperr.Internal("Could not list incomes", err)
	}
	if incomes == nil {
		incomes = []models.Income{}
	}
	return &IncomePage{Incomes: incomes, Pagination: page.Paginate(total)}, nil
}

func (s *IncomeService) Get(ctx context.Context, id, userID string) (*models.Income, error) {
	income, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, apperr.Internal("Could not load income", err)
	}
	if income == nil {
		return nil, apperr.NotFound("Income not found")
	}
	return income, nil
}

func (s *IncomeService) Update(ctx context.Context, id, userID string, in IncomeUpdate) (*models.Income, error) {
	income, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		income.Amount = *in.Amount
	}
	if in.Category != nil {
		income.Category = *in.Category
	}
	if in.Description != nil {
		income.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		income.Date = *in.Date
	}
	if in.Source != nil {
		income.Source = strings.TrimSpace(*in.Source)
	}
	if in.Tags != nil {
		income.Tags = cleanTags(*in.Tags)
	}
	if in.IsRecurring != nil {
		income.IsRecurring = *in.IsRecurring
	}
	if in.RecurringFrequency != nil {
		income.RecurringFrequency = in.RecurringFrequency
	}
	if err := validateIncome(income); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, income); err != nil {
		return nil, apperr.Internal("Could not update income", err)
	}
	return income, nil
}

func (s *IncomeService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return apperr.Internal("Could not delete income", err)
	}
	if !deleted {
		return apperr.NotFound("Income not found")
	}
	return nil
}

func (s *IncomeService) Stats(ctx context.Context, userID string, from, to *time.Time) (*Stats, error) {
	period, err := statsPeriod(s.now(), from, to)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.Stats(ctx, userID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, apperr.Internal("Could not compute income stats", err)
	}
	return summarize(totals, period), nil
}
