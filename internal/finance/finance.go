// Package finance tracks a user's expenses and incomes.
package finance

import (
	"strings"
	"time"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"
)

const DefaultLimit = 10

// ListQuery filters a ledger listing. The date range applies only when both
// ends are given.
type ListQuery struct {
	Page      int        `query:"page" validate:"omitempty,min=1"`
	Limit     int        `query:"limit" validate:"omitempty,min=1,max=100"`
	StartDate *time.Time `query:"-"`
	EndDate   *time.Time `query:"-"`
	Category  string     `query:"category"`
}

type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Stats struct {
	Stats       []models.CategoryTotal `json:"stats"`
	TotalAmount float64                `json:"totalAmount"`
	Period      Period                 `json:"period"`
}

func (q ListQuery) filter() (repository.LedgerFilter, error) {
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return repository.LedgerFilter{}, apperr.BadRequest("End date must not be before start date")
	}
	return repository.LedgerFilter{From: q.StartDate, To: q.EndDate, Category: q.Category}, nil
}

// statsPeriod defaults to the month leading up to now.
func statsPeriod(now time.Time, from, to *time.Time) (Period, error) {
	p := Period{StartDate: now.AddDate(0, -1, 0), EndDate: now}
	if from != nil {
		p.StartDate = *from
	}
	if to != nil {
		p.EndDate = *to
	}
	if p.EndDate.Before(p.StartDate) {
		return Period{}, apperr.BadRequest("End date must not be before start date")
	}
	return p, nil
}

func summarize(totals []models.CategoryTotal, p Period) *Stats {
	if totals == nil {
		totals = []models.CategoryTotal{}
	}
	var sum float64
	for _, t := range totals {
		sum += t.Total
	}
	return &Stats{Stats: totals, TotalAmount: sum, Period: p}
}

// recurrence checks that a recurring entry names a valid frequency and
// drops the frequency from one-off entries.
func recurrence(isRecurring bool, freq *models.Frequency) (*models.Frequency, error) {
	if !isRecurring {
		return nil, nil
	}
	if freq == nil || !freq.Valid() {
		return nil, apperr.BadRequest("Recurring frequency must be Daily, Weekly, Monthly, or Yearly")
	}
	return freq, nil
}

func cleanTags(tags []string) models.StringArray {
	out := make(models.StringArray, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func validAmount(amount float64) error {
	if amount < 0 {
		return apperr.BadRequest("Amount must not be negative")
	}
	return nil
}
