package repository

import (
	"context"
	"time"

	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerFilter narrows a ledger listing. The date range applies only when
// both bounds are set.
type LedgerFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
}

// LedgerRepository stores per-user dated entries such as expenses and
// incomes. Every read and write is scoped to the owning user.
type LedgerRepository[T any] struct {
	db   *gorm.DB
	name string
}

func NewExpenseRepository(db *gorm.DB) *LedgerRepository[models.Expense] {
	return &LedgerRepository[models.Expense]{db: db, name: "expense"}
}

func NewIncomeRepository(db *gorm.DB) *LedgerRepository[models.Income] {
	return &LedgerRepository[models.Income]{db: db, name: "income"}
}

func (r *LedgerRepository[T]) Create(ctx context.Context, entry *T) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Error().Err(err).Msgf("Failed to create %s", r.name)
		return err
	}
	return nil
}

func (r *LedgerRepository[T]) GetOwned(ctx context.Context, id, userID string) (*T, error) {
	var entry T
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry)
	if isNotFound(result.Error) {
		return nil, nil
	}
	if result.Error != nil {
		log.Error().Err(result.Error).Msgf("Failed to get %s", r.name)
		return nil, result.Error
	}
	return &entry, nil
}

func (r *LedgerRepository[T]) List(ctx context.Context, userID string, filter LedgerFilter, page Page) ([]T, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", userID)
	if filter.From != nil && filter.To != nil {
		q = q.Where("date >= ? AND date <= ?", *filter.From, *filter.To)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []T
	err := q.Order("date DESC").Offset(page.Offset()).Limit(page.Limit).Find(&entries).Error
	return entries, total, err
}

func (r *LedgerRepository[T]) Update(ctx context.Context, entry *T) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		log.Error().Err(err).Msgf("Failed to update %s", r.name)
		return err
	}
	return nil
}

// DeleteOwned reports whether a row owned by userID was removed.
func (r *LedgerRepository[T]) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(new(T))
	return result.RowsAffected > 0, result.Error
}

// Stats totals the entries in [from, to] per category, largest first.
func (r *LedgerRepository[T]) Stats(ctx context.Context, userID string, from, to time.Time) ([]models.CategoryTotal, error) {
	var stats []models.CategoryTotal
	err := r.db.WithContext(ctx).Model(new(T)).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("category").
		Order("total DESC").
		Scan(&stats).Error
	return stats, err
}
