package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Pagination describes a page of results for clients.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPage clamps a client page request. Limit falls back to defaultLimit
// and never exceeds MaxLimit.
func NewPage(page, limit, defaultLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

const MaxLimit = 100

func (p Page) Paginate(total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// adjustCounter applies delta to a counter column in a single statement so
// concurrent writers never lose an update.
func adjustCounter(db *gorm.DB, model interface{}, id, column string, delta int64) (bool, error) {
	result := db.Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	return result.RowsAffected > 0, result.Error
}

// readCounter loads a single counter column. Missing rows read as
// (0, false).
func readCounter(db *gorm.DB, model interface{}, id, column string) (int64, bool, error) {
	var values []int64
	err := db.Model(model).Where("id = ?", id).Limit(1).Pluck(column, &values).Error
	if err != nil || len(values) == 0 {
		return 0, false, err
	}
	return values[0], true, nil
}
