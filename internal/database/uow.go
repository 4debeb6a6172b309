package database

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork runs a group of writes atomically. fn receives the
// transaction handle and every statement of the unit must go through it.
// Returning an error (or panicking) rolls the unit back; the connection is
// released on every path.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

// Do commits when fn returns nil. A client disconnect does not abort a
// unit that has already started, so cancellation is detached from ctx
// while its values are kept.
func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(context.WithoutCancel(ctx)).Transaction(fn)
}
