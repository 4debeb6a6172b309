package repository

import (
	"context"
	"time"

	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if !IsDuplicate(result.Error) {
			log.Error().Err(result.Error).Msg("Failed to create user")
		}
		return result.Error
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user)

	if isNotFound(result.Error) {
		return nil, nil
	}

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get user by email")
		return nil, result.Error
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)

	if isNotFound(result.Error) {
		return nil, nil
	}

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get user by ID")
		return nil, result.Error
	}

	return &user, nil
}

// GetUserByResetToken finds the user holding an unexpired reset token hash.
func (r *UserRepository) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expires > ?", tokenHash, now).
		First(&user)

	if isNotFound(result.Error) {
		return nil, nil
	}

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get user by reset token")
		return nil, result.Error
	}

	return &user, nil
}

// UpdateUser saves every column of user, running the password hook.
func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		if !IsDuplicate(result.Error) {
			log.Error().Err(result.Error).Msg("Failed to update user")
		}
		return result.Error
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID string, role models.Role) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("role", role)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to update user role")
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteUser deletes a user and the token records that belong to them.
func (r *UserRepository) DeleteUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Token{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}

// ListUsers returns a page of users, newest first.
func (r *UserRepository) ListUsers(ctx context.Context, page Page) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	q := r.db.WithContext(ctx).Model(&models.User{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error
	return users, total, err
}
