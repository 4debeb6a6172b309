package repository

import (
	"context"
	"time"

	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) SaveToken(ctx context.Context, token *models.Token) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		log.Error().Err(err).Str("type", string(token.Type)).Msg("Failed to save token")
		return err
	}
	return nil
}

// FindToken returns the record for a token value of the given type, or nil.
func (r *TokenRepository) FindToken(ctx context.Context, value string, typ models.TokenType) (*models.Token, error) {
	var token models.Token
	result := r.db.WithContext(ctx).
		Where("token = ? AND type = ?", value, typ).
		Order("created_at DESC").
		First(&token)

	if isNotFound(result.Error) {
		return nil, nil
	}
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to find token")
		return nil, result.Error
	}
	return &token, nil
}

func (r *TokenRepository) Blacklist(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Token{}).
		Where("id = ?", id).
		Update("blacklisted", true).Error
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&models.Token{}, "user_id = ?", userID).Error
}

// DeleteExpired removes records whose expiry has passed and returns how many
// were removed.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires < ?", now).Delete(&models.Token{})
	return result.RowsAffected, result.Error
}
