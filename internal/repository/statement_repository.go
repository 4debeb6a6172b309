package repository

import (
	"context"

	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type StatementRepository struct {
	db *gorm.DB
}

func NewStatementRepository(db *gorm.DB) *StatementRepository {
	return &StatementRepository{db: db}
}

func (r *StatementRepository) CreateStatement(ctx context.Context, statement *models.CardStatement) error {
	if err := r.db.WithContext(ctx).Create(statement).Error; err != nil {
		log.Error().Err(err).Msg("Failed to save card statement")
		return err
	}
	return nil
}

func (r *StatementRepository) ListByUser(ctx context.Context, userID string) ([]models.CardStatement, error) {
	var statements []models.CardStatement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&statements).Error
	return statements, err
}
