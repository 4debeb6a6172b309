package repository

import (
	"context"

	"fintrack-backend/internal/models"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

func (r *LikeRepository) FindLike(ctx context.Context, userID string, entityType models.EntityType, entityID string) (*models.Like, error) {
	var like models.Like
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND entity_type = ? AND entity_id = ?", userID, entityType, entityID).
		First(&like)
	if isNotFound(result.Error) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &like, nil
}

// CreateLike inserts a like. A concurrent duplicate surfaces as an error
// matched by IsDuplicate.
func (r *LikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *LikeRepository) DeleteLike(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Like{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *LikeRepository) DeleteByEntities(ctx context.Context, entityType models.EntityType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id IN ?", entityType, ids).
		Delete(&models.Like{}).Error
}

func (r *LikeRepository) CountByEntity(ctx context.Context, entityType models.EntityType, entityID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error
	return count, err
}
