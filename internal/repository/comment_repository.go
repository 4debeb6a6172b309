package repository

import (
	"context"

	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		log.Error().Err(err).Msg("Failed to create comment")
		return err
	}
	return nil
}

func (r *CommentRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	result := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&comment)
	if isNotFound(result.Error) {
		return nil, nil
	}
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get comment")
		return nil, result.Error
	}
	return &comment, nil
}

// ListTopLevel returns a page of top-level comments on a blog, newest first.
func (r *CommentRepository) ListTopLevel(ctx context.Context, blogID string, page Page) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("blog_id = ? AND parent_comment_id IS NULL", blogID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := q.Preload("User").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&comments).Error
	return comments, total, err
}

// ListReplies returns every reply to the given parents, oldest first.
func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []string) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []models.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

func (r *CommentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Model(comment).
		Select("content", "is_edited", "updated_at").
		Updates(comment).Error
}

func (r *CommentRepository) DeleteComment(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// ReplyIDs returns the ids of the direct replies to parentID.
func (r *CommentRepository) ReplyIDs(ctx context.Context, parentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_comment_id = ?", parentID).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteReplies removes the direct replies to parentID and returns how many
// rows went away.
func (r *CommentRepository) DeleteReplies(ctx context.Context, parentID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, "parent_comment_id = ?", parentID)
	return result.RowsAffected, result.Error
}

func (r *CommentRepository) IDsByBlog(ctx context.Context, blogID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("blog_id = ?", blogID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *CommentRepository) DeleteByBlog(ctx context.Context, blogID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, "blog_id = ?", blogID)
	return result.RowsAffected, result.Error
}

func (r *CommentRepository) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}

func (r *CommentRepository) AdjustLikes(ctx context.Context, id string, delta int64) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &models.Comment{}, id, "likes_count", delta)
}

func (r *CommentRepository) LikesCount(ctx context.Context, id string) (int64, bool, error) {
	return readCounter(r.db.WithContext(ctx), &models.Comment{}, id, "likes_count")
}

func (r *CommentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
