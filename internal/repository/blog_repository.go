package repository

import (
	"context"

	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type BlogFilter struct {
	Status   models.BlogStatus
	Tag      string
	AuthorID string
}

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) WithTx(tx *gorm.DB) *BlogRepository {
	return &BlogRepository{db: tx}
}

func (r *BlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		if !IsDuplicate(err) {
			log.Error().Err(err).Msg("Failed to create blog")
		}
		return err
	}
	return nil
}

func (r *BlogRepository) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

// GetOwnedBlog returns the blog only when authorID owns it.
func (r *BlogRepository) GetOwnedBlog(ctx context.Context, id, authorID string) (*models.Blog, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID))
}

func (r *BlogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("slug = ? AND status = ?", slug, models.BlogPublished))
}

func (r *BlogRepository) first(ctx context.Context, q *gorm.DB) (*models.Blog, error) {
	var blog models.Blog
	result := q.Preload("Author").First(&blog)
	if isNotFound(result.Error) {
		return nil, nil
	}
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get blog")
		return nil, result.Error
	}
	return &blog, nil
}

// SlugExists reports whether slug is taken by a blog other than excludeID.
func (r *BlogRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Blog{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListBlogs returns a page of blogs, newest first, and the filtered total.
func (r *BlogRepository) ListBlogs(ctx context.Context, filter BlogFilter, page Page) ([]models.Blog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Blog{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != "" {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Tag != "" {
		if r.db.Dialector.Name() == "postgres" {
			q = q.Where("? = ANY(tags)", filter.Tag)
		} else {
			q = q.Where("tags LIKE ?", `%"`+filter.Tag+`"%`)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []models.Blog
	err := q.Preload("Author").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&blogs).Error
	return blogs, total, err
}

func (r *BlogRepository) UpdateBlog(ctx context.Context, blog *models.Blog) error {
	err := r.db.WithContext(ctx).Model(blog).
		Select("title", "slug", "content", "tags", "cover_image", "status", "updated_at").
		Updates(blog).Error
	if err != nil && !IsDuplicate(err) {
		log.Error().Err(err).Msg("Failed to update blog")
	}
	return err
}

func (r *BlogRepository) DeleteBlog(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Blog{}, "id = ?", id).Error
}

func (r *BlogRepository) AdjustLikes(ctx context.Context, id string, delta int64) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &models.Blog{}, id, "likes_count", delta)
}

func (r *BlogRepository) LikesCount(ctx context.Context, id string) (int64, bool, error) {
	return readCounter(r.db.WithContext(ctx), &models.Blog{}, id, "likes_count")
}

func (r *BlogRepository) AdjustComments(ctx context.Context, id string, delta int64) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &models.Blog{}, id, "comments_count", delta)
}

func (r *BlogRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
