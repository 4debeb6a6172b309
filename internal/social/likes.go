// Package social implements blogs, threaded comments and likes. Counter
// columns on blogs and comments are kept in step with their source rows
// inside a single unit of work.
package social

import (
	"context"
	"errors"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

type ToggleResult struct {
	Action     string `json:"action"`
	LikesCount int64  `json:"likesCount"`
	Liked      bool   `json:"liked"`
}

type LikeService struct {
	uow      database.UnitOfWork
	likes    *repository.LikeRepository
	blogs    *repository.BlogRepository
	comments *repository.CommentRepository
}

func NewLikeService(uow database.UnitOfWork, likes *repository.LikeRepository, blogs *repository.BlogRepository, comments *repository.CommentRepository) *LikeService {
	return &LikeService{uow: uow, likes: likes, blogs: blogs, comments: comments}
}

// Toggle flips userID's like on the target. A concurrent insert that loses
// the uniqueness race is retried once and then observes the winner's row.
// A delete that finds the row already gone leaves the counter alone.
func (s *LikeService) Toggle(ctx context.Context, userID string, entityType models.EntityType, entityID string) (*ToggleResult, error) {
	if !entityType.Valid() {
		return nil, apperr.BadRequest("Entity type must be blog or comment")
	}

	action, err := s.toggleOnce(ctx, userID, entityType, entityID)
	if repository.IsDuplicate(err) {
		log.Debug().Str("entity_id", entityID).Msg("Like race lost, retrying toggle")
		action, err = s.toggleOnce(ctx, userID, entityType, entityID)
	}
	if err != nil {
		return nil, wrapInternal(err, "Could not update like")
	}

	count, _, err := s.likesCount(ctx, entityType, entityID)
	if err != nil {
		return nil, apperr.Internal("Could not read like count", err)
	}
	return &ToggleResult{Action: action, LikesCount: count, Liked: action == ActionLiked}, nil
}

func (s *LikeService) toggleOnce(ctx context.Context, userID string, entityType models.EntityType, entityID string) (string, error) {
	var action string
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		likes := s.likes.WithTx(tx)

		existing, err := likes.FindLike(ctx, userID, entityType, entityID)
		if err != nil {
			return err
		}

		delta := int64(1)
		action = ActionLiked
		if existing != nil {
			removed, err := likes.DeleteLike(ctx, existing.ID)
			if err != nil {
				return err
			}
			action = ActionUnliked
			if removed == 0 {
				// A concurrent unlike already deleted the row and its count.
				return nil
			}
			delta = -1
		} else {
			like := &models.Like{UserID: userID, EntityType: entityType, EntityID: entityID}
			if err := likes.CreateLike(ctx, like); err != nil {
				return err
			}
		}

		found, err := s.adjustLikes(ctx, tx, entityType, entityID, delta)
		if err != nil {
			return err
		}
		if !found {
			return apperr.NotFound(targetName(entityType) + " not found")
		}
		return nil
	})
	return action, err
}

func (s *LikeService) adjustLikes(ctx context.Context, tx *gorm.DB, entityType models.EntityType, id string, delta int64) (bool, error) {
	if entityType == models.EntityBlog {
		return s.blogs.WithTx(tx).AdjustLikes(ctx, id, delta)
	}
	return s.comments.WithTx(tx).AdjustLikes(ctx, id, delta)
}

func (s *LikeService) likesCount(ctx context.Context, entityType models.EntityType, id string) (int64, bool, error) {
	if entityType == models.EntityBlog {
		return s.blogs.LikesCount(ctx, id)
	}
	return s.comments.LikesCount(ctx, id)
}

// Status reports whether userID currently likes the target.
func (s *LikeService) Status(ctx context.Context, userID string, entityType models.EntityType, entityID string) (bool, error) {
	if !entityType.Valid() {
		return false, apperr.BadRequest("Entity type must be blog or comment")
	}
	like, err := s.likes.FindLike(ctx, userID, entityType, entityID)
	if err != nil {
		return false, apperr.Internal("Could not read like status", err)
	}
	return like != nil, nil
}

func targetName(entityType models.EntityType) string {
	if entityType == models.EntityBlog {
		return "Blog"
	}
	return "Comment"
}

// wrapInternal passes domain errors through and hides everything else
// behind msg.
func wrapInternal(err error, msg string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	log.Error().Err(err).Msg(msg)
	return apperr.Internal(msg, err)
}
