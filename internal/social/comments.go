package social

import (
	"context"
	"strings"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"

	"gorm.io/gorm"
)

const DefaultCommentLimit = 20

type CreateCommentInput struct {
	BlogID          string  `json:"blogId" validate:"required"`
	Content         string  `json:"content" validate:"required,max=1000"`
	ParentCommentID *string `json:"parentCommentId"`
}

type CommentPage struct {
	Comments   []models.Comment      `json:"comments"`
	Pagination repository.Pagination `json:"pagination"`
}

type CommentService struct {
	uow      database.UnitOfWork
	comments *repository.CommentRepository
	blogs    *repository.BlogRepository
	likes    *repository.LikeRepository
}

func NewCommentService(uow database.UnitOfWork, comments *repository.CommentRepository, blogs *repository.BlogRepository, likes *repository.LikeRepository) *CommentService {
	return &CommentService{uow: uow, comments: comments, blogs: blogs, likes: likes}
}

// Create stores the comment and bumps the blog's comment counter in one
// unit. A reply must point at a top-level comment on the same blog.
func (s *CommentService) Create(ctx context.Context, userID string, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.BadRequest("Comment content is required")
	}
	parentID := in.ParentCommentID
	if parentID != nil && strings.TrimSpace(*parentID) == "" {
		parentID = nil
	}

	comment := &models.Comment{
		BlogID:          in.BlogID,
		UserID:          userID,
		ParentCommentID: parentID,
		Content:         content,
	}

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		comments := s.comments.WithTx(tx)

		if parentID != nil {
			parent, err := comments.GetComment(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent == nil || parent.BlogID != in.BlogID || parent.IsReply() {
				return apperr.BadRequest("Invalid parent comment")
			}
		}

		if err := comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		found, err := s.blogs.WithTx(tx).AdjustComments(ctx, in.BlogID, 1)
		if err != nil {
			return err
		}
		if !found {
			return apperr.NotFound("Blog not found")
		}
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "Could not create comment")
	}

	if created, err := s.comments.GetComment(ctx, comment.ID); err == nil && created != nil {
		return created, nil
	}
	return comment, nil
}

// ListByBlog returns a page of top-level comments, newest first, each
// carrying all of its replies oldest first.
func (s *CommentService) ListByBlog(ctx context.Context, blogID string, page repository.Page) (*CommentPage, error) {
	page = repository.NewPage(page.Page, page.Limit, DefaultCommentLimit)

	top, total, err := s.comments.ListTopLevel(ctx, blogID, page)
	if err != nil {
		return nil, apperr.Internal("Could not list comments", err)
	}

	ids := make([]string, len(top))
	for i := range top {
		ids[i] = top[i].ID
	}
	replies, err := s.comments.ListReplies(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("Could not list comments", err)
	}

	byParent := make(map[string][]models.Comment, len(top))
	for _, r := range replies {
		byParent[*r.ParentCommentID] = append(byParent[*r.ParentCommentID], r)
	}
	for i := range top {
		top[i].Replies = byParent[top[i].ID]
		if top[i].Replies == nil {
			top[i].Replies = []models.Comment{}
		}
	}

	return &CommentPage{Comments: top, Pagination: page.Paginate(total)}, nil
}

// Update replaces the content of a comment owned by userID. Missing and
// foreign comments are both reported as not found.
func (s *CommentService) Update(ctx context.Context, id, userID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Comment content is required")
	}

	comment, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Could not update comment", err)
	}
	if comment == nil || comment.UserID != userID {
		return nil, apperr.NotFound("Comment not found")
	}

	comment.Content = content
	comment.IsEdited = true
	if err := s.comments.UpdateContent(ctx, comment); err != nil {
		return nil, apperr.Internal("Could not update comment", err)
	}
	return comment, nil
}

// Delete removes a comment owned by userID. Deleting a top-level comment
// takes its replies with it; the blog counter drops by every removed row
// and likes on removed comments go too.
func (s *CommentService) Delete(ctx context.Context, id, userID string) (*models.Comment, error) {
	var deleted *models.Comment
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		comments := s.comments.WithTx(tx)

		comment, err := comments.GetComment(ctx, id)
		if err != nil {
			return err
		}
		if comment == nil || comment.UserID != userID {
			return apperr.NotFound("Comment not found")
		}

		removedIDs := []string{comment.ID}
		var removed int64
		if !comment.IsReply() {
			replyIDs, err := comments.ReplyIDs(ctx, comment.ID)
			if err != nil {
				return err
			}
			n, err := comments.DeleteReplies(ctx, comment.ID)
			if err != nil {
				return err
			}
			removedIDs = append(removedIDs, replyIDs...)
			removed += n
		}

		n, err := comments.DeleteComment(ctx, comment.ID)
		if err != nil {
			return err
		}
		removed += n

		if _, err := s.blogs.WithTx(tx).AdjustComments(ctx, comment.BlogID, -removed); err != nil {
			return err
		}
		if err := s.likes.WithTx(tx).DeleteByEntities(ctx, models.EntityComment, removedIDs); err != nil {
			return err
		}
		deleted = comment
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "Could not delete comment")
	}
	return deleted, nil
}
