package social

import (
	"context"
	"strconv"
	"strings"
	"time"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const DefaultBlogLimit = 10

type CreateBlogInput struct {
	Title      string            `json:"title" validate:"required,min=5,max=200"`
	Content    string            `json:"content" validate:"required,min=50"`
	Tags       []string          `json:"tags" validate:"max=5,dive,required"`
	CoverImage string            `json:"coverImage" validate:"omitempty,url"`
	Status     models.BlogStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

type UpdateBlogInput struct {
	Title      *string   `json:"title" validate:"omitempty,min=5,max=200"`
	Content    *string   `json:"content" validate:"omitempty,min=50"`
	Tags       *[]string `json:"tags" validate:"omitempty,max=5,dive,required"`
	CoverImage *string   `json:"coverImage" validate:"omitempty,url"`
}

type BlogQuery struct {
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Tag    string `query:"tag"`
	Status string `query:"status" validate:"omitempty,oneof=draft published archived"`
}

type BlogPage struct {
	Blogs      []models.Blog         `json:"blogs"`
	Pagination repository.Pagination `json:"pagination"`
}

type BlogService struct {
	uow      database.UnitOfWork
	blogs    *repository.BlogRepository
	comments *repository.CommentRepository
	likes    *repository.LikeRepository
	now      func() time.Time
}

func NewBlogService(uow database.UnitOfWork, blogs *repository.BlogRepository, comments *repository.CommentRepository, likes *repository.LikeRepository) *BlogService {
	return &BlogService{uow: uow, blogs: blogs, comments: comments, likes: likes, now: time.Now}
}

func (s *BlogService) Create(ctx context.Context, authorID string, in CreateBlogInput) (*models.Blog, error) {
	status := in.Status
	if status == "" {
		status = models.BlogDraft
	}
	if !status.Valid() {
		return nil, apperr.BadRequest("Invalid blog status")
	}

	blogSlug, err := s.uniqueSlug(ctx, in.Title, "")
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:      strings.TrimSpace(in.Title),
		Slug:       blogSlug,
		Content:    in.Content,
		AuthorID:   authorID,
		Tags:       cleanTags(in.Tags),
		CoverImage: in.CoverImage,
		Status:     status,
	}
	if err := s.blogs.CreateBlog(ctx, blog); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("A blog with this slug already exists")
		}
		return nil, apperr.Internal("Could not create blog", err)
	}
	return blog, nil
}

// uniqueSlug slugifies title and, when the slug is taken by another blog,
// suffixes the last four digits of the current unix milliseconds.
func (s *BlogService) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", apperr.BadRequest("Title must contain letters or digits")
	}
	taken, err := s.blogs.SlugExists(ctx, base, excludeID)
	if err != nil {
		return "", apperr.Internal("Could not check slug", err)
	}
	if !taken {
		return base, nil
	}
	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	return base + "-" + millis[len(millis)-4:], nil
}

// List returns blogs newest first. Status defaults to published.
func (s *BlogService) List(ctx context.Context, q BlogQuery) (*BlogPage, error) {
	status := models.BlogStatus(q.Status)
	if status == "" {
		status = models.BlogPublished
	}
	return s.list(ctx, repository.BlogFilter{Status: status, Tag: q.Tag}, q)
}

// ListMine returns the author's own blogs in any status unless one is
// asked for.
func (s *BlogService) ListMine(ctx context.Context, authorID string, q BlogQuery) (*BlogPage, error) {
	return s.list(ctx, repository.BlogFilter{Status: models.BlogStatus(q.Status), AuthorID: authorID}, q)
}

func (s *BlogService) list(ctx context.Context, filter repository.BlogFilter, q BlogQuery) (*BlogPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.BadRequest("Invalid blog status")
	}
	page := repository.NewPage(q.Page, q.Limit, DefaultBlogLimit)
	blogs, total, err := s.blogs.ListBlogs(ctx, filter, page)
	if err != nil {
		return nil, apperr.Internal("Could not list blogs", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return &BlogPage{Blogs: blogs, Pagination: page.Paginate(total)}, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	blog, err := s.blogs.GetBlog(ctx, id)
	return found(blog, err)
}

// GetBySlug only serves published blogs.
func (s *BlogService) GetBySlug(ctx context.Context, blogSlug string) (*models.Blog, error) {
	blog, err := s.blogs.GetPublishedBySlug(ctx, blogSlug)
	return found(blog, err)
}

func (s *BlogService) Update(ctx context.Context, id, authorID string, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := found(s.blogs.GetOwnedBlog(ctx, id, authorID))
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		blogSlug, err := s.uniqueSlug(ctx, *in.Title, blog.ID)
		if err != nil {
			return nil, err
		}
		blog.Title = strings.TrimSpace(*in.Title)
		blog.Slug = blogSlug
	}
	if in.Content != nil {
		blog.Content = *in.Content
	}
	if in.Tags != nil {
		blog.Tags = cleanTags(*in.Tags)
	}
	if in.CoverImage != nil {
		blog.CoverImage = *in.CoverImage
	}

	return s.save(ctx, blog)
}

func (s *BlogService) SetStatus(ctx context.Context, id, authorID string, status models.BlogStatus) (*models.Blog, error) {
	if !status.Valid() {
		return nil, apperr.BadRequest("Invalid blog status")
	}
	blog, err := found(s.blogs.GetOwnedBlog(ctx, id, authorID))
	if err != nil {
		return nil, err
	}
	blog.Status = status
	return s.save(ctx, blog)
}

func (s *BlogService) save(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if err := s.blogs.UpdateBlog(ctx, blog); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("A blog with this slug already exists")
		}
		return nil, apperr.Internal("Could not update blog", err)
	}
	return blog, nil
}

// Delete removes an owned blog together with its comments and every like
// on the blog or those comments.
func (s *BlogService) Delete(ctx context.Context, id, authorID string) (*models.Blog, error) {
	var deleted *models.Blog
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		blogs := s.blogs.WithTx(tx)
		comments := s.comments.WithTx(tx)
		likes := s.likes.WithTx(tx)

		blog, err := blogs.GetOwnedBlog(ctx, id, authorID)
		if err != nil {
			return err
		}
		if blog == nil {
			return apperr.NotFound("Blog not found")
		}

		commentIDs, err := comments.IDsByBlog(ctx, blog.ID)
		if err != nil {
			return err
		}
		if err := likes.DeleteByEntities(ctx, models.EntityComment, commentIDs); err != nil {
			return err
		}
		if err := likes.DeleteByEntities(ctx, models.EntityBlog, []string{blog.ID}); err != nil {
			return err
		}
		if _, err := comments.DeleteByBlog(ctx, blog.ID); err != nil {
			return err
		}
		if err := blogs.DeleteBlog(ctx, blog.ID); err != nil {
			return err
		}
		deleted = blog
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "Could not delete blog")
	}
	return deleted, nil
}

func found(blog *models.Blog, err error) (*models.Blog, error) {
	if err != nil {
		return nil, apperr.Internal("Could not load blog", err)
	}
	if blog == nil {
		return nil, apperr.NotFound("Blog not found")
	}
	return blog, nil
}

func cleanTags(tags []string) models.StringArray {
	out := make(models.StringArray, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
