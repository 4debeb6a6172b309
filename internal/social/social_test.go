package social

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"
	"fintrack-backend/internal/testutil"

	"gorm.io/gorm"
)

const longContent = "This post body is comfortably longer than the fifty character minimum."

type fixture struct {
	db       *gorm.DB
	blogs    *BlogService
	comments *CommentService
	likes    *LikeService
	blogRepo *repository.BlogRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	uow := database.NewUnitOfWork(db)
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	return &fixture{
		db:       db,
		blogs:    NewBlogService(uow, blogRepo, commentRepo, likeRepo),
		comments: NewCommentService(uow, commentRepo, blogRepo, likeRepo),
		likes:    NewLikeService(uow, likeRepo, blogRepo, commentRepo),
		blogRepo: blogRepo,
	}
}

func (f *fixture) newBlog(t *testing.T, author, title string) *models.Blog {
	t.Helper()
	blog, err := f.blogs.Create(context.Background(), author, CreateBlogInput{
		Title:   title,
		Content: longContent,
		Tags:    []string{"go"},
		Status:  models.BlogPublished,
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	return blog
}

func (f *fixture) reload(t *testing.T, id string) *models.Blog {
	t.Helper()
	blog, err := f.blogRepo.GetBlog(context.Background(), id)
	if err != nil || blog == nil {
		t.Fatalf("reload blog %s: %v", id, err)
	}
	return blog
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestToggleTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Toggle twice post")

	first, err := f.likes.Toggle(ctx, "reader", models.EntityBlog, blog.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if first.Action != ActionLiked || !first.Liked || first.LikesCount != 1 {
		t.Fatalf("first toggle = %+v", first)
	}

	liked, err := f.likes.Status(ctx, "reader", models.EntityBlog, blog.ID)
	if err != nil || !liked {
		t.Fatalf("status after like = %v, %v", liked, err)
	}

	second, err := f.likes.Toggle(ctx, "reader", models.EntityBlog, blog.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Action != ActionUnliked || second.Liked || second.LikesCount != 0 {
		t.Fatalf("second toggle = %+v", second)
	}
	if n := f.count(t, &models.Like{}, "entity_id = ?", blog.ID); n != 0 {
		t.Fatalf("like rows left = %d", n)
	}
}

func TestToggleCounterMatchesRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Counter invariant post")
	comment, err := f.comments.Create(ctx, "author", CreateCommentInput{BlogID: blog.ID, Content: "first"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	users := []string{"u1", "u2", "u3", "u2"}
	for _, u := range users {
		if _, err := f.likes.Toggle(ctx, u, models.EntityComment, comment.ID); err != nil {
			t.Fatalf("toggle %s: %v", u, err)
		}
	}

	rows := f.count(t, &models.Like{}, "entity_type = ? AND entity_id = ?", models.EntityComment, comment.ID)
	var stored models.Comment
	if err := f.db.First(&stored, "id = ?", comment.ID).Error; err != nil {
		t.Fatalf("load comment: %v", err)
	}
	if rows != 2 || stored.LikesCount != rows {
		t.Fatalf("rows = %d, likesCount = %d", rows, stored.LikesCount)
	}
}

func TestToggleUnknownTargetRollsBack(t *testing.T) {
	f := newFixture(t)
	_, err := f.likes.Toggle(context.Background(), "reader", models.EntityBlog, "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if n := f.count(t, &models.Like{}, "entity_id = ?", "missing"); n != 0 {
		t.Fatalf("like row survived rollback")
	}

	if _, err := f.likes.Toggle(context.Background(), "reader", models.EntityType("post"), "x"); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("bad entity type err = %v", err)
	}
}

func TestConcurrentTogglesKeepParity(t *testing.T) {
	for _, n := range []int{6, 7} {
		f := newFixture(t)
		blog := f.newBlog(t, "author", "Concurrent toggles post")

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := f.likes.Toggle(context.Background(), "racer", models.EntityBlog, blog.ID); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("toggle failed: %v", err)
		}

		want := int64(n % 2)
		rows := f.count(t, &models.Like{}, "entity_id = ?", blog.ID)
		if rows != want || f.reload(t, blog.ID).LikesCount != want {
			t.Fatalf("n=%d: rows = %d, likesCount = %d, want %d", n, rows, f.reload(t, blog.ID).LikesCount, want)
		}
	}
}

func TestUnlikeAfterConcurrentDeleteKeepsCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Racing unlike post")

	if _, err := f.likes.Toggle(ctx, "reader", models.EntityBlog, blog.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	// Another request removes the like and its count after our read but
	// before our delete, which is what a row lock wait yields on Postgres.
	var once sync.Once
	err := f.db.Callback().Delete().Before("gorm:delete").Register("test:competing_unlike", func(db *gorm.DB) {
		if db.Statement.Table != "likes" {
			return
		}
		once.Do(func() {
			other := db.Session(&gorm.Session{NewDB: true})
			if err := other.Exec("DELETE FROM likes WHERE entity_id = ?", blog.ID).Error; err != nil {
				db.AddError(err)
				return
			}
			if err := other.Exec("UPDATE blogs SET likes_count = likes_count - 1 WHERE id = ?", blog.ID).Error; err != nil {
				db.AddError(err)
			}
		})
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	result, err := f.likes.Toggle(ctx, "reader", models.EntityBlog, blog.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if result.Action != ActionUnliked || result.Liked || result.LikesCount != 0 {
		t.Fatalf("unlike = %+v", result)
	}

	rows := f.count(t, &models.Like{}, "entity_id = ?", blog.ID)
	if stored := f.reload(t, blog.ID).LikesCount; rows != 0 || stored != 0 {
		t.Fatalf("rows = %d, likesCount = %d", rows, stored)
	}
}

func TestCommentThreadCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Threaded comments post")

	top, err := f.comments.Create(ctx, "alice", CreateCommentInput{BlogID: blog.ID, Content: "top level"})
	if err != nil {
		t.Fatalf("create top: %v", err)
	}
	if got := f.reload(t, blog.ID).CommentsCount; got != 1 {
		t.Fatalf("commentsCount after top = %d", got)
	}

	reply, err := f.comments.Create(ctx, "bob", CreateCommentInput{BlogID: blog.ID, Content: "a reply", ParentCommentID: &top.ID})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if got := f.reload(t, blog.ID).CommentsCount; got != 2 {
		t.Fatalf("commentsCount after reply = %d", got)
	}
	if _, err := f.likes.Toggle(ctx, "carol", models.EntityComment, reply.ID); err != nil {
		t.Fatalf("like reply: %v", err)
	}

	if _, err := f.comments.Delete(ctx, top.ID, "bob"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("delete by non-owner err = %v", err)
	}

	if _, err := f.comments.Delete(ctx, top.ID, "alice"); err != nil {
		t.Fatalf("delete top: %v", err)
	}
	if got := f.reload(t, blog.ID).CommentsCount; got != 0 {
		t.Fatalf("commentsCount after cascade = %d", got)
	}
	if n := f.count(t, &models.Comment{}, "blog_id = ?", blog.ID); n != 0 {
		t.Fatalf("comment rows left = %d", n)
	}
	if n := f.count(t, &models.Like{}, "entity_id = ?", reply.ID); n != 0 {
		t.Fatalf("likes on deleted reply left = %d", n)
	}
}

func TestDeleteReplyDecrementsByOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Reply deletion post")

	top, _ := f.comments.Create(ctx, "alice", CreateCommentInput{BlogID: blog.ID, Content: "top"})
	reply, _ := f.comments.Create(ctx, "bob", CreateCommentInput{BlogID: blog.ID, Content: "reply", ParentCommentID: &top.ID})

	if _, err := f.comments.Delete(ctx, reply.ID, "bob"); err != nil {
		t.Fatalf("delete reply: %v", err)
	}
	if got := f.reload(t, blog.ID).CommentsCount; got != 1 {
		t.Fatalf("commentsCount = %d, want 1", got)
	}
}

func TestCreateCommentValidatesParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Parent validation post")
	other := f.newBlog(t, "author", "Another validation post")

	top, _ := f.comments.Create(ctx, "alice", CreateCommentInput{BlogID: blog.ID, Content: "top"})
	reply, _ := f.comments.Create(ctx, "bob", CreateCommentInput{BlogID: blog.ID, Content: "reply", ParentCommentID: &top.ID})

	missing := "nope"
	cases := map[string]CreateCommentInput{
		"missing parent":   {BlogID: blog.ID, Content: "x", ParentCommentID: &missing},
		"reply to reply":   {BlogID: blog.ID, Content: "x", ParentCommentID: &reply.ID},
		"other blog's top": {BlogID: other.ID, Content: "x", ParentCommentID: &top.ID},
	}
	for name, in := range cases {
		if _, err := f.comments.Create(ctx, "carol", in); !errors.Is(err, apperr.ErrBadRequest) {
			t.Fatalf("%s: err = %v, want bad request", name, err)
		}
	}
	if got := f.reload(t, blog.ID).CommentsCount; got != 2 {
		t.Fatalf("rejected comments changed the counter: %d", got)
	}

	if _, err := f.comments.Create(ctx, "carol", CreateCommentInput{BlogID: "ghost", Content: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown blog err = %v", err)
	}
	if n := f.count(t, &models.Comment{}, "blog_id = ?", "ghost"); n != 0 {
		t.Fatalf("comment on unknown blog persisted")
	}
}

func TestListByBlogAttachesReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Listing comments post")

	older, _ := f.comments.Create(ctx, "alice", CreateCommentInput{BlogID: blog.ID, Content: "older"})
	time.Sleep(5 * time.Millisecond)
	newer, _ := f.comments.Create(ctx, "bob", CreateCommentInput{BlogID: blog.ID, Content: "newer"})
	time.Sleep(5 * time.Millisecond)
	r1, _ := f.comments.Create(ctx, "carol", CreateCommentInput{BlogID: blog.ID, Content: "r1", ParentCommentID: &older.ID})
	time.Sleep(5 * time.Millisecond)
	r2, _ := f.comments.Create(ctx, "dave", CreateCommentInput{BlogID: blog.ID, Content: "r2", ParentCommentID: &older.ID})

	page, err := f.comments.ListByBlog(ctx, blog.ID, repository.Page{})
	if err != nil {
		t.Fatalf("ListByBlog: %v", err)
	}
	if page.Pagination.Total != 2 || page.Pagination.Limit != DefaultCommentLimit {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	if page.Comments[0].ID != newer.ID || page.Comments[1].ID != older.ID {
		t.Fatalf("top-level order wrong")
	}
	replies := page.Comments[1].Replies
	if len(replies) != 2 || replies[0].ID != r1.ID || replies[1].ID != r2.ID {
		t.Fatalf("replies = %+v", replies)
	}
	if len(page.Comments[0].Replies) != 0 {
		t.Fatalf("newer comment has replies")
	}
}

func TestUpdateCommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Comment edit post")
	c, _ := f.comments.Create(ctx, "alice", CreateCommentInput{BlogID: blog.ID, Content: "draft"})

	if _, err := f.comments.Update(ctx, c.ID, "mallory", "hijack"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign update err = %v", err)
	}
	if _, err := f.comments.Update(ctx, "missing", "alice", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing update err = %v", err)
	}

	updated, err := f.comments.Update(ctx, c.ID, "alice", "final")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Content != "final" || !updated.IsEdited {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestBlogSlugCollision(t *testing.T) {
	f := newFixture(t)
	f.blogs.now = func() time.Time { return time.UnixMilli(1700000001234) }

	first := f.newBlog(t, "author", "Hello World Again")
	second := f.newBlog(t, "author", "Hello, World again!")

	if first.Slug != "hello-world-again" {
		t.Fatalf("first slug = %q", first.Slug)
	}
	if second.Slug != "hello-world-again-1234" {
		t.Fatalf("second slug = %q", second.Slug)
	}

	title := "Hello World Again"
	updated, err := f.blogs.Update(context.Background(), first.ID, "author", UpdateBlogInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != "hello-world-again" {
		t.Fatalf("retitling to the same title changed slug to %q", updated.Slug)
	}
}

func TestBlogOwnershipAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Ownership checks post")

	content := strings.Repeat("x", 60)
	if _, err := f.blogs.Update(ctx, blog.ID, "intruder", UpdateBlogInput{Content: &content}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign update err = %v", err)
	}
	if _, err := f.blogs.SetStatus(ctx, blog.ID, "author", "deleted"); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("bad status err = %v", err)
	}

	if _, err := f.blogs.SetStatus(ctx, blog.ID, "author", models.BlogDraft); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, err := f.blogs.GetBySlug(ctx, blog.Slug); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("draft served by slug: %v", err)
	}

	public, err := f.blogs.List(ctx, BlogQuery{})
	if err != nil || public.Pagination.Total != 0 {
		t.Fatalf("published list = %+v, %v", public, err)
	}
	mine, err := f.blogs.ListMine(ctx, "author", BlogQuery{})
	if err != nil || mine.Pagination.Total != 1 {
		t.Fatalf("own list = %+v, %v", mine, err)
	}
}

func TestDeleteBlogCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := f.newBlog(t, "author", "Cascade delete post")
	keep := f.newBlog(t, "author", "Unrelated survivor post")

	c, _ := f.comments.Create(ctx, "alice", CreateCommentInput{BlogID: blog.ID, Content: "c"})
	f.comments.Create(ctx, "bob", CreateCommentInput{BlogID: blog.ID, Content: "r", ParentCommentID: &c.ID})
	f.likes.Toggle(ctx, "carol", models.EntityBlog, blog.ID)
	f.likes.Toggle(ctx, "carol", models.EntityComment, c.ID)
	f.likes.Toggle(ctx, "carol", models.EntityBlog, keep.ID)

	if _, err := f.blogs.Delete(ctx, blog.ID, "intruder"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign delete err = %v", err)
	}
	if _, err := f.blogs.Delete(ctx, blog.ID, "author"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := f.blogs.Get(ctx, blog.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("blog still readable: %v", err)
	}
	if n := f.count(t, &models.Comment{}, "blog_id = ?", blog.ID); n != 0 {
		t.Fatalf("comments left = %d", n)
	}
	if n := f.count(t, &models.Like{}, "user_id = ?", "carol"); n != 1 {
		t.Fatalf("likes left = %d, want only the unrelated one", n)
	}
}
