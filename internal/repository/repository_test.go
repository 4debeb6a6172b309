package repository

import (
	"context"
	"testing"
	"time"

	"fintrack-backend/internal/models"
	"fintrack-backend/internal/testutil"
)

func seedUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "Test", Password: "$2a$12$placeholderhashplaceholderhashplaceholderhash0000000"}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := testutil.OpenDB(t)
	users := NewUserRepository(db)
	seedUser(t, users, "dup@example.com")

	err := users.CreateUser(context.Background(), &models.User{Email: "DUP@example.com", Password: "x"})
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	got, err := users.GetUserByEmail(context.Background(), " Dup@Example.com ")
	if err != nil || got == nil {
		t.Fatalf("lookup by normalized email failed: %v", err)
	}

	missing, err := users.GetUserByID(context.Background(), "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing user should be (nil, nil), got %v, %v", missing, err)
	}
}

func TestTokenRepositoryDeleteExpired(t *testing.T) {
	db := testutil.OpenDB(t)
	tokens := NewTokenRepository(db)
	ctx := context.Background()
	now := time.Now()

	for i, exp := range []time.Time{now.Add(-time.Hour), now.Add(-time.Minute), now.Add(time.Hour)} {
		tok := &models.Token{Token: "t" + string(rune('a'+i)), UserID: "u1", Type: models.TokenRefresh, Expires: exp}
		if err := tokens.SaveToken(ctx, tok); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := tokens.DeleteExpired(ctx, now)
	if err != nil || n != 2 {
		t.Fatalf("DeleteExpired = %d, %v", n, err)
	}
	live, err := tokens.FindToken(ctx, "tc", models.TokenRefresh)
	if err != nil || live == nil {
		t.Fatalf("unexpired token removed: %v", err)
	}
	if other, _ := tokens.FindToken(ctx, "tc", models.TokenAccess); other != nil {
		t.Fatalf("lookup must be scoped by type")
	}
}

func TestBlogRepositoryTagFilterAndPaging(t *testing.T) {
	db := testutil.OpenDB(t)
	blogs := NewBlogRepository(db)
	ctx := context.Background()

	for i, tags := range [][]string{{"go", "db"}, {"finance"}, {"go"}} {
		b := &models.Blog{
			Title:    "Post number " + string(rune('A'+i)),
			Slug:     "post-" + string(rune('a'+i)),
			Content:  "content",
			AuthorID: "author",
			Tags:     tags,
			Status:   models.BlogPublished,
		}
		if err := blogs.CreateBlog(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, total, err := blogs.ListBlogs(ctx, BlogFilter{Status: models.BlogPublished, Tag: "go"}, Page{Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(got) != 1 {
		t.Fatalf("total=%d len=%d", total, len(got))
	}

	taken, err := blogs.SlugExists(ctx, "post-a", "")
	if err != nil || !taken {
		t.Fatalf("slug should be taken")
	}
}

func TestLedgerStatsGroupsByCategory(t *testing.T) {
	db := testutil.OpenDB(t)
	expenses := NewExpenseRepository(db)
	ctx := context.Background()
	now := time.Now()

	entries := []models.Expense{
		{UserID: "u1", Amount: 10, Category: "Travel", Description: "bus", Date: now, PaymentMethod: "Cash"},
		{UserID: "u1", Amount: 50, Category: "Shopping", Description: "shoes", Date: now, PaymentMethod: "UPI"},
		{UserID: "u1", Amount: 15, Category: "Travel", Description: "cab", Date: now, PaymentMethod: "UPI"},
		{UserID: "u2", Amount: 999, Category: "Travel", Description: "other user", Date: now, PaymentMethod: "UPI"},
	}
	for i := range entries {
		if err := expenses.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	stats, err := expenses.Stats(ctx, "u1", now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 categories, got %#v", stats)
	}
	if stats[0].Category != "Shopping" || stats[0].Total != 50 {
		t.Fatalf("largest first expected, got %#v", stats[0])
	}
	if stats[1].Category != "Travel" || stats[1].Total != 25 || stats[1].Count != 2 {
		t.Fatalf("travel aggregate wrong: %#v", stats[1])
	}

	ok, err := expenses.DeleteOwned(ctx, entries[3].ID, "u1")
	if err != nil || ok {
		t.Fatalf("must not delete another user's entry")
	}
}
