package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
	BlogArchived  BlogStatus = "archived"
)

func (s BlogStatus) Valid() bool {
	switch s {
	case BlogDraft, BlogPublished, BlogArchived:
		return true
	}
	return false
}

type Blog struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title         string      `json:"title" gorm:"type:varchar(200);not null"`
	Slug          string      `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Content       string      `json:"content" gorm:"type:text;not null"`
	AuthorID      string      `json:"authorId" gorm:"type:varchar(36);not null;index"`
	Author        *User       `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags          StringArray `json:"tags"`
	CoverImage    string      `json:"coverImage,omitempty" gorm:"type:varchar(512)"`
	LikesCount    int64       `json:"likesCount" gorm:"not null;default:0"`
	CommentsCount int64       `json:"commentsCount" gorm:"not null;default:0"`
	Status        BlogStatus  `json:"status" gorm:"type:varchar(20);not null;default:draft;index"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"autoCreateTime;not null;index"`
	UpdatedAt     time.Time   `json:"updatedAt" gorm:"autoUpdateTime;not null"`
}

// TableName specifies the table name for GORM
func (Blog) TableName() string {
	return "blogs"
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = BlogDraft
	}
	return nil
}
