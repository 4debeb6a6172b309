package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntityType string

const (
	EntityBlog    EntityType = "blog"
	EntityComment EntityType = "comment"
)

func (e EntityType) Valid() bool {
	return e == EntityBlog || e == EntityComment
}

// Like is unique per (user, entity type, entity).
type Like struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_entity"`
	EntityType EntityType `json:"entityType" gorm:"type:varchar(20);not null;uniqueIndex:idx_likes_user_entity"`
	EntityID   string     `json:"entityId" gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_entity;index"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"autoCreateTime;not null"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
