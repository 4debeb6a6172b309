package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to a blog. A nil ParentCommentID marks a top-level
// comment; replies point at a top-level comment of the same blog.
type Comment struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BlogID          string    `json:"blogId" gorm:"type:varchar(36);not null;index"`
	UserID          string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	User            *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ParentCommentID *string   `json:"parentCommentId" gorm:"type:varchar(36);index"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	LikesCount      int64     `json:"likesCount" gorm:"not null;default:0"`
	IsEdited        bool      `json:"isEdited" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"autoUpdateTime;not null"`

	Replies []Comment `json:"replies,omitempty" gorm:"-"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
