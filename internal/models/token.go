package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenType string

const (
	TokenAccess        TokenType = "access"
	TokenRefresh       TokenType = "refresh"
	TokenResetPassword TokenType = "resetPassword"
	TokenVerifyEmail   TokenType = "verifyEmail"
)

// Token is a persisted token record. Only refresh tokens are stored today.
type Token struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Token       string    `json:"-" gorm:"type:text;not null;index"`
	UserID      string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	Type        TokenType `json:"type" gorm:"type:varchar(20);not null"`
	Expires     time.Time `json:"expires" gorm:"not null;index"`
	Blacklisted bool      `json:"blacklisted" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime;not null"`
}

// TableName specifies the table name for GORM
func (Token) TableName() string {
	return "tokens"
}

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// Usable reports whether the record may still back a session.
func (t *Token) Usable(now time.Time) bool {
	return !t.Blacklisted && now.Before(t.Expires)
}
