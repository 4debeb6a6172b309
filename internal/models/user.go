package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// PasswordCost is the bcrypt work factor applied to every stored password.
const PasswordCost = 12

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

var ErrPasswordRequired = errors.New("password is required")

type User struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name                 string     `json:"name" gorm:"type:varchar(255)"`
	Email                string     `json:"email" gorm:"uniqueIndex;not null;type:varchar(255)"`
	Password             string     `json:"-" gorm:"type:varchar(255);not null"`
	Role                 Role       `json:"role" gorm:"type:varchar(20);not null;default:user"`
	Provider             string     `json:"provider" gorm:"type:varchar(50);not null;default:local;index"`
	ProfilePicture       string     `json:"profilePicture,omitempty" gorm:"column:profile_picture;type:varchar(512)"`
	ResetPasswordToken   *string    `json:"-" gorm:"column:reset_password_token;type:varchar(64);index"`
	ResetPasswordExpires *time.Time `json:"-" gorm:"column:reset_password_expires"`
	PasswordChangedAt    *time.Time `json:"-" gorm:"column:password_changed_at"`
	CreatedAt            time.Time  `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt            time.Time  `json:"updatedAt" gorm:"autoUpdateTime;not null"`

	pendingPassword string
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lower-cases and trims an address so lookups and the unique
// index are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword records a new plaintext password. It is hashed by the save
// hook, so every create or update that carries it stores only the hash.
func (u *User) SetPassword(raw string) {
	u.pendingPassword = raw
}

// CheckPassword compares raw against the stored hash.
func (u *User) CheckPassword(raw string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ClearPasswordReset drops any outstanding reset token.
func (u *User) ClearPasswordReset() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
}

// BeforeSave runs for both Create and Save.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Provider == "" {
		u.Provider = ProviderLocal
	}

	if u.pendingPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.pendingPassword), PasswordCost)
		if err != nil {
			return err
		}
		now := time.Now()
		u.Password = string(hash)
		u.PasswordChangedAt = &now
		u.pendingPassword = ""
	}
	if u.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}
