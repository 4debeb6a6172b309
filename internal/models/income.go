package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Income struct {
	ID                 string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID             string      `json:"userId" gorm:"type:varchar(36);not null;index:idx_incomes_user_date;index:idx_incomes_user_category"`
	Amount             float64     `json:"amount" gorm:"not null"`
	Category           string      `json:"category" gorm:"type:varchar(50);not null;index:idx_incomes_user_category"`
	Description        string      `json:"description" gorm:"type:text;not null"`
	Source             string      `json:"source" gorm:"type:varchar(255);not null"`
	Date               time.Time   `json:"date" gorm:"not null;index:idx_incomes_user_date"`
	Tags               StringArray `json:"tags"`
	IsRecurring        bool        `json:"isRecurring" gorm:"not null;default:false"`
	RecurringFrequency *Frequency  `json:"recurringFrequency,omitempty" gorm:"type:varchar(20)"`
	CreatedAt          time.Time   `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt          time.Time   `json:"updatedAt" gorm:"autoUpdateTime;not null"`
}

// TableName specifies the table name for GORM
func (Income) TableName() string {
	return "incomes"
}

func (i *Income) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
