package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatementPeriod struct {
	From string `json:"from" gorm:"column:from_date;type:varchar(50)"`
	To   string `json:"to" gorm:"column:to_date;type:varchar(50)"`
}

type StatementTransaction struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CardStatement is the structured form of an uploaded credit card
// statement.
type CardStatement struct {
	ID                   string                         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID               string                         `json:"user" gorm:"type:varchar(36);not null;index"`
	CardHolderName       string                         `json:"card_holder_name" gorm:"type:varchar(255);not null"`
	CardNumberLast4      string                         `json:"card_number_last4" gorm:"type:varchar(8);not null"`
	StatementPeriod      StatementPeriod                `json:"statement_period" gorm:"embedded;embeddedPrefix:period_"`
	TotalDue             string                         `json:"total_due" gorm:"type:varchar(50);not null"`
	MinimumDue           string                         `json:"minimum_due" gorm:"type:varchar(50);not null"`
	DueDate              string                         `json:"due_date" gorm:"type:varchar(50);not null"`
	Transactions         JSONList[StatementTransaction] `json:"transactions"`
	RewardPointsEarned   *string                        `json:"reward_points_earned" gorm:"type:varchar(50)"`
	RewardPointsRedeemed *string                        `json:"reward_points_redeemed" gorm:"type:varchar(50)"`
	TotalSpent           *string                        `json:"total_spent" gorm:"type:varchar(50)"`
	CategoryBreakdown    JSONList[CategoryAmount]       `json:"category_breakdown"`
	CreatedAt            time.Time                      `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt            time.Time                      `json:"updatedAt" gorm:"autoUpdateTime;not null"`
}

// TableName specifies the table name for GORM
func (CardStatement) TableName() string {
	return "card_statements"
}

func (s *CardStatement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
