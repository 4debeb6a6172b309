// Package cards parses credit card statements and recommends a card for a
// purchase.
package cards

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"fintrack-backend/internal/ai"
	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// StatementStore persists parsed statements.
type StatementStore interface {
	CreateStatement(ctx context.Context, statement *models.CardStatement) error
	ListByUser(ctx context.Context, userID string) ([]models.CardStatement, error)
}

type RecommendInput struct {
	Amount          float64  `json:"amount" validate:"required,gt=0"`
	Platform        string   `json:"platform" validate:"required"`
	Category        string   `json:"category" validate:"required"`
	TransactionMode string   `json:"transactionMode" validate:"required,oneof=online offline Online Offline"`
	Cards           []string `json:"cards" validate:"required,min=1,dive,required"`
}

type Recommendation struct {
	Card    string `json:"card"`
	Savings string `json:"savings"`
	Reason  string `json:"reason"`
}

type Service struct {
	statements StatementStore
	llm        ai.Completer
	extract    func([]byte) (string, error)
}

func NewService(statements StatementStore, llm ai.Completer) *Service {
	return &Service{statements: statements, llm: llm, extract: ExtractText}
}

// Recommend asks the model which of the user's cards fits the purchase.
func (s *Service) Recommend(ctx context.Context, in RecommendInput) (*Recommendation, error) {
	var rec Recommendation
	if err := ai.CompleteJSON(ctx, s.llm, recommendPrompt(in), &rec); err != nil {
		log.Error().Err(err).Msg("Card recommendation failed")
		return nil, apperr.Internal("Could not generate a card recommendation", err)
	}
	if rec.Card == "" {
		return nil, apperr.Internal("Could not generate a card recommendation", nil)
	}
	return &rec, nil
}

// UploadStatement extracts a statement from PDF bytes and stores it for
// userID.
func (s *Service) UploadStatement(ctx context.Context, userID string, data []byte) (*models.CardStatement, error) {
	if len(data) == 0 {
		return nil, apperr.BadRequest("No file uploaded")
	}
	if !IsPDF(data) {
		return nil, apperr.BadRequest("Only PDF files are allowed")
	}

	text, err := s.extract(data)
	if err != nil {
		log.Warn().Err(err).Msg("Could not read statement PDF")
		return nil, apperr.Unprocessable("Could not read the statement PDF")
	}

	raw, err := s.llm.Complete(ctx, statementPrompt(text))
	if err != nil {
		log.Error().Err(err).Msg("Statement extraction failed")
		return nil, apperr.Unprocessable("Could not extract statement data")
	}

	statement, err := ParseStatement(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Statement reply was not usable")
		return nil, apperr.Unprocessable("Could not extract statement data")
	}
	statement.UserID = userID

	if err := s.statements.CreateStatement(ctx, statement); err != nil {
		return nil, apperr.Internal("Could not save the statement", err)
	}
	return statement, nil
}

func (s *Service) ListStatements(ctx context.Context, userID string) ([]models.CardStatement, error) {
	statements, err := s.statements.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Could not load statements", err)
	}
	return statements, nil
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(string(b))
	return nil
}

func (f flexString) ptr() *string {
	if f == "" {
		return nil
	}
	s := string(f)
	return &s
}

// flexNumber accepts a JSON number or a numeric string such as "₹1,200.50".
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, string(s))
	if clean == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return err
	}
	*f = flexNumber(v)
	return nil
}

type statementReply struct {
	CardHolderName  flexString `json:"card_holder_name"`
	CardNumberLast4 flexString `json:"card_number_last4"`
	StatementPeriod struct {
		From flexString `json:"from"`
		To   flexString `json:"to"`
	} `json:"statement_period"`
	TotalDue     flexString `json:"total_due"`
	MinimumDue   flexString `json:"minimum_due"`
	DueDate      flexString `json:"due_date"`
	Transactions []struct {
		Date        flexString `json:"date"`
		Description flexString `json:"description"`
		Amount      flexString `json:"amount"`
	} `json:"transactions"`
	RewardPointsEarned   flexString `json:"reward_points_earned"`
	RewardPointsRedeemed flexString `json:"reward_points_redeemed"`
	TotalSpent           flexString `json:"total_spent"`
	CategoryBreakdown    []struct {
		Category flexString `json:"category"`
		Amount   flexNumber `json:"amount"`
	} `json:"category_breakdown"`
}

// ParseStatement decodes a model reply into a statement. The holder name,
// last four digits and amounts due are required.
func ParseStatement(raw string) (*models.CardStatement, error) {
	var reply statementReply
	if err := json.Unmarshal([]byte(ai.CleanJSON(raw)), &reply); err != nil {
		return nil, err
	}

	st := &models.CardStatement{
		CardHolderName:  string(reply.CardHolderName),
		CardNumberLast4: lastFour(string(reply.CardNumberLast4)),
		StatementPeriod: models.StatementPeriod{
			From: string(reply.StatementPeriod.From),
			To:   string(reply.StatementPeriod.To),
		},
		TotalDue:             string(reply.TotalDue),
		MinimumDue:           string(reply.MinimumDue),
		DueDate:              string(reply.DueDate),
		RewardPointsEarned:   reply.RewardPointsEarned.ptr(),
		RewardPointsRedeemed: reply.RewardPointsRedeemed.ptr(),
		TotalSpent:           reply.TotalSpent.ptr(),
		Transactions:         models.JSONList[models.StatementTransaction]{},
		CategoryBreakdown:    models.JSONList[models.CategoryAmount]{},
	}
	for _, tx := range reply.Transactions {
		st.Transactions = append(st.Transactions, models.StatementTransaction{
			Date:        string(tx.Date),
			Description: string(tx.Description),
			Amount:      string(tx.Amount),
		})
	}
	for _, c := range reply.CategoryBreakdown {
		st.CategoryBreakdown = append(st.CategoryBreakdown, models.CategoryAmount{
			Category: string(c.Category),
			Amount:   float64(c.Amount),
		})
	}

	if st.CardHolderName == "" || st.CardNumberLast4 == "" || st.TotalDue == "" || st.MinimumDue == "" || st.DueDate == "" {
		return nil, errMissingFields
	}
	return st, nil
}

var errMissingFields = apperr.Unprocessable("Statement is missing required fields")

func lastFour(s string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) > 4 {
		return digits[len(digits)-4:]
	}
	return digits
}
