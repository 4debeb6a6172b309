package cards

import (
	"fmt"
	"strings"
)

func recommendPrompt(in RecommendInput) string {
	return fmt.Sprintf(`You are a credit card recommendation engine.

The user has the following credit cards: %s.
They are going to spend ₹%s on %q in the category %q in %s mode.
Your job is to select the best credit card from the user's wallet to maximize cashback, points, or discounts based on real or commonly known Indian credit card reward programs.
Respond ONLY with a valid JSON object in this exact format:
{
  "card": "Card Name",
  "savings": "₹XXX",
  "reason": "Explain why this card is best in one sentence"
}
Do not include any text, explanation, markdown, or comments outside the JSON object.`,
		strings.Join(in.Cards, ", "), formatAmount(in.Amount), in.Platform, in.Category, in.TransactionMode)
}

func statementPrompt(text string) string {
	return `You are a financial assistant. Extract the following structured information from the credit card statement text:

- card_holder_name
- card_number_last4
- statement_period: { from: string, to: string }
- total_due
- minimum_due
- due_date
- transactions: [{ date, description, amount }]
- reward_points_earned
- reward_points_redeemed
- total_spent
- category_breakdown: [{ category: string, amount: number }]

Statement Text:
` + text + `

Return as JSON.`
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
