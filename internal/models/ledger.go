package models

// Frequency of a recurring expense or income.
type Frequency string

const (
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
	FrequencyYearly  Frequency = "Yearly"
)

var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}

var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Housing",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Healthcare",
	"Education",
	"Travel",
	"Personal Care",
	"Gifts & Donations",
	"Investments",
	"Other",
}

var PaymentMethods = []string{"Cash", "Credit Card", "Debit Card", "Bank Transfer", "UPI", "Other"}

var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Business",
	"Investments",
	"Rental",
	"Gifts",
	"Refunds",
	"Other",
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func IsExpenseCategory(c string) bool { return contains(ExpenseCategories, c) }
func IsIncomeCategory(c string) bool  { return contains(IncomeCategories, c) }
func IsPaymentMethod(m string) bool   { return contains(PaymentMethods, m) }
func (f Frequency) Valid() bool       { return contains(Frequencies, f) }

// CategoryTotal is one row of a per-category aggregate.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}
