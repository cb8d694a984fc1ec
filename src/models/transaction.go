package models

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type Transaction struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"user"`
	Amount    float64         `json:"amount"`
	Type      TransactionType `json:"type"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Method    string          `json:"method,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TransactionFilter narrows a transaction listing. Zero values mean no filter;
// the date range is half-open [From, To).
type TransactionFilter struct {
	From     *time.Time
	To       *time.Time
	Type     TransactionType
	Category string
}
