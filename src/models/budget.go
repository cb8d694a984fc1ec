package models

import "time"

type Recurrence string

const (
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceCustom  Recurrence = "custom"

	DefaultThresholdNotify = 90.0
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceMonthly, RecurrenceWeekly, RecurrenceCustom:
		return true
	}
	return false
}

type Budget struct {
	ID              string     `json:"_id"`
	UserID          string     `json:"user"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Amount          float64    `json:"amount"`
	Recurrence      Recurrence `json:"recurrence"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	ThresholdNotify float64    `json:"thresholdNotify"`
	Notified        bool       `json:"notified"`
	LastNotifiedAt  *time.Time `json:"lastNotifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BudgetWithSpent is a budget enriched with the spend inside its current window.
type BudgetWithSpent struct {
	Budget
	Spent float64 `json:"spent"`
}
