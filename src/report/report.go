// Package report builds the date-range financial report and renders it as
// PDF or CSV.
package report

import (
	"time"

	"gajanji-server/src/insights"
	"gajanji-server/src/models"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type Report struct {
	From         string               `json:"from"`
	To           string               `json:"to"`
	Transactions []models.Transaction `json:"transactions"`
	Income       float64              `json:"income"`
	Expense      float64              `json:"expense"`
	Summary      insights.Summary     `json:"summary"`
}

// Build summarizes txs for the inclusive day range [from, to].
func Build(from, to time.Time, txs []models.Transaction) Report {
	if txs == nil {
		txs = []models.Transaction{}
	}
	view := insights.Categorize(txs)
	return Report{
		From:         from.Format(DateLayout),
		To:           to.Format(DateLayout),
		Transactions: txs,
		Income:       view.Summary.IncomeTotal,
		Expense:      view.Summary.ExpenseTotal,
		Summary:      view.Summary,
	}
}

func money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
