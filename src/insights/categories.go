// Package insights holds the in-process aggregation over a user's
// transactions: category grouping, period ranges, spending suggestions
// and budget windows. Everything here is pure and safe for concurrent use.
package insights

import (
	"math"
	"sort"

	"gajanji-server/src/models"

	"github.com/shopspring/decimal"
)

const Uncategorized = "Uncategorized"

type CategoryGroup struct {
	Category string               `json:"category"`
	Count    int                  `json:"count"`
	Total    float64              `json:"total"`
	Items    []models.Transaction `json:"items"`

	sum decimal.Decimal
}

type Summary struct {
	IncomeTotal  float64 `json:"incomeTotal"`
	ExpenseTotal float64 `json:"expenseTotal"`
	Net          float64 `json:"net"`
}

type CategoryView struct {
	Income  []CategoryGroup `json:"income"`
	Expense []CategoryGroup `json:"expense"`
	Summary Summary         `json:"summary"`
}

// Group returns the (type, category) bucket, or nil when absent.
func (v CategoryView) Group(t models.TransactionType, category string) *CategoryGroup {
	groups := v.Expense
	if t == models.TransactionIncome {
		groups = v.Income
	}
	for i := range groups {
		if groups[i].Category == category {
			return &groups[i]
		}
	}
	return nil
}

// Categorize groups transactions by category within their type. Groups are
// ordered by descending total (ties by name) and items keep input order.
// A non-finite amount counts as zero; unknown types are skipped.
func Categorize(txs []models.Transaction) CategoryView {
	buckets := map[models.TransactionType]map[string]*CategoryGroup{
		models.TransactionIncome:  {},
		models.TransactionExpense: {},
	}

	for _, tx := range txs {
		byCategory, ok := buckets[tx.Type]
		if !ok {
			continue
		}
		category := tx.Category
		if category == "" {
			category = Uncategorized
		}
		g, ok := byCategory[category]
		if !ok {
			g = &CategoryGroup{Category: category, Items: []models.Transaction{}}
			byCategory[category] = g
		}
		g.Count++
		g.sum = g.sum.Add(amountOf(tx))
		g.Items = append(g.Items, tx)
	}

	income, incomeTotal := flatten(buckets[models.TransactionIncome])
	expense, expenseTotal := flatten(buckets[models.TransactionExpense])

	return CategoryView{
		Income:  income,
		Expense: expense,
		Summary: Summary{
			IncomeTotal:  incomeTotal.InexactFloat64(),
			ExpenseTotal: expenseTotal.InexactFloat64(),
			Net:          incomeTotal.Sub(expenseTotal).InexactFloat64(),
		},
	}
}

// Totals sums income and expense without building groups.
func Totals(txs []models.Transaction) (income, expense float64) {
	var in, out decimal.Decimal
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionIncome:
			in = in.Add(amountOf(tx))
		case models.TransactionExpense:
			out = out.Add(amountOf(tx))
		}
	}
	return in.InexactFloat64(), out.InexactFloat64()
}

func amountOf(tx models.Transaction) decimal.Decimal {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(tx.Amount)
}

func flatten(byCategory map[string]*CategoryGroup) ([]CategoryGroup, decimal.Decimal) {
	groups := make([]CategoryGroup, 0, len(byCategory))
	total := decimal.Zero
	for _, g := range byCategory {
		g.Total = g.sum.InexactFloat64()
		total = total.Add(g.sum)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if c := groups[i].sum.Cmp(groups[j].sum); c != 0 {
			return c > 0
		}
		return groups[i].Category < groups[j].Category
	})
	return groups, total
}
