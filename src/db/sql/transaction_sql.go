package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gajanji-server/src/models"

	"github.com/google/uuid"
)

const transactionColumns = `id, user_id, amount, type, category, date, method, notes, created_at, updated_at`

func scanTransaction(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category, &t.Date, &t.Method, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, amount, type, category, date, method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + transactionColumns

	created, err := scanTransaction(s.pool.QueryRow(ctx, query,
		uuid.NewString(), t.UserID, t.Amount, t.Type, t.Category, t.Date, t.Method, t.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (s *Store) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(s.pool.QueryRow(ctx, query, id))
}

// ListTransactions returns the user's transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date < $%d", *f.To)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY date DESC, created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET amount = $3, type = $4, category = $5, date = $6, method = $7, notes = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + transactionColumns

	return scanTransaction(s.pool.QueryRow(ctx, query,
		t.ID, t.UserID, t.Amount, t.Type, t.Category, t.Date, t.Method, t.Notes,
	))
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SumByType totals income and expense in [from, to).
func (s *Store) SumByType(ctx context.Context, userID string, from, to time.Time) (income, expense float64, err error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY type
	`
	rows, err := s.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind  models.TransactionType
			total float64
		)
		if err := rows.Scan(&kind, &total); err != nil {
			return 0, 0, err
		}
		switch kind {
		case models.TransactionIncome:
			income = total
		case models.TransactionExpense:
			expense = total
		}
	}
	return income, expense, rows.Err()
}

// SumExpensesByCategory totals the user's expenses in one category. Nil bounds
// are open; the range is half-open [from, to).
func (s *Store) SumExpensesByCategory(ctx context.Context, userID, category string, from, to *time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND category = $2
			AND ($3::timestamptz IS NULL OR date >= $3)
			AND ($4::timestamptz IS NULL OR date < $4)
	`
	var total float64
	if err := s.pool.QueryRow(ctx, query, userID, category, from, to).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
