package db

import (
	"context"
	"fmt"
	"time"

	"gajanji-server/src/models"

	"github.com/google/uuid"
)

const budgetColumns = `id, user_id, name, category, amount, recurrence, start_date, end_date,
	threshold_notify, notified, last_notified_at, created_at, updated_at`

func scanBudget(row scanner) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Category,
		&b.Amount,
		&b.Recurrence,
		&b.StartDate,
		&b.EndDate,
		&b.ThresholdNotify,
		&b.Notified,
		&b.LastNotifiedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, name, category, amount, recurrence, start_date, end_date, threshold_notify)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + budgetColumns

	b, err := scanBudget(s.pool.QueryRow(ctx, query,
		uuid.NewString(),
		budget.UserID,
		budget.Name,
		budget.Category,
		budget.Amount,
		budget.Recurrence,
		budget.StartDate,
		budget.EndDate,
		budget.ThresholdNotify,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return b, nil
}

func (s *Store) GetBudgetByID(ctx context.Context, id string) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`
	return scanBudget(s.pool.QueryRow(ctx, query, id))
}

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

// ListBudgetsByCategory returns the user's budgets tracking one category.
func (s *Store) ListBudgetsByCategory(ctx context.Context, userID, category string) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND category = $2 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

// UpdateBudget writes the user-editable columns. The notification guard is
// left to MarkBudgetNotified unless rearm clears it in the same statement.
func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget, rearm bool) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET name = $3, category = $4, amount = $5, recurrence = $6, start_date = $7, end_date = $8,
			threshold_notify = $9,
			notified = CASE WHEN $10 THEN FALSE ELSE notified END,
			last_notified_at = CASE WHEN $10 THEN NULL ELSE last_notified_at END,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + budgetColumns

	return scanBudget(s.pool.QueryRow(ctx, query,
		budget.ID,
		budget.UserID,
		budget.Name,
		budget.Category,
		budget.Amount,
		budget.Recurrence,
		budget.StartDate,
		budget.EndDate,
		budget.ThresholdNotify,
		rearm,
	))
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	cmd, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkBudgetNotified claims the alert for a budget. It reports false when
// another caller already holds the claim.
func (s *Store) MarkBudgetNotified(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE budgets SET notified = TRUE, last_notified_at = $2
		WHERE id = $1 AND notified = FALSE
	`
	cmd, err := s.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// ResetBudgetNotification re-arms a budget so the next qualifying write may alert again.
func (s *Store) ResetBudgetNotification(ctx context.Context, id string) error {
	query := `UPDATE budgets SET notified = FALSE, last_notified_at = NULL WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id)
	return err
}
