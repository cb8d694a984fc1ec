package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gajanji-server/src/logger"
	"gajanji-server/src/models"
	"gajanji-server/src/util"

	"github.com/go-chi/chi/v5"
)

// BudgetEvaluator computes budget spend and fires threshold alerts.
// *notifier.Notifier satisfies it.
type BudgetEvaluator interface {
	Evaluate(ctx context.Context, userID string, budgets []models.Budget) ([]models.BudgetWithSpent, error)
	Spent(ctx context.Context, b models.Budget) (float64, error)
}

// budgetRequest is the body of create and update calls. Nil fields are left
// unchanged on update; an empty date string clears that date.
type budgetRequest struct {
	Name            *string            `json:"name"`
	Category        *string            `json:"category"`
	Amount          *float64           `json:"amount"`
	Recurrence      *models.Recurrence `json:"recurrence"`
	StartDate       *string            `json:"startDate"`
	EndDate         *string            `json:"endDate"`
	ThresholdNotify *float64           `json:"thresholdNotify"`
}

func (req budgetRequest) apply(b *models.Budget, loc *time.Location) error {
	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		b.Category = strings.TrimSpace(*req.Category)
	}
	if req.Amount != nil {
		b.Amount = *req.Amount
	}
	if req.Recurrence != nil {
		b.Recurrence = *req.Recurrence
	}
	if req.ThresholdNotify != nil {
		b.ThresholdNotify = *req.ThresholdNotify
	}
	var err error
	if b.StartDate, err = optionalDate(req.StartDate, b.StartDate, loc); err != nil {
		return err
	}
	if b.EndDate, err = optionalDate(req.EndDate, b.EndDate, loc); err != nil {
		return err
	}
	return validateBudget(b)
}

func optionalDate(value *string, current *time.Time, loc *time.Location) (*time.Time, error) {
	if value == nil {
		return current, nil
	}
	if strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := util.ParseDate(*value, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", *value)
	}
	return &d, nil
}

func validateBudget(b *models.Budget) error {
	switch {
	case b.Name == "":
		return fmt.Errorf("name is required")
	case b.Category == "":
		return fmt.Errorf("category is required")
	case !(b.Amount > 0):
		return fmt.Errorf("amount must be greater than 0")
	case !b.Recurrence.Valid():
		return fmt.Errorf("recurrence must be monthly, weekly or custom")
	case !(b.ThresholdNotify > 0 && b.ThresholdNotify <= 100):
		return fmt.Errorf("thresholdNotify must be within (0, 100]")
	case b.StartDate != nil && b.EndDate != nil && b.EndDate.Before(*b.StartDate):
		return fmt.Errorf("endDate must not be before startDate")
	}
	return nil
}

func CreateBudget(store BudgetStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req budgetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode create budget request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		budget := &models.Budget{
			UserID:          id.UserID,
			Recurrence:      models.RecurrenceMonthly,
			ThresholdNotify: models.DefaultThresholdNotify,
		}
		if err := req.apply(budget, loc); err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := store.CreateBudget(r.Context(), budget)
		if err != nil {
			log.Error("Failed to create budget", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to create budget.")
			return
		}

		log.Info("Created budget", logger.FieldBudgetID, created.ID, "category", created.Category)
		util.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetBudgets lists the caller's budgets with their current spend. Listing is
// also what triggers threshold alerts.
func GetBudgets(store BudgetStore, evaluator BudgetEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		budgets, err := store.ListBudgets(r.Context(), id.UserID)
		if err != nil {
			log.Error("Failed to fetch budgets", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to fetch budgets.")
			return
		}

		enriched, err := evaluator.Evaluate(r.Context(), id.UserID, budgets)
		if err != nil {
			log.Error("Failed to compute budget spend", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to fetch budgets.")
			return
		}
		util.WriteJSON(w, http.StatusOK, enriched)
	}
}

// GetBudgetsByCategory lists the caller's budgets tracking one category, with
// their current spend.
func GetBudgetsByCategory(store BudgetStore, evaluator BudgetEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		category := strings.TrimSpace(chi.URLParam(r, "category"))
		if category == "" {
			util.WriteError(w, http.StatusBadRequest, "category is required")
			return
		}

		budgets, err := store.ListBudgetsByCategory(r.Context(), id.UserID, category)
		if err != nil {
			log.Error("Failed to fetch budgets by category", "category", category, logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to fetch budgets.")
			return
		}

		enriched, err := evaluator.Evaluate(r.Context(), id.UserID, budgets)
		if err != nil {
			log.Error("Failed to compute budget spend", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to fetch budgets.")
			return
		}
		util.WriteJSON(w, http.StatusOK, enriched)
	}
}

func loadBudget(w http.ResponseWriter, r *http.Request, store BudgetStore, userID string) (*models.Budget, bool) {
	budgetID, ok := pathID(w, r, "budget")
	if !ok {
		return nil, false
	}
	b, err := store.GetBudgetByID(r.Context(), budgetID)
	if err != nil {
		writeLoadError(w, r, err, "Budget")
		return nil, false
	}
	if b.UserID != userID {
		logger.FromContext(r.Context()).Info("Budget access denied", logger.FieldBudgetID, budgetID)
		util.WriteError(w, http.StatusForbidden, "Not authorized to access this budget")
		return nil, false
	}
	return b, true
}

func GetBudget(store BudgetStore, evaluator BudgetEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		b, ok := loadBudget(w, r, store, id.UserID)
		if !ok {
			return
		}

		spent, err := evaluator.Spent(r.Context(), *b)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to compute budget spend", logger.FieldBudgetID, b.ID, logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to fetch budget.")
			return
		}
		util.WriteJSON(w, http.StatusOK, models.BudgetWithSpent{Budget: *b, Spent: spent})
	}
}

// UpdateBudget applies a partial update. Changing the amount, category or
// threshold re-arms the alert.
func UpdateBudget(store BudgetStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		b, ok := loadBudget(w, r, store, id.UserID)
		if !ok {
			return
		}
		before := *b

		var req budgetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode update budget request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := req.apply(b, loc); err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		rearm := b.Amount != before.Amount || b.Category != before.Category || b.ThresholdNotify != before.ThresholdNotify

		updated, err := store.UpdateBudget(r.Context(), b, rearm)
		if err != nil {
			writeLoadError(w, r, err, "Budget")
			return
		}

		log.Info("Updated budget", logger.FieldBudgetID, updated.ID)
		util.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteBudget(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		b, ok := loadBudget(w, r, store, id.UserID)
		if !ok {
			return
		}
		if err := store.DeleteBudget(r.Context(), id.UserID, b.ID); err != nil {
			writeLoadError(w, r, err, "Budget")
			return
		}

		logger.FromContext(r.Context()).Info("Deleted budget", logger.FieldBudgetID, b.ID)
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted."})
	}
}
