package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gajanji-server/src/insights"
	"gajanji-server/src/logger"
	"gajanji-server/src/models"
	"gajanji-server/src/util"
)

// transactionRequest is the body of create and update calls. Nil fields are
// left unchanged on update.
type transactionRequest struct {
	Amount   *float64                `json:"amount"`
	Type     *models.TransactionType `json:"type"`
	Category *string                 `json:"category"`
	Date     *string                 `json:"date"`
	Method   *string                 `json:"method"`
	Notes    *string                 `json:"notes"`
}

func (req transactionRequest) apply(t *models.Transaction, loc *time.Location) error {
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.Type != nil {
		t.Type = *req.Type
	}
	if req.Category != nil {
		t.Category = strings.TrimSpace(*req.Category)
	}
	if req.Date != nil {
		d, err := util.ParseDate(*req.Date, loc)
		if err != nil {
			return fmt.Errorf("invalid date %q", *req.Date)
		}
		t.Date = d
	}
	if req.Method != nil {
		t.Method = strings.TrimSpace(*req.Method)
	}
	if req.Notes != nil {
		t.Notes = strings.TrimSpace(*req.Notes)
	}
	return validateTransaction(t)
}

func validateTransaction(t *models.Transaction) error {
	switch {
	case !(t.Amount > 0):
		return fmt.Errorf("amount must be greater than 0")
	case !t.Type.Valid():
		return fmt.Errorf("type must be income or expense")
	case t.Category == "":
		return fmt.Errorf("category is required")
	case t.Date.IsZero():
		return fmt.Errorf("date is required")
	}
	return nil
}

func CreateTransaction(store TransactionStore, cache ViewCache, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req transactionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode create transaction request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		tx := &models.Transaction{UserID: id.UserID}
		if err := req.apply(tx, loc); err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := store.CreateTransaction(r.Context(), tx)
		if err != nil {
			log.Error("Failed to create transaction", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}
		cache.InvalidateUser(id.UserID)

		log.Info("Created transaction", logger.FieldTxID, created.ID, "type", created.Type, "category", created.Category)
		util.WriteJSON(w, http.StatusCreated, map[string]any{
			"message":     "Transaction created",
			"transaction": created,
		})
	}
}

func GetTransactions(store TransactionStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}

		filter, err := transactionFilter(r, loc)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		txs, err := store.ListTransactions(r.Context(), id.UserID, filter)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list transactions", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}
		util.WriteJSON(w, http.StatusOK, map[string]any{"transactions": txs})
	}
}

// transactionFilter reads type, category, from and to. A date-only "to"
// includes that whole day.
func transactionFilter(r *http.Request, loc *time.Location) (models.TransactionFilter, error) {
	q := r.URL.Query()
	f := models.TransactionFilter{
		Type:     models.TransactionType(q.Get("type")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, fmt.Errorf("type must be income or expense")
	}
	if v := q.Get("from"); v != "" {
		from, err := util.ParseDate(v, loc)
		if err != nil {
			return f, fmt.Errorf("invalid from date")
		}
		f.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := util.ParseDate(v, loc)
		if err != nil {
			return f, fmt.Errorf("invalid to date")
		}
		if len(strings.TrimSpace(v)) == len(dateOnlyLayout) {
			to = to.AddDate(0, 0, 1)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, fmt.Errorf("to must not be before from")
	}
	return f, nil
}

// loadTransaction fetches a transaction and checks the caller owns it,
// writing 404 or 403 otherwise.
func loadTransaction(w http.ResponseWriter, r *http.Request, store TransactionStore, userID string) (*models.Transaction, bool) {
	txID, ok := pathID(w, r, "transaction")
	if !ok {
		return nil, false
	}
	tx, err := store.GetTransactionByID(r.Context(), txID)
	if err != nil {
		writeLoadError(w, r, err, "Transaction")
		return nil, false
	}
	if tx.UserID != userID {
		logger.FromContext(r.Context()).Info("Transaction access denied", logger.FieldTxID, txID)
		util.WriteError(w, http.StatusForbidden, "Not authorized to access this transaction")
		return nil, false
	}
	return tx, true
}

func GetTransaction(store TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		tx, ok := loadTransaction(w, r, store, id.UserID)
		if !ok {
			return
		}
		util.WriteJSON(w, http.StatusOK, tx)
	}
}

func UpdateTransaction(store TransactionStore, cache ViewCache, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		tx, ok := loadTransaction(w, r, store, id.UserID)
		if !ok {
			return
		}

		var req transactionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode update transaction request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := req.apply(tx, loc); err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := store.UpdateTransaction(r.Context(), tx)
		if err != nil {
			writeLoadError(w, r, err, "Transaction")
			return
		}
		cache.InvalidateUser(id.UserID)

		log.Info("Updated transaction", logger.FieldTxID, updated.ID)
		util.WriteJSON(w, http.StatusOK, map[string]any{
			"message":     "Transaction updated successfully",
			"transaction": updated,
		})
	}
}

func DeleteTransaction(store TransactionStore, cache ViewCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}

		tx, ok := loadTransaction(w, r, store, id.UserID)
		if !ok {
			return
		}
		if err := store.DeleteTransaction(r.Context(), id.UserID, tx.ID); err != nil {
			writeLoadError(w, r, err, "Transaction")
			return
		}
		cache.InvalidateUser(id.UserID)

		logger.FromContext(r.Context()).Info("Deleted transaction", logger.FieldTxID, tx.ID)
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
	}
}

// monthTotals sums the caller's income and expense over the month picked by
// ?period= ("this-month" or YYYY-MM).
func monthTotals(w http.ResponseWriter, r *http.Request, store TransactionStore, loc *time.Location) (income, expense float64, ok bool) {
	id, ok := identity(w, r)
	if !ok {
		return 0, 0, false
	}

	rng, err := insights.MonthRange(r.URL.Query().Get("period"), time.Now(), loc)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}

	income, expense, err = store.SumByType(r.Context(), id.UserID, rng.Start, rng.End)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to sum transactions", logger.FieldError, err)
		util.WriteError(w, http.StatusInternalServerError, "Server error")
		return 0, 0, false
	}
	return income, expense, true
}

func GetSummary(store TransactionStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		income, expense, ok := monthTotals(w, r, store, loc)
		if !ok {
			return
		}
		util.WriteJSON(w, http.StatusOK, map[string]float64{
			"income":  income,
			"expense": expense,
			"balance": income - expense,
		})
	}
}

func GetSuggestion(store TransactionStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		income, expense, ok := monthTotals(w, r, store, loc)
		if !ok {
			return
		}
		util.WriteJSON(w, http.StatusOK, insights.Suggest(income, expense))
	}
}
