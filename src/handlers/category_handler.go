package handlers

import (
	"net/http"
	"time"

	"gajanji-server/src/insights"
	"gajanji-server/src/logger"
	"gajanji-server/src/models"
	"gajanji-server/src/util"
)

type categoriesResponse struct {
	Success bool                     `json:"success"`
	Income  []insights.CategoryGroup `json:"income"`
	Expense []insights.CategoryGroup `json:"expense"`
	Summary insights.Summary         `json:"summary"`
	Period  insights.PeriodSelector  `json:"periodInfo"`
}

// GetCategories returns the caller's transactions grouped by category,
// optionally narrowed by ?period=yearly|monthly|weekly&year=&month=&week=.
func GetCategories(store TransactionStore, cache ViewCache, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		q := r.URL.Query()
		sel := insights.PeriodSelector{
			Period: q.Get("period"),
			Year:   q.Get("year"),
			Month:  q.Get("month"),
			Week:   q.Get("week"),
		}
		rng, filtered, err := sel.Range(loc)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		view, hit := cache.GetCategories(id.UserID, sel)
		if !hit {
			gen := cache.Generation(id.UserID)
			var filter models.TransactionFilter
			if filtered {
				filter.From, filter.To = &rng.Start, &rng.End
			}
			txs, err := store.ListTransactions(r.Context(), id.UserID, filter)
			if err != nil {
				log.Error("Failed to fetch category data", logger.FieldError, err)
				util.WriteError(w, http.StatusInternalServerError, "Failed to fetch category data")
				return
			}
			view = insights.Categorize(txs)
			cache.SetCategories(id.UserID, sel, view, gen)
		}

		util.WriteJSON(w, http.StatusOK, categoriesResponse{
			Success: true,
			Income:  view.Income,
			Expense: view.Expense,
			Summary: view.Summary,
			Period:  sel,
		})
	}
}
