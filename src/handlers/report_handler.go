package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"gajanji-server/src/logger"
	"gajanji-server/src/models"
	"gajanji-server/src/report"
	"gajanji-server/src/util"
)

const reportFilename = "MyGajanji_Financial_Report"

// buildReport loads the caller's transactions for the inclusive
// ?from=YYYY-MM-DD&to=YYYY-MM-DD range.
func buildReport(w http.ResponseWriter, r *http.Request, store TransactionStore, loc *time.Location) (report.Report, bool) {
	id, ok := identity(w, r)
	if !ok {
		return report.Report{}, false
	}

	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		util.WriteError(w, http.StatusBadRequest, "from and to are required")
		return report.Report{}, false
	}
	from, errFrom := time.ParseInLocation(dateOnlyLayout, q.Get("from"), loc)
	to, errTo := time.ParseInLocation(dateOnlyLayout, q.Get("to"), loc)
	if errFrom != nil || errTo != nil {
		util.WriteError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD")
		return report.Report{}, false
	}
	if to.Before(from) {
		util.WriteError(w, http.StatusBadRequest, "to must not be before from")
		return report.Report{}, false
	}

	end := to.AddDate(0, 0, 1)
	txs, err := store.ListTransactions(r.Context(), id.UserID, models.TransactionFilter{From: &from, To: &end})
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load report transactions", logger.FieldError, err)
		util.WriteError(w, http.StatusInternalServerError, "Failed to generate report")
		return report.Report{}, false
	}
	return report.Build(from, to, txs), true
}

func GetReport(store TransactionStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok := buildReport(w, r, store, loc)
		if !ok {
			return
		}
		util.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": rep})
	}
}

func DownloadPDF(store TransactionStore, users UserStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok := buildReport(w, r, store, loc)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		currency := "USD"
		if id, ok := identity(w, r); ok {
			if user, err := users.GetUserByID(r.Context(), id.UserID); err == nil && user.Currency != "" {
				currency = user.Currency
			}
		}

		var buf bytes.Buffer
		if err := report.WritePDF(&buf, rep, currency); err != nil {
			log.Error("Failed to render pdf report", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to generate report")
			return
		}
		writeAttachment(w, "application/pdf", reportFilename+".pdf", buf.Bytes())
	}
}

func DownloadCSV(store TransactionStore, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok := buildReport(w, r, store, loc)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, rep); err != nil {
			logger.FromContext(r.Context()).Error("Failed to render csv report", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Failed to generate report")
			return
		}
		writeAttachment(w, "text/csv; charset=utf-8", reportFilename+".csv", buf.Bytes())
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
