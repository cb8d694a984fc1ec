package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{"Date", "Type", "Category", "Amount", "Method", "Notes"}

func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range r.Transactions {
		record := []string{
			t.Date.Format(DateLayout),
			string(t.Type),
			t.Category,
			money(t.Amount),
			t.Method,
			t.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
