package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 30, "L"},
	{"Type", 25, "L"},
	{"Category", 55, "L"},
	{"Amount", 35, "R"},
	{"Method", 45, "L"},
}

// WritePDF renders r as a single A4 document with totals and a transaction table.
func WritePDF(w io.Writer, r Report, currency string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("MyGajanji Financial Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "MyGajanji Financial Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s to %s", r.From, r.To), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	for _, line := range []struct {
		label  string
		amount float64
	}{
		{"Total Income", r.Summary.IncomeTotal},
		{"Total Expense", r.Summary.ExpenseTotal},
		{"Net Balance", r.Summary.Net},
	} {
		pdf.CellFormat(50, 8, line.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, currency+" "+money(line.amount), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 240)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, t := range r.Transactions {
		cells := []string{
			t.Date.Format(DateLayout),
			string(t.Type),
			tr(t.Category),
			money(t.Amount),
			tr(t.Method),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(r.Transactions) == 0 {
		pdf.CellFormat(0, 8, "No transactions in this period.", "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
