package reports

import (
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/money"
)

const maxRows = 200

var colW = []float64{22, 26, 62, 42, 30}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[2], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[3], 8, "ACCOUNT", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[4], 8, "AMOUNT", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
}

// RenderPDF writes the statement as an A4 PDF.
func RenderPDF(w io.Writer, s Statement, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "WiseWallet Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+s.Month.Format("January 2006"))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60.6, 60.6, 60.6}
	pdf.CellFormat(sumW[0], 10, "Income ("+s.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expenses ("+s.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Net ("+s.Currency+")", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.Format(s.Income), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.Format(s.Expenses), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.Format(s.Net()), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(s.Categories) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Spending by category")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, c := range s.Categories {
			pdf.CellFormat(90, 7, trimTo(c.Category, 40), "B", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, money.Format(c.Total), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	tableHeader(pdf)
	for i, t := range s.Items {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			tableHeader(pdf)
		}

		pdf.CellFormat(colW[0], 8, strings.ToUpper(string(t.Type)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, t.Date.UTC().Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(describe(t), 34), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, trimTo(deref(t.AccountName, "-"), 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[4], 8, money.Format(ledger.Effect(t.Type, t.Amount)), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by WiseWallet - "+generated.Format(time.RFC3339), "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

func describe(t ledger.Transaction) string {
	desc := deref(t.Description, "")
	cat := deref(t.Category, "")
	switch {
	case desc != "" && cat != "":
		return desc + " (" + cat + ")"
	case desc != "":
		return desc
	case cat != "":
		return cat
	}
	return "-"
}

func deref(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return strings.TrimSpace(*s)
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
