package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/hallbook/hallbook-api/internal/fiscal"
)

// ExportService renders financial-year reports as downloadable files.
type ExportService struct {
	reports *ReportService
}

// NewExportService creates a new export service
func NewExportService(reports *ReportService) *ExportService {
	return &ExportService{reports: reports}
}

// ExportCSV renders the FY summary and category breakdown as CSV.
func (s *ExportService) ExportCSV(ctx context.Context, orgID uint, fy fiscal.Year) ([]byte, string, error) {
	summary, err := s.reports.FinancialYearSummary(ctx, orgID, fy)
	if err != nil {
		return nil, "", err
	}
	breakdown, err := s.reports.Breakdown(ctx, orgID, fy)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	rows := [][]string{
		{"Financial Year Summary", summary.Label},
		{},
		{"Metric", "Amount"},
		{"Total Income", FormatINR(summary.TotalIncome)},
		{"Total Expenses", FormatINR(summary.TotalExpenses)},
		{"Receivables", FormatINR(summary.Receivables)},
		{"Payables", FormatINR(summary.Payables)},
		{"Net", FormatINR(summary.Net)},
		{},
		{"Income by Category"},
		{"Category", "Amount"},
	}
	for _, name := range sortedKeys(breakdown.Income) {
		rows = append(rows, []string{name, FormatINR(breakdown.Income[name])})
	}
	rows = append(rows, []string{}, []string{"Expenses by Category"}, []string{"Category", "Amount"})
	for _, name := range sortedKeys(breakdown.Expense) {
		rows = append(rows, []string{name, FormatINR(breakdown.Expense[name])})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("fy_summary_%d-%02d_%s.csv", fy.Start, fy.End%100, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportXLSX renders the FY summary and category breakdown as a
// single-sheet workbook.
func (s *ExportService) ExportXLSX(ctx context.Context, orgID uint, fy fiscal.Year) ([]byte, string, error) {
	summary, err := s.reports.FinancialYearSummary(ctx, orgID, fy)
	if err != nil {
		return nil, "", err
	}
	breakdown, err := s.reports.Breakdown(ctx, orgID, fy)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Summary"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Financial Year Summary (%s)", summary.Label))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Metric")
	_ = f.SetCellValue(sheet, "B3", "Amount")

	metrics := []struct {
		label string
		value string
	}{
		{"Total Income", FormatINR(summary.TotalIncome)},
		{"Total Expenses", FormatINR(summary.TotalExpenses)},
		{"Receivables", FormatINR(summary.Receivables)},
		{"Payables", FormatINR(summary.Payables)},
		{"Net", FormatINR(summary.Net)},
	}
	row := 4
	for _, m := range metrics {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.value)
		row++
	}

	row += 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Income by Category")
	row++
	for _, name := range sortedKeys(breakdown.Income) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), FormatINR(breakdown.Income[name]))
		row++
	}

	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Expenses by Category")
	row++
	for _, name := range sortedKeys(breakdown.Expense) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), FormatINR(breakdown.Expense[name]))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("fy_summary_%d-%02d_%s.xlsx", fy.Start, fy.End%100, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportPDF renders a one-page FY summary. gofpdf's core fonts cannot
// draw the rupee sign, so amounts carry an INR prefix instead.
func (s *ExportService) ExportPDF(ctx context.Context, orgID uint, fy fiscal.Year) ([]byte, string, error) {
	summary, err := s.reports.FinancialYearSummary(ctx, orgID, fy)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Financial Year Summary - %s", summary.Label))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	lines := []struct {
		label string
		value string
	}{
		{"Total Income:", "INR " + summary.TotalIncome.StringFixed(2)},
		{"Total Expenses:", "INR " + summary.TotalExpenses.StringFixed(2)},
		{"Receivables:", "INR " + summary.Receivables.StringFixed(2)},
		{"Payables:", "INR " + summary.Payables.StringFixed(2)},
		{"Net:", "INR " + summary.Net.StringFixed(2)},
	}
	for _, l := range lines {
		pdf.Cell(60, 10, l.label)
		pdf.Cell(60, 10, l.value)
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("fy_summary_%d-%02d_%s.pdf", fy.Start, fy.End%100, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
