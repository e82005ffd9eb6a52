// Package export serializes ledger data and derived summaries into
// semicolon-delimited report files. Reports are written to a temporary file
// in the destination directory and renamed into place, so a failed export
// never leaves a partial file that looks complete.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"financas/internal/core"
	"financas/internal/sheets"
)

// Store is the read-only slice of the repository the exporter consumes.
type Store interface {
	GetUser(ctx context.Context, id int64) (*core.User, error)
	ListTransactionsByMonth(ctx context.Context, userID int64, month core.Date) ([]core.Transaction, error)
	ListPayables(ctx context.Context, userID int64) ([]core.Payable, error)
}

// Summarizer recomputes monthly figures; the exporter never derives them itself.
type Summarizer interface {
	MonthlySummary(ctx context.Context, userID int64, month core.Date) (core.MonthlySummary, error)
}

type Exporter struct {
	store   Store
	reports Summarizer
	format  Format
	mirror  sheets.ReportWriter
}

func NewExporter(store Store, reports Summarizer, format Format) *Exporter {
	return &Exporter{store: store, reports: reports, format: format}
}

// WithMirror attaches an optional spreadsheet mirror for range exports.
func (e *Exporter) WithMirror(mirror sheets.ReportWriter) *Exporter {
	e.mirror = mirror
	return e
}

const dateLayout = "02/01/2006"

// ExportMonth writes one month's full report: header, summary block, the
// month's transactions and every payable (unfiltered by month). Returns the
// written path.
func (e *Exporter) ExportMonth(ctx context.Context, userID int64, month core.Date, destination string) (string, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	transactions, err := e.store.ListTransactionsByMonth(ctx, userID, month)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	payables, err := e.store.ListPayables(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list payables: %w", err)
	}
	summary, err := e.reports.MonthlySummary(ctx, userID, month)
	if err != nil {
		return "", fmt.Errorf("monthly summary: %w", err)
	}

	records := [][]string{
		{"Personal Finance - Monthly Report"},
		{"User", user.Name},
		{"Month", month.MonthTitle()},
		{},
		{"Summary"},
		{"Opening Balance", e.format.Money(summary.OpeningBalance)},
		{"Current Balance", e.format.Money(summary.CurrentBalance)},
		{"Forecast", e.format.Money(summary.Forecast)},
		{"Income", e.format.Money(summary.Income)},
		{"Expenses", e.format.Money(summary.Expenses)},
		{},
		{"Transactions"},
		{"Date", "Kind", "Category", "Description", "Amount", "Status"},
	}
	for _, t := range transactions {
		records = append(records, []string{
			t.OccurredAt.Format(dateLayout),
			string(t.Kind),
			t.Category,
			t.Description,
			e.format.Money(t.Amount),
			t.Status,
		})
	}
	records = append(records, []string{}, []string{"Payables"},
		[]string{"Title", "Due Date", "Amount", "Status"})
	for _, p := range payables {
		records = append(records, []string{
			p.Title,
			p.DueDate.Format(dateLayout),
			e.format.Money(p.Amount),
			string(p.Status),
		})
	}

	if err := writeDelimited(destination, records); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Monthly report exported",
		"user_id", userID,
		"month", month.MonthStart().String(),
		"path", destination,
		"transactions", len(transactions),
		"payables", len(payables))

	return destination, nil
}

// ExportRange writes one consolidated row per month: label, income, expenses,
// balance and forecast. No raw transaction detail. Each month's summary is
// recomputed independently.
func (e *Exporter) ExportRange(ctx context.Context, userID int64, months []core.Date, destination string) (string, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	records := [][]string{
		{"Personal Finance - Consolidated Report"},
		{"User", user.Name},
		{},
		{"Month", "Income", "Expenses", "Balance", "Forecast"},
	}
	rangeRows := make([]sheets.RangeRow, 0, len(months))
	for _, month := range months {
		summary, err := e.reports.MonthlySummary(ctx, userID, month)
		if err != nil {
			return "", fmt.Errorf("summary for %s: %w", month.MonthLabel(), err)
		}
		records = append(records, []string{
			month.MonthTitle(),
			e.format.Money(summary.Income),
			e.format.Money(summary.Expenses),
			e.format.Money(summary.CurrentBalance),
			e.format.Money(summary.Forecast),
		})
		rangeRows = append(rangeRows, sheets.RangeRow{
			Label:    month.MonthLabel(),
			Income:   summary.Income,
			Expenses: summary.Expenses,
			Balance:  summary.CurrentBalance,
			Forecast: summary.Forecast,
		})
	}

	if err := writeDelimited(destination, records); err != nil {
		return "", err
	}

	if e.mirror != nil {
		if err := e.mirror.AppendRangeRows(ctx, user.Name, rangeRows); err != nil {
			// The local file is the artifact of record; the mirror is best-effort.
			slog.ErrorContext(ctx, "Failed to mirror range report", "user_id", userID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Consolidated report exported",
		"user_id", userID,
		"months", len(months),
		"path", destination)

	return destination, nil
}

// writeDelimited writes UTF-8 semicolon-delimited records atomically.
func writeDelimited(destination string, records [][]string) error {
	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	w.Comma = ';'
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), destination); err != nil {
		return fmt.Errorf("finalize report: %w", err)
	}
	return nil
}
