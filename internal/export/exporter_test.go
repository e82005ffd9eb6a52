package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"financas/internal/core"
	"financas/internal/report"
	"financas/internal/sheets"
	"financas/internal/storage"
)

type fakeStore struct {
	user         *core.User
	transactions []core.Transaction
	payables     []core.Payable
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*core.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, storage.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) ListTransactionsByMonth(_ context.Context, userID int64, month core.Date) ([]core.Transaction, error) {
	start, end := month.MonthRange()
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID == userID && !t.OccurredAt.Before(start.Time) && t.OccurredAt.Before(end.Time) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPayables(_ context.Context, userID int64) ([]core.Payable, error) {
	var out []core.Payable
	for _, p := range f.payables {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeMirror struct {
	userName string
	rows     []sheets.RangeRow
	calls    int
}

func (m *fakeMirror) AppendRangeRows(_ context.Context, userName string, rows []sheets.RangeRow) error {
	m.calls++
	m.userName = userName
	m.rows = rows
	return nil
}

func sampleStore() *fakeStore {
	return &fakeStore{
		user: &core.User{ID: 1, Name: "Maria", Email: "maria@example.com"},
		transactions: []core.Transaction{
			{UserID: 1, Kind: core.Income, Amount: core.Money{Cents: 420000}, Category: "Salary",
				OccurredAt: core.NewDate(2026, 8, 5), Description: "Monthly paycheck", Status: "normal"},
			{UserID: 1, Kind: core.Expense, Amount: core.Money{Cents: 120000}, Category: "Housing",
				OccurredAt: core.NewDate(2026, 8, 20), Status: "normal"},
		},
		payables: []core.Payable{
			{UserID: 1, Title: "Electricity bill", Amount: core.Money{Cents: 28000},
				DueDate: core.NewDate(2026, 8, 25), Status: core.Pending},
		},
	}
}

func newExporter(store *fakeStore) *Exporter {
	return NewExporter(store, report.NewService(store), DefaultFormat())
}

func TestExportMonth(t *testing.T) {
	store := sampleStore()
	exp := newExporter(store)
	dest := filepath.Join(t.TempDir(), "reports", "august.csv")

	path, err := exp.ExportMonth(context.Background(), 1, core.NewDate(2026, 8, 17), dest)
	if err != nil {
		t.Fatalf("ExportMonth: %v", err)
	}
	if path != dest {
		t.Fatalf("returned path %q, want %q", path, dest)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	body := string(content)

	for _, want := range []string{
		"Personal Finance - Monthly Report",
		"User;Maria",
		"Month;August/2026",
		"Income;R$ 4.200,00",
		"Expenses;R$ 1.200,00",
		"Current Balance;R$ 3.000,00",
		"Forecast;R$ 2.720,00",
		"Date;Kind;Category;Description;Amount;Status",
		"05/08/2026;income;Salary;Monthly paycheck;R$ 4.200,00;normal",
		"Title;Due Date;Amount;Status",
		"Electricity bill;25/08/2026;R$ 280,00;pending",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %q\n%s", want, body)
		}
	}
}

func TestExportMonthEmptyLedger(t *testing.T) {
	store := &fakeStore{user: &core.User{ID: 1, Name: "Maria"}}
	exp := newExporter(store)
	dest := filepath.Join(t.TempDir(), "empty.csv")

	if _, err := exp.ExportMonth(context.Background(), 1, core.NewDate(2026, 8, 1), dest); err != nil {
		t.Fatalf("ExportMonth: %v", err)
	}
	body, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{
		"Personal Finance - Monthly Report",
		"Income;R$ 0,00",
		"Expenses;R$ 0,00",
		"Transactions",
		"Payables",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("empty report missing %q", want)
		}
	}
}

func TestExportMonthUnknownUser(t *testing.T) {
	exp := newExporter(&fakeStore{})
	dest := filepath.Join(t.TempDir(), "report.csv")

	if _, err := exp.ExportMonth(context.Background(), 42, core.NewDate(2026, 8, 1), dest); err == nil {
		t.Fatal("expected error for unknown user")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("failed export left a file behind")
	}
}

func TestExportRange(t *testing.T) {
	store := sampleStore()
	store.transactions = append(store.transactions, core.Transaction{
		UserID: 1, Kind: core.Income, Amount: core.Money{Cents: 100000}, Category: "Salary",
		OccurredAt: core.NewDate(2026, 7, 3), Status: "normal",
	})
	mirror := &fakeMirror{}
	exp := newExporter(store).WithMirror(mirror)
	dest := filepath.Join(t.TempDir(), "range.csv")

	months := core.TrailingMonths(core.NewDate(2026, 8, 30), 2)
	if _, err := exp.ExportRange(context.Background(), 1, months, dest); err != nil {
		t.Fatalf("ExportRange: %v", err)
	}

	body, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{
		"Personal Finance - Consolidated Report",
		"Month;Income;Expenses;Balance;Forecast",
		"July/2026;R$ 1.000,00;R$ 0,00;R$ 1.000,00;R$ 1.000,00",
		"August/2026;R$ 4.200,00;R$ 1.200,00;R$ 3.000,00;R$ 2.720,00",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("range report missing %q\n%s", want, string(body))
		}
	}
	if strings.Contains(string(body), "Electricity bill") {
		t.Error("range report should not contain raw detail rows")
	}

	if mirror.calls != 1 || mirror.userName != "Maria" || len(mirror.rows) != 2 {
		t.Fatalf("mirror not fed: %+v", mirror)
	}
	if mirror.rows[1].Label != "Aug/2026" || mirror.rows[1].Balance.Cents != 300000 {
		t.Fatalf("unexpected mirrored row: %+v", mirror.rows[1])
	}
}

func TestExportCreatesMissingDirectories(t *testing.T) {
	exp := newExporter(sampleStore())
	dest := filepath.Join(t.TempDir(), "deeply", "nested", "dir", "report.csv")

	if _, err := exp.ExportMonth(context.Background(), 1, core.NewDate(2026, 8, 1), dest); err != nil {
		t.Fatalf("ExportMonth: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}
