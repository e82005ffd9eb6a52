package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
)

// SeedDemoData inserts a small sample month for manual testing: one salary
// income, five category expenses and two payables. It is a no-op when the
// current month already has transactions for the user.
func (r *SQLiteRepository) SeedDemoData(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())

	existing, err := r.ListTransactionsByMonth(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("check existing transactions: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	expenses := []struct {
		category string
		cents    int64
	}{
		{"Housing", 120000},
		{"Food", 60000},
		{"Transport", 25000},
		{"Leisure", 18000},
		{"Investments", 40000},
	}
	expenseDay := core.NewDate(today.Year(), int(today.Month()), min(today.Day(), 20))
	for _, e := range expenses {
		_, err := r.CreateTransaction(ctx, core.Transaction{
			UserID:      userID,
			Kind:        core.Expense,
			Amount:      core.Money{Cents: e.cents},
			Category:    e.category,
			OccurredAt:  expenseDay,
			Description: "Sample " + e.category + " expense",
			Status:      core.DefaultTransactionStatus,
		})
		if err != nil {
			return fmt.Errorf("seed expense: %w", err)
		}
	}

	_, err = r.CreateTransaction(ctx, core.Transaction{
		UserID:      userID,
		Kind:        core.Income,
		Amount:      core.Money{Cents: 420000},
		Category:    "Salary",
		OccurredAt:  core.NewDate(today.Year(), int(today.Month()), 5),
		Description: "Monthly paycheck",
		Status:      core.DefaultTransactionStatus,
	})
	if err != nil {
		return fmt.Errorf("seed income: %w", err)
	}

	payables := []struct {
		title  string
		cents  int64
		day    int
		status core.PayableStatus
	}{
		{"Electricity bill", 28000, 25, core.Pending},
		{"Internet", 12000, 10, core.Paid},
	}
	for _, p := range payables {
		_, err := r.CreatePayable(ctx, core.Payable{
			UserID:  userID,
			Title:   p.title,
			Amount:  core.Money{Cents: p.cents},
			DueDate: core.NewDate(today.Year(), int(today.Month()), min(today.Day(), p.day)),
			Status:  p.status,
		})
		if err != nil {
			return fmt.Errorf("seed payable: %w", err)
		}
	}

	slog.InfoContext(ctx, "Demo data seeded", "user_id", userID)
	return nil
}
