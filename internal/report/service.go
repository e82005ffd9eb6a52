// Package report derives monthly figures from raw ledger rows. Every
// function is a pure read over the store: calling it twice without an
// intervening write yields identical results, and nothing is cached.
package report

import (
	"context"
	"fmt"

	"financas/internal/core"
)

// Store is the read-only slice of the repository the engine consumes.
type Store interface {
	ListTransactionsByMonth(ctx context.Context, userID int64, month core.Date) ([]core.Transaction, error)
	ListPayables(ctx context.Context, userID int64) ([]core.Payable, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// MonthlySummary computes the balance picture for the month containing the
// anchor date. The opening balance is fixed at zero; the forecast subtracts
// every payable due inside the same month regardless of paid/pending status.
func (s *Service) MonthlySummary(ctx context.Context, userID int64, month core.Date) (core.MonthlySummary, error) {
	transactions, err := s.store.ListTransactionsByMonth(ctx, userID, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list transactions: %w", err)
	}

	var income, expenses int64
	for _, t := range transactions {
		switch t.Kind {
		case core.Income:
			income += t.Amount.Cents
		case core.Expense:
			expenses += t.Amount.Cents
		}
	}

	payables, err := s.store.ListPayables(ctx, userID)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list payables: %w", err)
	}

	start, end := month.MonthRange()
	var due int64
	for _, p := range payables {
		if !p.DueDate.Before(start.Time) && p.DueDate.Before(end.Time) {
			due += p.Amount.Cents
		}
	}

	current := income - expenses
	return core.MonthlySummary{
		OpeningBalance: core.Money{Cents: 0},
		CurrentBalance: core.Money{Cents: current},
		Forecast:       core.Money{Cents: current - due},
		Income:         core.Money{Cents: income},
		Expenses:       core.Money{Cents: expenses},
	}, nil
}

// CategoryBreakdown totals expense transactions by category for the month.
// Categories without expenses in the month are absent from the map.
func (s *Service) CategoryBreakdown(ctx context.Context, userID int64, month core.Date) (map[string]core.Money, error) {
	transactions, err := s.store.ListTransactionsByMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	breakdown := make(map[string]core.Money)
	for _, t := range transactions {
		if t.Kind != core.Expense {
			continue
		}
		total := breakdown[t.Category]
		total.Cents += t.Amount.Cents
		breakdown[t.Category] = total
	}
	return breakdown, nil
}

// BalanceProgression replays the month's transactions in date order starting
// from zero, one point per transaction. Same-day transactions each produce
// their own point.
func (s *Service) BalanceProgression(ctx context.Context, userID int64, month core.Date) ([]core.BalancePoint, error) {
	transactions, err := s.store.ListTransactionsByMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var balance int64
	points := make([]core.BalancePoint, 0, len(transactions))
	for _, t := range transactions {
		if t.Kind == core.Income {
			balance += t.Amount.Cents
		} else {
			balance -= t.Amount.Cents
		}
		points = append(points, core.BalancePoint{
			Date:    t.OccurredAt,
			Balance: core.Money{Cents: balance},
		})
	}
	return points, nil
}

// MonthlyComparison recomputes the summary for each anchor independently and
// returns one row per input month, in the given order. The typical caller
// supplies the trailing N months oldest-first.
func (s *Service) MonthlyComparison(ctx context.Context, userID int64, months []core.Date) ([]core.ComparisonRow, error) {
	rows := make([]core.ComparisonRow, 0, len(months))
	for _, month := range months {
		summary, err := s.MonthlySummary(ctx, userID, month)
		if err != nil {
			return nil, fmt.Errorf("summary for %s: %w", month.MonthLabel(), err)
		}
		rows = append(rows, core.ComparisonRow{
			Label:    month.MonthLabel(),
			Income:   summary.Income,
			Expenses: summary.Expenses,
		})
	}
	return rows, nil
}
