// Package ledger is the write/read surface for a user's transactions and
// payables. It validates at the boundary, delegates persistence to the
// repository and announces every mutation over the event publisher so the
// presentation layer can rebuild its views.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financas/internal/core"
)

// Store is the slice of the repository the ledger needs.
type Store interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	ListTransactionsByMonth(ctx context.Context, userID int64, month core.Date) ([]core.Transaction, error)
	CreatePayable(ctx context.Context, p core.Payable) (int64, error)
	GetPayable(ctx context.Context, id int64) (*core.Payable, error)
	UpdatePayableStatus(ctx context.Context, id int64, status core.PayableStatus) error
	ListPayables(ctx context.Context, userID int64) ([]core.Payable, error)
}

// Publisher announces mutations. A nil publisher disables events; publish
// failures are logged and never fail the write.
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, userID, transactionID int64, month string) error
	PublishPayableStatusChanged(ctx context.Context, userID, payableID int64) error
}

type Service struct {
	store     Store
	publisher Publisher
}

func NewService(store Store, publisher Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// AddTransaction validates and persists one transaction, returning its id.
// A blank category defaults to "Other"; a negative amount is a caller
// contract violation and is rejected before touching storage.
func (s *Service) AddTransaction(ctx context.Context, userID int64, kind core.TransactionKind, amount core.Money, category string, date core.Date, description string) (int64, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = core.DefaultCategory
	}

	t := core.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Category:    category,
		OccurredAt:  date,
		Description: strings.TrimSpace(description),
		Status:      core.DefaultTransactionStatus,
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionCreated(ctx, userID, id, date.MonthStart().String()); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction event", "id", id, "error", err)
			// The write succeeded; the event is best-effort.
		}
	}

	return id, nil
}

// ListTransactions returns the user's transactions for the month containing
// the anchor date, ascending by occurrence date. Pure read.
func (s *Service) ListTransactions(ctx context.Context, userID int64, month core.Date) ([]core.Transaction, error) {
	return s.store.ListTransactionsByMonth(ctx, userID, month)
}

// AddPayable persists a scheduled obligation with status pending.
func (s *Service) AddPayable(ctx context.Context, userID int64, title string, amount core.Money, dueDate core.Date) (int64, error) {
	p := core.Payable{
		UserID:  userID,
		Title:   strings.TrimSpace(title),
		Amount:  amount,
		DueDate: dueDate,
		Status:  core.Pending,
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.CreatePayable(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("save payable: %w", err)
	}
	return id, nil
}

// UpdatePayableStatus moves a payable between pending and paid. An unknown id
// surfaces storage.ErrNotFound.
func (s *Service) UpdatePayableStatus(ctx context.Context, id int64, status core.PayableStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	p, err := s.store.GetPayable(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePayableStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update payable status: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPayableStatusChanged(ctx, p.UserID, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish payable event", "id", id, "error", err)
		}
	}

	return nil
}

// ListPayables returns every payable of the user, past and future, ascending
// by due date. Pure read.
func (s *Service) ListPayables(ctx context.Context, userID int64) ([]core.Payable, error) {
	return s.store.ListPayables(ctx, userID)
}
