package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"

	Pending PayableStatus = "pending"
	Paid    PayableStatus = "paid"

	// DefaultCategory is assigned when a transaction is created with a blank category.
	DefaultCategory = "Other"

	// DefaultTransactionStatus is stored on every new transaction. The column is
	// free text and currently unused beyond storage.
	DefaultTransactionStatus = "normal"
)

type (
	TransactionKind string
	PayableStatus   string

	// Date is a calendar date without a time component. Dates are UTC midnight
	// internally and serialize as ISO-8601 (2006-01-02).
	Date struct {
		time.Time
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Transaction struct {
		ID          int64
		UserID      int64
		Kind        TransactionKind
		Amount      Money
		Category    string
		OccurredAt  Date
		Description string
		Status      string
	}

	Payable struct {
		ID      int64
		UserID  int64
		Title   string
		Amount  Money
		DueDate Date
		Status  PayableStatus
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidStatus = errors.New("invalid payable status")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrEmptyPassword = errors.New("empty password")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the ISO-8601 calendar date.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthStart returns the first day of the month containing d. The day
// component of a month anchor is ignored everywhere ranges are derived.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// MonthRange returns the half-open [start-of-month, start-of-next-month)
// range containing d.
func (d Date) MonthRange() (Date, Date) {
	start := d.MonthStart()
	return start, Date{Time: start.AddDate(0, 1, 0)}
}

// MonthLabel renders the short month label used in comparison rows, e.g. "Jan/2026".
func (d Date) MonthLabel() string {
	return d.Format("Jan/2006")
}

// MonthTitle renders the long month label used in report headers, e.g. "January/2026".
func (d Date) MonthTitle() string {
	return d.Format("January/2006")
}

// TrailingMonths returns n month anchors ending at the month containing d,
// oldest first. This is the shape MonthlyComparison callers typically supply.
func TrailingMonths(d Date, n int) []Date {
	if n < 1 {
		return nil
	}
	months := make([]Date, n)
	start := d.MonthStart()
	for i := 0; i < n; i++ {
		months[n-1-i] = Date{Time: start.AddDate(0, -i, 0)}
	}
	return months
}

func (k TransactionKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (s PayableStatus) Validate() error {
	switch s {
	case Pending, Paid:
		return nil
	}
	return ErrInvalidStatus
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.OccurredAt.Validate()
}

func (p Payable) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.DueDate.Validate(); err != nil {
		return err
	}
	return p.Status.Validate()
}
