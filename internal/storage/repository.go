package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financas/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository owns the database handle for its lifetime. Every mutating
// operation executes as a single statement, so the engine's transaction
// isolation is the only coordination callers get.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a user and returns the assigned id. A duplicate email
// comes back as ErrDuplicate so the caller can turn it into a business
// outcome instead of a failure.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "email", email)
	return id, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		u.CreatedAt = ts
	}
	return &u, nil
}

// CreateTransaction persists a validated transaction and returns its id.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, kind, amount, category, occurred_at, description, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, string(t.Kind), t.Amount.Cents, t.Category, t.OccurredAt.String(), t.Description, t.Status)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", t.UserID,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents,
		"occurred_at", t.OccurredAt.String())

	return id, nil
}

// ListTransactionsByMonth returns the user's transactions inside the half-open
// [start-of-month, start-of-next-month) range, ascending by occurrence date.
// ISO dates sort lexicographically, so the range comparison happens in SQL.
func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, userID int64, month core.Date) ([]core.Transaction, error) {
	start, end := month.MonthRange()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, amount, category, occurred_at, description, status
		 FROM transactions
		 WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
		 ORDER BY occurred_at ASC, id ASC`,
		userID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t          core.Transaction
			kind       string
			occurredAt string
			desc       sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &kind, &t.Amount.Cents, &t.Category, &occurredAt, &desc, &t.Status); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.TransactionKind(kind)
		t.Description = desc.String
		d, err := core.ParseDate(occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", occurredAt, err)
		}
		t.OccurredAt = d
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// CreatePayable persists a validated payable and returns its id.
func (r *SQLiteRepository) CreatePayable(ctx context.Context, p core.Payable) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts_payable (user_id, title, amount, due_date, status)
		 VALUES (?, ?, ?, ?, ?)`,
		p.UserID, p.Title, p.Amount.Cents, p.DueDate.String(), string(p.Status))
	if err != nil {
		return 0, fmt.Errorf("insert payable: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payable last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Payable saved",
		"id", id,
		"user_id", p.UserID,
		"title", p.Title,
		"due_date", p.DueDate.String())

	return id, nil
}

// GetPayable retrieves a single payable by id.
func (r *SQLiteRepository) GetPayable(ctx context.Context, id int64) (*core.Payable, error) {
	var (
		p       core.Payable
		dueDate string
		status  string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, amount, due_date, status FROM accounts_payable WHERE id = ?`, id).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Amount.Cents, &dueDate, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payable: %w", err)
	}
	d, err := core.ParseDate(dueDate)
	if err != nil {
		return nil, fmt.Errorf("parse due_date %q: %w", dueDate, err)
	}
	p.DueDate = d
	p.Status = core.PayableStatus(status)
	return &p, nil
}

// UpdatePayableStatus overwrites the status of one payable. An unknown id is
// reported as ErrNotFound rather than succeeding silently.
func (r *SQLiteRepository) UpdatePayableStatus(ctx context.Context, id int64, status core.PayableStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts_payable SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update payable status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("payable rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Payable status updated", "id", id, "status", status)
	return nil
}

// ListPayables returns every payable owned by the user, past and future,
// ascending by due date.
func (r *SQLiteRepository) ListPayables(ctx context.Context, userID int64) ([]core.Payable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, amount, due_date, status
		 FROM accounts_payable
		 WHERE user_id = ?
		 ORDER BY due_date ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query payables: %w", err)
	}
	defer rows.Close()

	var out []core.Payable
	for rows.Next() {
		var (
			p       core.Payable
			dueDate string
			status  string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Amount.Cents, &dueDate, &status); err != nil {
			return nil, fmt.Errorf("scan payable: %w", err)
		}
		d, err := core.ParseDate(dueDate)
		if err != nil {
			return nil, fmt.Errorf("parse due_date %q: %w", dueDate, err)
		}
		p.DueDate = d
		p.Status = core.PayableStatus(status)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payables: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}
