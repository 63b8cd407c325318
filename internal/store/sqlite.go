package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/cleared-dev/spendsync/internal/model"
)

const expenseColumns = `id, description, category, amount, month, year,
	installment_index, installment_total, paid, referenced_to, user_id, card_id`

var _ Store = (*SQLite)(nil)

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

// OpenSQLite opens (or creates) the database at path and ensures the
// schema exists.
func OpenSQLite(path string, logger logrus.FieldLogger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	logger.WithField("path", path).Debug("expense store opened")
	return s, nil
}

func (s *SQLite) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS expenses (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			amount TEXT NOT NULL,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			installment_index INTEGER NOT NULL DEFAULT 0,
			installment_total INTEGER NOT NULL DEFAULT 0,
			paid INTEGER NOT NULL DEFAULT 0,
			referenced_to TEXT NOT NULL DEFAULT '',
			user_id TEXT NOT NULL DEFAULT '',
			card_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating expenses table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expenses_period ON expenses(user_id, year, month)
	`)
	if err != nil {
		return fmt.Errorf("creating expenses index: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (model.StoredExpense, error) {
	var e model.StoredExpense
	err := row.Scan(&e.ID, &e.Description, &e.Category, &e.Amount, &e.Month, &e.Year,
		&e.InstallmentIndex, &e.InstallmentTotal, &e.Paid, &e.ReferencedTo, &e.UserID, &e.CardID)
	return e, err
}

func (s *SQLite) query(ctx context.Context, q string, args ...any) ([]model.StoredExpense, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer rows.Close()

	var out []model.StoredExpense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading expenses: %w", err)
	}
	return out, nil
}

func (s *SQLite) FindByPeriod(ctx context.Context, month, year int, userID string) ([]model.StoredExpense, error) {
	return s.query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE month = ? AND year = ? AND user_id = ?
		ORDER BY seq
	`, month, year, userID)
}

func (s *SQLite) FindByCategory(ctx context.Context, category, userID string) ([]model.StoredExpense, error) {
	return s.query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE lower(category) = lower(?) AND user_id = ?
		ORDER BY year, month, seq
	`, category, userID)
}

func (s *SQLite) FindByMonthYear(ctx context.Context, q Query) (Page, error) {
	where := `WHERE month = ? AND year = ? AND user_id = ?`
	args := []any{q.Month, q.Year, q.UserID}
	if q.Paid != nil {
		where += ` AND paid = ?`
		args = append(args, *q.Paid)
	}
	if q.ExcludeCategory != "" {
		where += ` AND lower(category) <> lower(?)`
		args = append(args, q.ExcludeCategory)
	}

	var page Page
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses `+where, args...).Scan(&page.Total); err != nil {
		return Page{}, fmt.Errorf("counting expenses: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	items, err := s.query(ctx, `SELECT `+expenseColumns+` FROM expenses `+where+
		` ORDER BY seq LIMIT ? OFFSET ?`, append(args, limit, max(q.Offset, 0))...)
	if err != nil {
		return Page{}, err
	}
	page.Items = items
	return page, nil
}

func (s *SQLite) SaveAll(ctx context.Context, records []model.Expense) ([]model.StoredExpense, error) {
	stored, err := prepare(records)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return stored, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range stored {
		_, err := stmt.ExecContext(ctx, e.ID, e.Description, e.Category, e.Amount, e.Month, e.Year,
			e.InstallmentIndex, e.InstallmentTotal, e.Paid, e.ReferencedTo, e.UserID, e.CardID)
		if err != nil {
			return nil, fmt.Errorf("inserting %q: %w", e.Description, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing expenses: %w", err)
	}

	s.logger.WithField("count", len(stored)).Debug("expenses saved")
	return stored, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (model.StoredExpense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StoredExpense{}, ErrNotFound
	}
	if err != nil {
		return model.StoredExpense{}, fmt.Errorf("loading expense %s: %w", id, err)
	}
	return e, nil
}

func (s *SQLite) exec(ctx context.Context, q string, args ...any) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	if err := s.exec(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting expense %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) MarkPaid(ctx context.Context, id string, paid bool) error {
	if err := s.exec(ctx, `UPDATE expenses SET paid = ? WHERE id = ?`, paid, id); err != nil {
		return fmt.Errorf("updating expense %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
