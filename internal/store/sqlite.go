package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/shopspring/decimal"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const (
	defaultCurrency = "RM"
	defaultTZ       = "Asia/Kuala_Lumpur"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single connection: SQLite is a single-writer engine, and one shared
	// connection makes each BEGIN..COMMIT a serialization point for the
	// ledger's read-modify-write updates.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// EnsureUser returns the user row for id, inserting defaults on first contact.
func (r *SQLiteRepo) EnsureUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.getUser(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, created_at) VALUES (?, ?)
		ON CONFLICT(user_id) DO NOTHING`,
		id, now.Unix(),
	)
	if err != nil {
		return nil, err
	}
	return r.getUser(ctx, id)
}

func (r *SQLiteRepo) getUser(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, persona_id, income, currency, tz, onboarding_step, created_at
		FROM users
		WHERE user_id = ?`,
		id,
	)

	var (
		userID    string
		personaID string
		incomeNS  sql.NullString
		currency  string
		tz        string
		step      string
		createdAt int64
	)
	if err := row.Scan(&userID, &personaID, &incomeNS, &currency, &tz, &step, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	income, err := fromNullDec(incomeNS)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = defaultCurrency
	}
	if tz == "" {
		tz = defaultTZ
	}

	return &domain.User{
		ID:        userID,
		PersonaID: personaID,
		Income:    income,
		Currency:  currency,
		TZ:        tz,
		Step:      domain.ParseStep(step),
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}

// SetPersona stores the chosen persona and advances the onboarding step.
func (r *SQLiteRepo) SetPersona(ctx context.Context, id, personaID string, step domain.Step) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET persona_id = ?, onboarding_step = ? WHERE user_id = ?`,
		personaID, step.String(), id,
	)
	return err
}

// SetIncome stores the declared monthly income and advances the step.
func (r *SQLiteRepo) SetIncome(ctx context.Context, id string, income decimal.Decimal, step domain.Step) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET income = ?, onboarding_step = ? WHERE user_id = ?`,
		decToText(income), step.String(), id,
	)
	return err
}

// SetStep updates only the onboarding step.
func (r *SQLiteRepo) SetStep(ctx context.Context, id string, step domain.Step) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET onboarding_step = ? WHERE user_id = ?`,
		step.String(), id,
	)
	return err
}

// ReplaceBudgetLines swaps all budget rows for (user, year, month) in one
// transaction: re-running setup replaces rather than duplicates.
func (r *SQLiteRepo) ReplaceBudgetLines(ctx context.Context, userID string, year, month int, lines []domain.BudgetLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM budgets WHERE user_id = ? AND year = ? AND month = ?`,
		userID, year, month,
	); err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budgets (user_id, year, month, category, allocation, spent)
			VALUES (?, ?, ?, ?, ?, ?)`,
			userID, year, month, l.Category, decToText(l.Allocation), decToText(l.Spent),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// BudgetLine returns one category's budget row or ErrNotFound.
func (r *SQLiteRepo) BudgetLine(ctx context.Context, userID string, year, month int, category string) (*domain.BudgetLine, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT allocation, spent FROM budgets
		WHERE user_id = ? AND year = ? AND month = ? AND category = ?`,
		userID, year, month, category,
	)

	var allocStr, spentStr string
	if err := row.Scan(&allocStr, &spentStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return scanBudgetLine(userID, year, month, category, allocStr, spentStr)
}

// ListBudgetLines returns all budget rows for the month in setup order.
func (r *SQLiteRepo) ListBudgetLines(ctx context.Context, userID string, year, month int) ([]domain.BudgetLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, allocation, spent FROM budgets
		WHERE user_id = ? AND year = ? AND month = ?
		ORDER BY rowid`,
		userID, year, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.BudgetLine
	for rows.Next() {
		var category, allocStr, spentStr string
		if err := rows.Scan(&category, &allocStr, &spentStr); err != nil {
			return nil, err
		}
		l, err := scanBudgetLine(userID, year, month, category, allocStr, spentStr)
		if err != nil {
			return nil, err
		}
		res = append(res, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func scanBudgetLine(userID string, year, month int, category, allocStr, spentStr string) (*domain.BudgetLine, error) {
	alloc, err := textToDec(allocStr)
	if err != nil {
		return nil, err
	}
	spent, err := textToDec(spentStr)
	if err != nil {
		return nil, err
	}
	return &domain.BudgetLine{
		UserID:     userID,
		Year:       year,
		Month:      month,
		Category:   category,
		Allocation: alloc,
		Spent:      spent,
	}, nil
}

// AddTransaction appends the receipt and increments the matching budget row's
// spent within one transaction, so a crash can never leave the transaction
// logged without its spend update. A missing budget row skips the increment.
func (r *SQLiteRepo) AddTransaction(ctx context.Context, t domain.Transaction) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := sqlTx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, ts, amount, merchant, category, confidence, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Timestamp.Unix(), decToText(t.Amount), t.Merchant, t.Category, t.Confidence, t.ImageURL,
	); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	year, month := t.Timestamp.Year(), int(t.Timestamp.Month())

	var spentStr string
	err = sqlTx.QueryRowContext(ctx, `
		SELECT spent FROM budgets
		WHERE user_id = ? AND year = ? AND month = ? AND category = ?`,
		t.UserID, year, month, t.Category,
	).Scan(&spentStr)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No budget row for this category/month: record the transaction only.
		return sqlTx.Commit()
	case err != nil:
		_ = sqlTx.Rollback()
		return err
	}

	spent, err := textToDec(spentStr)
	if err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if _, err := sqlTx.ExecContext(ctx, `
		UPDATE budgets SET spent = ?
		WHERE user_id = ? AND year = ? AND month = ? AND category = ?`,
		decToText(spent.Add(t.Amount)), t.UserID, year, month, t.Category,
	); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	return sqlTx.Commit()
}

// RecentCourseIDs returns up to `limit` course ids recommended to the user,
// most recent first.
func (r *SQLiteRepo) RecentCourseIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT course_id FROM course_history
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddCourseRecommendation appends one recommendation to the history.
func (r *SQLiteRepo) AddCourseRecommendation(ctx context.Context, userID, courseID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO course_history (user_id, course_id, recommended_at)
		VALUES (?, ?, ?)`,
		userID, courseID, time.Now().UTC().Unix(),
	)
	return err
}
