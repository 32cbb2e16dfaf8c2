package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
)

// Repo defines storage operations for users, budgets, transactions and
// course-recommendation history.
type Repo interface {
	// EnsureUser returns the user row for id, creating it with defaults
	// on first contact.
	EnsureUser(ctx context.Context, id string) (*domain.User, error)

	SetPersona(ctx context.Context, id, personaID string, step domain.Step) error
	SetIncome(ctx context.Context, id string, income decimal.Decimal, step domain.Step) error
	SetStep(ctx context.Context, id string, step domain.Step) error

	// ReplaceBudgetLines atomically swaps all of a user's budget rows for
	// the given month: prior rows are deleted and the new ones inserted in
	// one transaction.
	ReplaceBudgetLines(ctx context.Context, userID string, year, month int, lines []domain.BudgetLine) error
	BudgetLine(ctx context.Context, userID string, year, month int, category string) (*domain.BudgetLine, error)
	ListBudgetLines(ctx context.Context, userID string, year, month int) ([]domain.BudgetLine, error)

	// AddTransaction appends the transaction and increments the matching
	// month/category budget row's spent in a single transaction. When no
	// budget row exists the transaction is still recorded and the spend
	// update is skipped.
	AddTransaction(ctx context.Context, tx domain.Transaction) error

	RecentCourseIDs(ctx context.Context, userID string, limit int) ([]string, error)
	AddCourseRecommendation(ctx context.Context, userID, courseID string) error

	Close() error
}
