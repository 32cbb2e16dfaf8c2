package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestEnsureUser_CreatesWithDefaults(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	u, err := repo.EnsureUser(ctx, "+60123456789")
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	if u.Step != domain.StepPersona {
		t.Fatalf("new user step: want persona, got %v", u.Step)
	}
	if u.Currency != "RM" || u.TZ != "Asia/Kuala_Lumpur" {
		t.Fatalf("defaults wrong: %q %q", u.Currency, u.TZ)
	}
	if u.Income != nil {
		t.Fatalf("new user income should be nil")
	}

	// Second call must return the same row, not recreate it.
	again, err := repo.EnsureUser(ctx, "+60123456789")
	if err != nil {
		t.Fatalf("EnsureUser again: %v", err)
	}
	if !again.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("user recreated: %v vs %v", again.CreatedAt, u.CreatedAt)
	}
}

func TestOnboardingUpdates(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.EnsureUser(ctx, "u1"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	if err := repo.SetPersona(ctx, "u1", "2", domain.StepIncome); err != nil {
		t.Fatalf("SetPersona: %v", err)
	}
	if err := repo.SetIncome(ctx, "u1", dec(t, "3000"), domain.StepBudgetConfirm); err != nil {
		t.Fatalf("SetIncome: %v", err)
	}

	u, err := repo.EnsureUser(ctx, "u1")
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	if u.PersonaID != "2" || u.Step != domain.StepBudgetConfirm {
		t.Fatalf("unexpected user: persona=%q step=%v", u.PersonaID, u.Step)
	}
	if u.Income == nil || !u.Income.Equal(dec(t, "3000")) {
		t.Fatalf("income not stored: %v", u.Income)
	}
}

func TestReplaceBudgetLines_ReplacesNotDuplicates(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	lines := domain.BudgetLinesFor("u1", 2026, 8, dec(t, "3000"))
	if err := repo.ReplaceBudgetLines(ctx, "u1", 2026, 8, lines); err != nil {
		t.Fatalf("ReplaceBudgetLines: %v", err)
	}
	// Re-run with a different income for the same month.
	lines = domain.BudgetLinesFor("u1", 2026, 8, dec(t, "4000"))
	if err := repo.ReplaceBudgetLines(ctx, "u1", 2026, 8, lines); err != nil {
		t.Fatalf("ReplaceBudgetLines again: %v", err)
	}

	got, err := repo.ListBudgetLines(ctx, "u1", 2026, 8)
	if err != nil {
		t.Fatalf("ListBudgetLines: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("want 7 rows after replace, got %d", len(got))
	}
	sum := decimal.Zero
	for _, l := range got {
		sum = sum.Add(l.Allocation)
	}
	if !sum.Equal(dec(t, "4000")) {
		t.Fatalf("allocations should reflect the re-run: want 4000, got %s", sum)
	}
}

func TestAddTransaction_IncrementsSpentAtomically(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	lines := []domain.BudgetLine{{
		UserID: "u1", Year: 2026, Month: 8,
		Category: "Eating Out", Allocation: dec(t, "100"), Spent: dec(t, "45"),
	}}
	if err := repo.ReplaceBudgetLines(ctx, "u1", 2026, 8, lines); err != nil {
		t.Fatalf("ReplaceBudgetLines: %v", err)
	}

	err := repo.AddTransaction(ctx, domain.Transaction{
		UserID: "u1", Timestamp: ts, Amount: dec(t, "50"),
		Merchant: "kfc sunway", Category: "Eating Out", Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	l, err := repo.BudgetLine(ctx, "u1", 2026, 8, "Eating Out")
	if err != nil {
		t.Fatalf("BudgetLine: %v", err)
	}
	if !l.Spent.Equal(dec(t, "95")) {
		t.Fatalf("spent: want 95, got %s", l.Spent)
	}
}

func TestAddTransaction_NoBudgetRow(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	// No budget rows at all: the transaction must still be recorded and the
	// missing budget row must not be an error.
	err := repo.AddTransaction(ctx, domain.Transaction{
		UserID: "u1", Timestamp: ts, Amount: dec(t, "20"),
		Merchant: "mystery shop", Category: "Shopping", Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if _, err := repo.BudgetLine(ctx, "u1", 2026, 8, "Shopping"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing budget row, got %v", err)
	}
}

func TestRecentCourseIDs_WindowAndOrder(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6"} {
		if err := repo.AddCourseRecommendation(ctx, "u1", id); err != nil {
			t.Fatalf("AddCourseRecommendation(%s): %v", id, err)
		}
	}

	ids, err := repo.RecentCourseIDs(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("RecentCourseIDs: %v", err)
	}
	want := []string{"c6", "c5", "c4", "c3", "c2"}
	if len(ids) != len(want) {
		t.Fatalf("want %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids[%d]: want %s, got %s", i, want[i], ids[i])
		}
	}
}
