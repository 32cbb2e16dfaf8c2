package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplit503020(t *testing.T) {
	income := decimal.RequireFromString("3000")
	essentials, wants, savings := Split503020(income)
	if essentials.String() != "1500" {
		t.Fatalf("essentials: want 1500, got %s", essentials)
	}
	if wants.String() != "900" {
		t.Fatalf("wants: want 900, got %s", wants)
	}
	if savings.String() != "600" {
		t.Fatalf("savings: want 600, got %s", savings)
	}
}

func TestBudgetLinesFor_SumEqualsIncome(t *testing.T) {
	income := decimal.RequireFromString("3000")
	lines := BudgetLinesFor("u1", 2026, 8, income)
	if len(lines) != 7 {
		t.Fatalf("want 7 lines, got %d", len(lines))
	}

	sum := decimal.Zero
	byCat := map[string]decimal.Decimal{}
	for _, l := range lines {
		sum = sum.Add(l.Allocation)
		byCat[l.Category] = l.Allocation
		if !l.Spent.IsZero() {
			t.Fatalf("%s: spent should start at zero, got %s", l.Category, l.Spent)
		}
	}
	if !sum.Equal(income) {
		t.Fatalf("allocations must sum to income: want 3000, got %s", sum)
	}
	if got := byCat["Groceries"]; got.String() != "600" {
		t.Fatalf("Groceries: want 600, got %s", got)
	}
	if got := byCat["Transport"]; got.String() != "450" {
		t.Fatalf("Transport: want 450, got %s", got)
	}
	if got := byCat["Savings"]; got.String() != "600" {
		t.Fatalf("Savings: want 600, got %s", got)
	}
}
