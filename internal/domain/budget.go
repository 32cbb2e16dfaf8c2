package domain

import "github.com/shopspring/decimal"

// Allocation is one category's share of monthly income.
type Allocation struct {
	Category string
	Fraction decimal.Decimal
}

// Allocations is the fixed category split applied on budget confirmation.
// Fractions sum to exactly 1.00.
var Allocations = []Allocation{
	{"Groceries", decimal.NewFromFloat(0.20)},
	{"Transport", decimal.NewFromFloat(0.15)},
	{"Bills", decimal.NewFromFloat(0.15)},
	{"Eating Out", decimal.NewFromFloat(0.15)},
	{"Shopping", decimal.NewFromFloat(0.10)},
	{"Entertainment", decimal.NewFromFloat(0.05)},
	{"Savings", decimal.NewFromFloat(0.20)},
}

// Split503020 is the onboarding preview shown before confirmation:
// essentials/wants/savings as 50/30/20 of income.
func Split503020(income decimal.Decimal) (essentials, wants, savings decimal.Decimal) {
	essentials = income.Mul(decimal.NewFromFloat(0.5))
	wants = income.Mul(decimal.NewFromFloat(0.3))
	savings = income.Mul(decimal.NewFromFloat(0.2))
	return essentials, wants, savings
}

// BudgetLinesFor derives the month's budget rows from a confirmed income.
// Spent starts at zero; the caller decides the month and year.
func BudgetLinesFor(userID string, year, month int, income decimal.Decimal) []BudgetLine {
	lines := make([]BudgetLine, 0, len(Allocations))
	for _, a := range Allocations {
		lines = append(lines, BudgetLine{
			UserID:     userID,
			Year:       year,
			Month:      month,
			Category:   a.Category,
			Allocation: income.Mul(a.Fraction),
			Spent:      decimal.Zero,
		})
	}
	return lines
}
