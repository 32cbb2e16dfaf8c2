package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAmount    = errors.New("empty amount")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("negative amount")
)

// CurrencyPrefix is the symbol users may type in front of amounts.
const CurrencyPrefix = "RM"

// ParseIncome parses a user-typed monthly income like "RM3,000", "3000"
// or "rm 2,500.50" into a non-negative decimal. The currency prefix and
// thousand separators are stripped before parsing.
func ParseIncome(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	up := strings.ToUpper(s)
	if strings.HasPrefix(up, CurrencyPrefix) {
		s = strings.TrimSpace(s[len(CurrencyPrefix):])
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// ParseAmount coerces an extracted receipt amount into a positive decimal.
// Unlike income, a zero or negative receipt total is not usable.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FormatRM renders an amount as the user sees it, e.g. "RM3000.00".
func FormatRM(d decimal.Decimal) string {
	return CurrencyPrefix + d.StringFixed(2)
}

// Pct returns floor(100 * spent / allocation) as an integer percentage,
// or 0 when the allocation is zero.
func Pct(spent, allocation decimal.Decimal) int {
	if allocation.IsZero() {
		return 0
	}
	return int(spent.Mul(decimal.NewFromInt(100)).Div(allocation).IntPart())
}
