package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseIncome_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"3000", "3000"},
		{"RM3,000", "3000"},
		{"rm 2,500.50", "2500.5"},
		{"  RM 0  ", "0"},
		{"1234.56", "1234.56"},
	}
	for _, c := range cases {
		got, err := ParseIncome(c.in)
		if err != nil {
			t.Fatalf("ParseIncome(%q): unexpected error %v", c.in, err)
		}
		if got.String() != c.want {
			t.Fatalf("ParseIncome(%q): want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestParseIncome_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "RM", "abc", "3k", "-200", "RM-1"} {
		if _, err := ParseIncome(in); err == nil {
			t.Fatalf("ParseIncome(%q): expected error", in)
		}
	}
}

func TestParseAmount_RejectsNonPositive(t *testing.T) {
	if _, err := ParseAmount("0"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("zero amount: want ErrNegativeAmount, got %v", err)
	}
	if _, err := ParseAmount("-5.50"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative amount: want ErrNegativeAmount, got %v", err)
	}
	if _, err := ParseAmount("twenty"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("non-numeric amount: want ErrInvalidAmount, got %v", err)
	}
}

func TestPct(t *testing.T) {
	cases := []struct {
		spent, alloc string
		want         int
	}{
		{"95", "100", 95},
		{"110", "100", 110},
		{"50", "100", 50},
		{"75", "100", 75},
		{"1", "3", 33}, // floor, not round
		{"10", "0", 0}, // zero allocation guard
	}
	for _, c := range cases {
		spent := decimal.RequireFromString(c.spent)
		alloc := decimal.RequireFromString(c.alloc)
		if got := Pct(spent, alloc); got != c.want {
			t.Fatalf("Pct(%s/%s): want %d, got %d", c.spent, c.alloc, c.want, got)
		}
	}
}

func TestFormatRM(t *testing.T) {
	if got := FormatRM(decimal.RequireFromString("3000")); got != "RM3000.00" {
		t.Fatalf("want RM3000.00, got %s", got)
	}
}
