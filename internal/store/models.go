package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money columns are stored as decimal strings to keep ledger math exact;
// SQLite REAL would silently round sums.

func decToText(d decimal.Decimal) string {
	return d.String()
}

func textToDec(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad decimal column %q: %w", s, err)
	}
	return d, nil
}

func fromNullDec(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := textToDec(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
