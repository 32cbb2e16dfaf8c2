// Package extract turns receipt photos into a best-effort amount/merchant
// guess via an image-understanding model.
package extract

import (
	"context"
	"errors"
)

// Receipt is the adapter's best-effort guess. Amount is the raw extracted
// value; it may be non-numeric and must be validated by the caller.
type Receipt struct {
	Amount   string // "" when the model produced no amount
	Merchant string
}

// HasAmount reports whether the adapter produced an amount field at all.
func (r Receipt) HasAmount() bool { return r.Amount != "" }

// ErrNoData means the adapter could not produce any usable structure:
// unreachable service, timeout, or a response with no recognizable fields.
var ErrNoData = errors.New("no receipt data extracted")

// Extractor is the external image-understanding capability.
type Extractor interface {
	Extract(ctx context.Context, imageURL string) (Receipt, error)
}
