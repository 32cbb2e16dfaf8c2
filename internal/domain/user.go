package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Step is the user's position in the mandatory onboarding sequence.
type Step int

const (
	StepPersona Step = iota
	StepIncome
	StepBudgetConfirm
	StepComplete
)

// String returns the storage form of a step.
func (s Step) String() string {
	switch s {
	case StepIncome:
		return "income"
	case StepBudgetConfirm:
		return "budget_confirm"
	case StepComplete:
		return "complete"
	default:
		return "persona"
	}
}

// ParseStep maps a stored step string back to a Step. Unknown values fall
// back to the persona step so a corrupt row re-enters onboarding instead of
// wedging the user.
func ParseStep(s string) Step {
	switch s {
	case "income":
		return StepIncome
	case "budget_confirm":
		return StepBudgetConfirm
	case "complete":
		return StepComplete
	default:
		return StepPersona
	}
}

// User represents one WhatsApp sender and their onboarding/ledger settings.
// Users are created lazily on first contact and never deleted.
type User struct {
	ID        string // channel-provided sender address
	PersonaID string // "" until chosen
	Income    *decimal.Decimal
	Currency  string // display symbol, default "RM"
	TZ        string // IANA zone, default Asia/Kuala_Lumpur
	Step      Step
	CreatedAt time.Time // UTC
}

// BudgetLine is one category's allocation and month-to-date spend for a
// given user and calendar month.
type BudgetLine struct {
	UserID     string
	Year       int
	Month      int
	Category   string
	Allocation decimal.Decimal
	Spent      decimal.Decimal
}

// Transaction is one recognized receipt. Rows are append-only.
type Transaction struct {
	UserID     string
	Timestamp  time.Time // zoned to the user's timezone
	Amount     decimal.Decimal
	Merchant   string // lower-cased free text
	Category   string
	Confidence float64 // extraction confidence, 0..1
	ImageURL   string
}

// Inbound is a single event from the messaging channel. An attached image
// wins over text; only the first media reference survives transport parsing.
type Inbound struct {
	From     string
	Body     string
	ImageURL string // "" when no media attached
}

// HasImage reports whether the event carries a receipt photo.
func (in Inbound) HasImage() bool { return in.ImageURL != "" }
