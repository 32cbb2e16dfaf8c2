package conversation

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/persona"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/store"
)

// extractionConfidence is recorded on every transaction; the adapter does
// not report per-call certainty.
const extractionConfidence = 0.9

// handleReceipt runs the extraction → classification → ledger → alert
// pipeline for one receipt photo. Each step has its own failure policy;
// nothing here ever disturbs the user's onboarding step.
func (e *Engine) handleReceipt(ctx context.Context, u *domain.User, in domain.Inbound, reply func(string)) {
	if u.Step != domain.StepComplete {
		// The only receipt path that never consults the extraction adapter.
		reply(setupFirstText)
		reply(personaMenuText)
		return
	}

	rec, err := e.extractor.Extract(ctx, in.ImageURL)
	if err != nil {
		// Adapter declined, timed out, or responded with garbage: degrade
		// to manual entry, never surface the raw failure.
		e.log.Warn("extraction unavailable", zap.Error(err), zap.String("user", u.ID))
		reply(blurReceiptText)
		return
	}
	if !rec.HasAmount() {
		reply(blurReceiptText)
		return
	}

	merchant := strings.ToLower(rec.Merchant)
	category := domain.Classify(merchant)

	amount, err := domain.ParseAmount(rec.Amount)
	if err != nil {
		// Extraction succeeded but produced an unusable amount: hard
		// failure for this run, no partial state committed.
		e.log.Error("unusable extracted amount",
			zap.Error(err), zap.String("user", u.ID), zap.String("raw", rec.Amount))
		reply(receiptErrorText)
		return
	}

	now := e.localNow(u)
	tx := domain.Transaction{
		UserID:     u.ID,
		Timestamp:  now,
		Amount:     amount,
		Merchant:   merchant,
		Category:   category,
		Confidence: extractionConfidence,
		ImageURL:   in.ImageURL,
	}
	if err := e.repo.AddTransaction(ctx, tx); err != nil {
		e.log.Error("record transaction failed", zap.Error(err), zap.String("user", u.ID))
		reply(receiptErrorText)
		return
	}

	// Alert and recommendation are best-effort and independent of each
	// other: a failure in one never suppresses the other.
	e.spendAlert(ctx, u, amount, category, now.Year(), int(now.Month()), reply)
	e.recommendCourse(ctx, u, category, reply)
}

// spendAlert reports the logged amount plus month-to-date standing, with a
// persona flavour line selected by threshold tier.
func (e *Engine) spendAlert(ctx context.Context, u *domain.User, amount decimal.Decimal, category string, year, month int, reply func(string)) {
	line, err := e.repo.BudgetLine(ctx, u.ID, year, month, category)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.log.Error("budget line read failed", zap.Error(err), zap.String("user", u.ID))
		}
		// Never-budgeted category: acknowledge the log only.
		reply(loggedOnlyText(amount, category))
		return
	}

	pct := domain.Pct(line.Spent, line.Allocation)
	msg := spendAlertText(amount, line, pct)

	p := persona.FromID(u.PersonaID)
	if flavour := p.Line(persona.TierFor(pct), category, pct); flavour != "" {
		msg += flavour
	}
	reply(msg)
}
