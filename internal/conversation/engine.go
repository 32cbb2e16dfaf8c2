// Package conversation implements the per-user state machine: onboarding,
// command dispatch, receipt handling, spend alerts and course
// recommendations.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/courses"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/extract"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/persona"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/store"
)

// Gateway delivers outbound text. Failures are logged, never retried, and
// never unwind ledger mutations already committed.
type Gateway interface {
	SendText(to, body string) error
}

// Engine consumes inbound events and produces ledger mutations plus zero or
// more outbound messages. Events for the same user are serialized; different
// users never block each other.
type Engine struct {
	log       *zap.Logger
	repo      store.Repo
	gateway   Gateway
	extractor extract.Extractor
	catalog   courses.Catalog

	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds an Engine.
func New(repo store.Repo, gateway Gateway, extractor extract.Extractor, catalog courses.Catalog, log *zap.Logger) *Engine {
	return &Engine{
		log:       log,
		repo:      repo,
		gateway:   gateway,
		extractor: extractor,
		catalog:   catalog,
		now:       time.Now,
		locks:     map[string]*sync.Mutex{},
	}
}

// userLock returns the mutex serializing events for one user. Locks are kept
// for the process lifetime; the user population of a single bot instance is
// small enough that we never reap them.
func (e *Engine) userLock(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// Handle processes one inbound event to completion and returns the outbound
// messages produced. Messages are also delivered through the Gateway; the
// return value exists so the state machine is testable without a live
// transport.
func (e *Engine) Handle(ctx context.Context, in domain.Inbound) []string {
	lock := e.userLock(in.From)
	lock.Lock()
	defer lock.Unlock()

	u, err := e.repo.EnsureUser(ctx, in.From)
	if err != nil {
		// Top-level fault: acknowledge the event with no user-visible reply.
		e.log.Error("ensure user failed", zap.Error(err), zap.String("user", in.From))
		return nil
	}

	var replies []string
	reply := func(msg string) { replies = append(replies, msg) }

	// Dispatch order per onboarding state first, then event type, then
	// command keyword. First match wins.
	switch {
	case u.Step == domain.StepPersona:
		e.handlePersonaSelection(ctx, u, in, reply)
	case u.Step == domain.StepIncome:
		e.handleIncomeInput(ctx, u, in, reply)
	case u.Step == domain.StepBudgetConfirm:
		e.handleBudgetConfirmation(ctx, u, in, reply)
	case in.HasImage():
		e.handleReceipt(ctx, u, in, reply)
	default:
		e.handleCommand(ctx, u, in, reply)
	}

	for _, msg := range replies {
		// A lost reply does not fail the event.
		_ = e.gateway.SendText(in.From, msg)
	}
	return replies
}

// handlePersonaSelection accepts exactly the tokens "1".."4". Anything else,
// images included, re-sends the menu without advancing state.
func (e *Engine) handlePersonaSelection(ctx context.Context, u *domain.User, in domain.Inbound, reply func(string)) {
	token := strings.TrimSpace(in.Body)
	if in.HasImage() {
		token = ""
	}

	p, ok := persona.FromToken(token)
	if !ok {
		reply(personaMenuText)
		return
	}

	if err := e.repo.SetPersona(ctx, u.ID, p.Token(), domain.StepIncome); err != nil {
		e.log.Error("persist persona failed", zap.Error(err), zap.String("user", u.ID))
		return
	}
	reply(personaActivatedText(p))
}

// handleIncomeInput parses the declared income; failure re-prompts without
// advancing state.
func (e *Engine) handleIncomeInput(ctx context.Context, u *domain.User, in domain.Inbound, reply func(string)) {
	body := in.Body
	if in.HasImage() {
		body = ""
	}

	income, err := domain.ParseIncome(body)
	if err != nil {
		reply(incomeRepromptText)
		return
	}

	if err := e.repo.SetIncome(ctx, u.ID, income, domain.StepBudgetConfirm); err != nil {
		e.log.Error("persist income failed", zap.Error(err), zap.String("user", u.ID))
		return
	}

	essentials, wants, savings := domain.Split503020(income)
	reply(budgetPreviewText(income, essentials, wants, savings))
}

// handleBudgetConfirmation sets up the month's allocations on "OK"; any
// other input regresses the user to the income step.
func (e *Engine) handleBudgetConfirmation(ctx context.Context, u *domain.User, in domain.Inbound, reply func(string)) {
	if !strings.EqualFold(strings.TrimSpace(in.Body), "OK") {
		if err := e.repo.SetStep(ctx, u.ID, domain.StepIncome); err != nil {
			e.log.Error("regress step failed", zap.Error(err), zap.String("user", u.ID))
			return
		}
		reply(restartIncomeText)
		return
	}

	if u.Income == nil {
		// Should not happen at this step; restart the income flow.
		if err := e.repo.SetStep(ctx, u.ID, domain.StepIncome); err != nil {
			e.log.Error("regress step failed", zap.Error(err), zap.String("user", u.ID))
			return
		}
		reply(restartIncomeText)
		return
	}

	now := e.localNow(u)
	lines := domain.BudgetLinesFor(u.ID, now.Year(), int(now.Month()), *u.Income)
	if err := e.repo.ReplaceBudgetLines(ctx, u.ID, now.Year(), int(now.Month()), lines); err != nil {
		e.log.Error("replace budget lines failed", zap.Error(err), zap.String("user", u.ID))
		return
	}
	if err := e.repo.SetStep(ctx, u.ID, domain.StepComplete); err != nil {
		e.log.Error("complete step failed", zap.Error(err), zap.String("user", u.ID))
		return
	}
	reply(setupDoneText)
}

// handleCommand dispatches post-onboarding text against the fixed keyword
// set, case-insensitively.
func (e *Engine) handleCommand(ctx context.Context, u *domain.User, in domain.Inbound, reply func(string)) {
	switch strings.ToUpper(strings.TrimSpace(in.Body)) {
	case "HELP":
		reply(helpText)
	case "SUMMARY":
		e.handleSummary(ctx, u, reply)
	case "PERSONA":
		if err := e.repo.SetStep(ctx, u.ID, domain.StepPersona); err != nil {
			e.log.Error("persona reset failed", zap.Error(err), zap.String("user", u.ID))
			return
		}
		reply(personaMenuText)
	case "COURSES":
		e.handleCourses(ctx, u, reply)
	default:
		reply(notUnderstoodText)
	}
}

// handleSummary renders the current month's budget lines.
func (e *Engine) handleSummary(ctx context.Context, u *domain.User, reply func(string)) {
	now := e.localNow(u)
	lines, err := e.repo.ListBudgetLines(ctx, u.ID, now.Year(), int(now.Month()))
	if err != nil {
		e.log.Error("list budget lines failed", zap.Error(err), zap.String("user", u.ID))
		return
	}
	if len(lines) == 0 {
		reply(noBudgetText)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summary %s\n\n", now.Format("January 2006"))
	for _, l := range lines {
		pct := domain.Pct(l.Spent, l.Allocation)
		fmt.Fprintf(&b, "%s: %s/%s (%d%%)\n",
			l.Category, domain.FormatRM(l.Spent), domain.FormatRM(l.Allocation), pct)
	}
	reply(b.String())
}

// localNow returns the current time in the user's timezone, falling back to
// UTC when the stored zone is invalid.
func (e *Engine) localNow(u *domain.User) time.Time {
	loc, err := time.LoadLocation(u.TZ)
	if err != nil {
		e.log.Warn("invalid user timezone", zap.String("tz", u.TZ), zap.String("user", u.ID))
		loc = time.UTC
	}
	return e.now().In(loc)
}
