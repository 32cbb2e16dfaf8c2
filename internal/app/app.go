// Package app wires configuration, storage, the extraction adapter, the
// messaging gateway and the conversation engine into one HTTP-driven process.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/config"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/conversation"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/courses"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/extract"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/store"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/twilio"
)

type App struct {
	cfg    config.Config
	log    *zap.Logger
	repo   store.Repo
	engine *conversation.Engine
	srv    *http.Server
}

func New(cfg config.Config, log *zap.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Run starts the webhook server and blocks until a shutdown signal.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting receipt tracker",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("db", a.cfg.DBPath),
	)

	// Open SQLite and run migrations before any event is processed.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	catalog, err := courses.Load(a.cfg.CoursesCSV)
	if err != nil {
		a.log.Error("course catalog load failed", zap.Error(err))
		return err
	}
	a.log.Info("course catalog loaded", zap.Int("courses", len(catalog)))

	extractor, err := extract.NewGemini(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel, a.cfg.ExtractTimeout, a.log)
	if err != nil {
		a.log.Error("extractor init failed", zap.Error(err))
		return err
	}

	gateway := twilio.NewGateway(a.cfg.TwilioAccountSID, a.cfg.TwilioAuthToken, a.cfg.WhatsAppNumber, a.log)
	a.engine = conversation.New(repo, gateway, extractor, catalog, a.log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/webhook", a.handleWebhook)
	a.srv = &http.Server{
		Addr:        a.cfg.HTTPAddr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		a.log.Error("http server error", zap.Error(err))
		_ = a.repo.Close()
		return err
	case <-ctx.Done():
		a.log.Info("shutdown signal received")

		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := a.srv.Shutdown(shCtx)
		cancel()

		if err != nil {
			a.log.Warn("http server shutdown error", zap.Error(err))
		}
		if a.repo != nil {
			_ = a.repo.Close()
		}
		return nil
	}
}

// handleWebhook processes one inbound Twilio event. The transport is always
// acknowledged with 200: per-event failures are isolated to that event and
// must never surface as webhook errors or retries.
func (a *App) handleWebhook(w http.ResponseWriter, r *http.Request) {
	eventID := uuid.NewString()
	log := a.log.With(zap.String("event_id", eventID))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("webhook panic", zap.Any("panic", rec))
		}
		w.WriteHeader(http.StatusOK)
	}()

	if r.Method != http.MethodPost {
		return
	}

	in, ok := twilio.ParseInbound(r)
	if !ok {
		log.Warn("unparseable webhook form")
		return
	}

	log.Debug("inbound event",
		zap.String("user", in.From),
		zap.Bool("has_image", in.HasImage()),
	)
	a.engine.Handle(r.Context(), in)
}
