package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/app"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/config"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	// Ensure logger flush; ignore sync error (common on some platforms).
	defer func() { _ = log.Sync() }()

	application := app.New(cfg, log)
	if err := application.Run(context.Background()); err != nil {
		log.Fatal("app run failed", zap.Error(err))
	}
}
