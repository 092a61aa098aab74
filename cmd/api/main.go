package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/guestlist-api/internal/config"
	"github.com/gravadigital/guestlist-api/internal/logger"
	"github.com/gravadigital/guestlist-api/internal/notify"
	"github.com/gravadigital/guestlist-api/internal/rsvp"
	"github.com/gravadigital/guestlist-api/internal/server"
	"github.com/gravadigital/guestlist-api/internal/storage/memory"
	"github.com/gravadigital/guestlist-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Service("api")

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	gateway := postgres.NewEventRepository(db)

	// Without a configured gateway URL every delivery is dropped: views
	// stay unpublished and confirmation refs stay absent.
	var notifier notify.Notifier
	if cfg.Notifier.GatewayURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notifier.GatewayURL, cfg.Notifier.Timeout)
		log.Info("Using webhook notifier", "gateway_url", cfg.Notifier.GatewayURL)
	} else {
		notifier = notify.Discard{}
		log.Warn("NOTIFIER_GATEWAY_URL not set, dropping all notifications")
	}

	svc := rsvp.NewService(memory.NewStore(), gateway, notify.NewReconciler(notifier))

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.LoadFromGateway(loadCtx); err != nil {
		cancel()
		log.Error("Failed to load events from database", "error", err)
		os.Exit(1)
	}
	cancel()

	srv := server.New(cfg, db, svc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited cleanly")
}
