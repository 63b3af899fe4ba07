package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"wanderer-acl-sync/internal/adapters/discord"
	"wanderer-acl-sync/internal/adapters/storage/postgres"
	"wanderer-acl-sync/internal/adapters/wanderer"
	"wanderer-acl-sync/internal/config"
	"wanderer-acl-sync/internal/core/ports"
	"wanderer-acl-sync/internal/core/services/sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	config        *config.Config
	store         *postgres.PostgresStore
	syncService   *sync.Service
	metricsServer *http.Server
	syncCtx       context.Context
	syncCancel    context.CancelFunc
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to storage", "error", err)
		return nil, err
	}

	client := wanderer.NewClient(cfg)

	var notifier ports.NotificationService
	if cfg.DiscordWebhookURL != "" {
		n, err := discord.NewNotifier(cfg.DiscordWebhookURL)
		if err != nil {
			slog.Error("Failed to configure discord notifier", "error", err)
			store.Close()
			return nil, err
		}
		notifier = n
	} else {
		slog.Info("DISCORD_WEBHOOK_URL not set, failure notifications disabled")
	}

	syncService := sync.NewService(sync.Dependencies{
		Config:   cfg,
		Storage:  store,
		Client:   client,
		Feed:     store,
		Notifier: notifier,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &App{
		config:      cfg,
		store:       store,
		syncService: syncService,
		metricsServer: &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: mux,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("Metrics server listening", "addr", a.config.MetricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	a.syncCtx, a.syncCancel = context.WithCancel(context.Background())
	go a.syncService.Start(a.syncCtx)

	slog.Info("Wanderer ACL sync is online")
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")

	if a.syncCancel != nil {
		a.syncCancel()
	}

	var err error
	if a.metricsServer != nil {
		err = a.metricsServer.Shutdown(ctx)
	}

	if a.store != nil {
		a.store.Close()
	}

	return err
}
