package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/trakaido/trakaido-backend/internal/auth"
	"github.com/trakaido/trakaido-backend/internal/config"
	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/selection"
	"github.com/trakaido/trakaido-backend/internal/service/choices"
	"github.com/trakaido/trakaido-backend/internal/service/journey"
	"github.com/trakaido/trakaido-backend/internal/service/settings"
	"github.com/trakaido/trakaido-backend/internal/service/stats"
	"github.com/trakaido/trakaido-backend/internal/storage"
	"github.com/trakaido/trakaido-backend/internal/storage/local"
	"github.com/trakaido/trakaido-backend/internal/storage/remote"
	"github.com/trakaido/trakaido-backend/internal/transport/rest"
	"github.com/trakaido/trakaido-backend/internal/wordlist"
)

// Run is the application entry point. It loads configuration, wires storage
// backends, services and the REST router, then serves HTTP until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// Storage backends.
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.LocalPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	localStore, err := local.Open(cfg.Storage.LocalPath)
	if err != nil {
		return err
	}
	defer localStore.Close()

	remoteStore := remote.New(logger, remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		Token:          cfg.Remote.Token,
		AttemptTimeout: cfg.Remote.AttemptTimeout,
		RetryBackoff:   cfg.Remote.RetryBackoff,
		MaxRetries:     cfg.Remote.MaxRetries,
	})

	// The persisted mode flag wins over the configured default.
	mode := settings.LoadPersistedMode(ctx, localStore, domain.StorageMode(cfg.Storage.DefaultMode))
	registry := storage.NewModeRegistry(logger, mode, localStore, remoteStore)

	// Services.
	statsSvc := stats.NewService(logger, registry)
	choicesSvc := choices.NewService(logger, registry)

	catalog, err := wordlist.Load()
	if err != nil {
		return err
	}

	policy := selection.NewHistoryPolicy(selection.PolicyConfig{
		UnseenWeight:   cfg.Journey.UnseenWeight,
		BaseWeight:     cfg.Journey.BaseWeight,
		IncorrectBoost: cfg.Journey.IncorrectBoost,
		CorrectDamping: cfg.Journey.CorrectDamping,
		RecencyWindow:  cfg.Journey.RecencyWindow,
		StaleBoost:     cfg.Journey.StaleBoost,
		MinWeight:      cfg.Journey.MinWeight,
	})
	journeySvc := journey.NewService(logger, statsSvc, choicesSvc, catalog, policy)

	// Choice edits change which words are eligible, so the sampling
	// universe is rebuilt on the next round.
	choicesSvc.AddListener(func(domain.CorpusChoices) {
		journeySvc.InvalidateUniverse()
	})

	settingsSvc := settings.NewService(logger, registry, statsSvc, choicesSvc, journeySvc, settings.Config{
		PushOnRemoteToLocal: cfg.Storage.PushOnRemoteToLocal,
	})

	if err := statsSvc.Initialize(ctx); err != nil {
		logger.Warn("stats initialization degraded", slog.String("error", err.Error()))
	}
	if err := choicesSvc.Initialize(ctx); err != nil {
		logger.Warn("choices initialization degraded", slog.String("error", err.Error()))
	}

	// Auth.
	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	handlers := rest.Handlers{
		Auth:     rest.NewAuthHandler(jwtMgr, cfg.Auth.PasswordHash, cfg.Auth.LearnerID(), logger),
		Stats:    rest.NewStatsHandler(statsSvc, logger),
		Choices:  rest.NewChoicesHandler(choicesSvc, logger),
		Journey:  rest.NewJourneyHandler(journeySvc, logger),
		Settings: rest.NewSettingsHandler(settingsSvc, localStore, logger),
		Wordlist: rest.NewWordlistHandler(catalog, logger),
		Health:   rest.NewHealthHandler(localStore, BuildVersion()),
	}

	router := rest.NewRouter(logger, cfg.CORS, jwtMgr, handlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
