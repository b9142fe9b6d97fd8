// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Command server runs the Excursio recommendation HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/excursio/excursio/internal/api"
	"github.com/excursio/excursio/internal/catalog"
	"github.com/excursio/excursio/internal/collaborative"
	"github.com/excursio/excursio/internal/config"
	"github.com/excursio/excursio/internal/contextual"
	"github.com/excursio/excursio/internal/engine"
	"github.com/excursio/excursio/internal/features"
	"github.com/excursio/excursio/internal/logging"
	"github.com/excursio/excursio/internal/models"
	"github.com/excursio/excursio/internal/preference"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(cfg.Logging)
	log := logging.Logger()

	items, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	cat := catalog.NewStore()
	cat.Replace(items)
	log.Info().Int("items", cat.Len()).Msg("catalog loaded")

	feat := features.NewStore(cat, cfg.Engine.MaxVocabulary, log)
	feat.Rebuild()

	collab := collaborative.NewModel(collaborative.Config{
		NComponents:     cfg.Engine.SVDComponents,
		MinInteractions: cfg.Engine.MinInteractions,
	}, log)

	learner := preference.NewLearner(preference.Config{
		LearningRate: cfg.Engine.LearningRate,
		DecayFactor:  cfg.Engine.DecayFactor,
	}, log)

	adjuster := contextual.NewAdjuster(log)

	eng, err := engine.NewEngine(cfg.EngineSettings(), cat, feat, collab, learner, adjuster, log)
	if err != nil {
		return err
	}

	handler := api.NewHandler(eng, cat, log)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimit:   cfg.Server.RateLimit,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// loadCatalog loads the configured catalog file, or the built-in sample
// catalog when no path is set.
func loadCatalog(path string) ([]models.Item, error) {
	if path == "" {
		return catalog.SampleItems(), nil
	}
	return catalog.LoadFile(path)
}
