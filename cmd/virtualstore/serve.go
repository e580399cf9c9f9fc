/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/suparena/virtualstore"
	"github.com/suparena/virtualstore/aggregation"
	"github.com/suparena/virtualstore/api"
	"github.com/suparena/virtualstore/config"
	"github.com/suparena/virtualstore/importer"
	"github.com/suparena/virtualstore/importer/ddb"
	"github.com/suparena/virtualstore/metrics"
	"github.com/suparena/virtualstore/service"
)

const (
	shutdownTimeout     = 15 * time.Second
	limiterCleanupEvery = 5 * time.Minute
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if addrFlag != "" {
			cfg.Addr = addrFlag
		}
		logger := cfg.NewLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := buildServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		return run(ctx, srv, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address, overrides the config")
}

// buildServer wires the manager, service, importer, metrics and router.
func buildServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*http.Server, error) {
	manager := virtualstore.NewManager(virtualstore.WithLogger(logger))
	for _, name := range cfg.DefaultStores {
		if _, err := manager.CreateStore(name); err != nil {
			return nil, fmt.Errorf("create default store %q: %w", name, err)
		}
	}

	m := metrics.New(manager)
	svc := service.New(manager, aggregation.NewEngine(aggregation.WithLogger(logger)), logger)

	importOpts := []importer.Option{
		importer.WithLogger(logger),
		importer.WithRecorder(m),
		importer.WithMaxBodySize(cfg.Import.MaxBodySize),
		importer.WithHTTPClient(&http.Client{Timeout: cfg.Import.Timeout}),
	}
	if cfg.DynamoDB.Configured() {
		client, err := ddb.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		importOpts = append(importOpts, importer.WithTableSource(ddb.NewSource(client, logger)))
	}

	opts := api.Options{
		Importer:    importer.New(svc, importOpts...),
		Metrics:     m,
		Logger:      logger,
		MaxBodySize: cfg.Import.MaxBodySize,
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter := api.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, m, logger)
		limiter.StartCleanup(ctx, limiterCleanupEvery)
		opts.RateLimiter = limiter
	}

	logger.WithField("config", cfg.String()).Info("server configured")
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(svc, opts).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, srv *http.Server, logger logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
