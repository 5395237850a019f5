package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ChainStore/internal/catalog"
	"ChainStore/internal/config"
	"ChainStore/pkg/kit"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the loaded catalog over a read-only JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *cfg, newLogger(*cfg))
		},
	}
	cmd.Flags().StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	cmd.Flags().IntVar(&cfg.RateLimitPerMin, "rate-limit", cfg.RateLimitPerMin, "requests per minute per client IP, 0 disables")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := loadCatalog(ctx, cfg, os.Stdout, log)
	if err != nil {
		return err
	}

	h := catalog.NewHandler(&catalog.Server{Catalog: c, Log: log}, catalog.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        prometheus.NewRegistry(),
		MetricsEnabled:  cfg.MetricsEnabled(),
		MetricsToken:    cfg.MetricsToken,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	return kit.RunHTTPServer(ctx, cfg.HTTPAddr, h, log)
}
