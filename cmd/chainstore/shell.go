package main

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ChainStore/internal/catalog"
	"ChainStore/internal/config"
	"ChainStore/internal/shell"
	"ChainStore/pkg/kit"
)

func runShell(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	defer func() { _ = log.Sync() }()

	var c *catalog.Catalog

	reader, closeReader, err := newLineReader(cfg, func() *catalog.Catalog { return c })
	if err != nil {
		return err
	}
	defer closeReader()

	if cfg.Input == "" {
		reader.SetPrompt(shell.InputFilePrompt)
		line, err := reader.ReadLine()
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, shell.ErrInterrupt) {
			return err
		}
		cfg.Input = strings.TrimSpace(line)
	}

	c, err = loadCatalog(ctx, cfg, os.Stdout, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	p := &shell.Processor{
		Catalog: c,
		Out:     os.Stdout,
		Log:     log,
		Metrics: kit.NewCommandMetrics(reg),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveMetrics(ctx, cfg, reg, log)

	reader.SetPrompt(shell.Prompt)
	return p.Run(reader)
}

// newLineReader uses a line editor on terminals and plain buffered reads
// otherwise. current is consulted lazily for completion candidates.
func newLineReader(cfg config.Config, current func() *catalog.Catalog) (shell.LineReader, func(), error) {
	if !shell.IsTerminal(int(os.Stdin.Fd())) {
		return shell.NewPromptReader(os.Stdin, os.Stdout, shell.Prompt), func() {}, nil
	}

	rl, err := shell.NewInteractive(shell.InteractiveConfig{
		HistoryFile: cfg.HistoryFile,
		Chains: func() []string {
			if c := current(); c != nil {
				return slices.Collect(c.Chains())
			}
			return nil
		},
		Products: func() []string {
			if c := current(); c != nil {
				return c.Products()
			}
			return nil
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return rl, func() { _ = rl.Close() }, nil
}

func serveMetrics(ctx context.Context, cfg config.Config, reg *prometheus.Registry, log *zap.Logger) {
	if cfg.MetricsAddr == "" {
		return
	}
	if !cfg.MetricsEnabled() {
		log.Warn("metrics address set without METRICS_TOKEN, not serving metrics", zap.String("addr", cfg.MetricsAddr))
		return
	}

	r := chi.NewRouter()
	kit.MountMetrics(r, reg, cfg.MetricsToken)

	go func() {
		if err := kit.RunHTTPServer(ctx, cfg.MetricsAddr, r, log); err != nil {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
}
