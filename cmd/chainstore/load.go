package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"ChainStore/internal/catalog"
	"ChainStore/internal/config"
	"ChainStore/internal/dataset"
)

const (
	msgCannotOpen    = "Error: the input file cannot be opened"
	msgErroneousLine = "Error: the input file has an erroneous line"
)

// loadCatalog reads the dataset at cfg.Input. On failure it prints the
// user-facing message to out and returns an exitError.
func loadCatalog(ctx context.Context, cfg config.Config, out io.Writer, log *zap.Logger) (*catalog.Catalog, error) {
	c, err := readCatalog(ctx, cfg)
	if err != nil {
		log.Error("dataset load failed", zap.String("input", cfg.Input), zap.Error(err))
		msg := msgCannotOpen
		if errors.Is(err, catalog.ErrMalformedRecord) {
			msg = msgErroneousLine
		}
		fmt.Fprintln(out, msg)
		return nil, &exitError{code: 1}
	}

	st := c.Stats()
	log.Info("catalog loaded",
		zap.String("input", cfg.Input),
		zap.Int("chains", st.Chains),
		zap.Int("stores", st.Stores),
		zap.Int("listings", st.Listings),
	)
	return c, nil
}

func readCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	src, err := dataset.Open(ctx, cfg.Input, cfg.DatasetOptions())
	if err != nil {
		return nil, err
	}
	records, err := src.Records(ctx)
	if err != nil {
		return nil, err
	}

	c := catalog.New()
	if err := c.Load(records); err != nil {
		return nil, err
	}
	return c, nil
}
