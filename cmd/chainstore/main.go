package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ChainStore/internal/config"
	"ChainStore/pkg/kit"
)

const service = "chainstore"

// exitError carries a message that has already been printed.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI; flags default to the values in cfg.
func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           service,
		Short:         "Query product prices by chain and store",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), cfg, newLogger(cfg))
		},
	}

	fl := root.PersistentFlags()
	fl.StringVarP(&cfg.Input, "input", "i", cfg.Input, "dataset location: file path, s3://, postgres:// or sqlite://")
	fl.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fl.StringVar(&cfg.SQLTable, "sql-table", cfg.SQLTable, "table read by SQL dataset sources")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve /metrics on this address while the shell runs")
	root.Flags().StringVar(&cfg.HistoryFile, "history", cfg.HistoryFile, "command history file for interactive sessions")

	root.AddCommand(newServeCmd(&cfg))
	return root
}

func newLogger(cfg config.Config) *zap.Logger {
	return kit.NewLogger(service, cfg.LogLevel).With(zap.String("session", uuid.NewString()))
}
