package kit

import (
	"go.uber.org/zap"
)

const defaultLevel = "info"

// NewLogger builds a JSON production logger tagged with service. Output goes
// to stderr. An unknown level falls back to info.
func NewLogger(service, level string) *zap.Logger {
	if level == "" {
		level = defaultLevel
	}
	lvl, parseErr := zap.ParseAtomicLevel(level)
	if parseErr != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.InitialFields = map[string]any{"service": service}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	if parseErr != nil {
		l.Warn("unknown log level, using info", zap.String("level", level))
	}
	return l
}
