package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"ChainStore/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"CHAINSTORE_INPUT", "LOG_LEVEL", "HTTP_ADDR", "RATE_LIMIT_PER_MIN", "METRICS_TOKEN", "CHAINSTORE_SQL_TABLE", "CHAINSTORE_S3_REGION"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LogLevel != "warn" || cfg.HTTPAddr != ":8082" || cfg.RateLimitPerMin != 120 {
		t.Fatalf("defaults=%+v", cfg)
	}
	if cfg.SQLTable != "price_records" || cfg.S3Region != "us-east-1" {
		t.Fatalf("source defaults=%+v", cfg)
	}
	if cfg.MetricsEnabled() {
		t.Fatalf("metrics enabled without token")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CHAINSTORE_INPUT", "s3://prices/week1.csv")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	t.Setenv("METRICS_TOKEN", "tok")
	t.Setenv("CHAINSTORE_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("CHAINSTORE_S3_PATH_STYLE", "true")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Input != "s3://prices/week1.csv" || cfg.RateLimitPerMin != 5 || !cfg.MetricsEnabled() {
		t.Fatalf("cfg=%+v", cfg)
	}
	opts := cfg.DatasetOptions()
	if opts.S3.Endpoint != "http://minio:9000" || !opts.S3.PathStyle {
		t.Fatalf("s3 options=%+v", opts.S3)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	os.Unsetenv("CHAINSTORE_SQL_TABLE")
	t.Setenv("LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "test.env")
	body := "CHAINSTORE_SQL_TABLE=weekly_prices\nLOG_LEVEL=error\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CHAINSTORE_SQL_TABLE") })

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SQLTable != "weekly_prices" {
		t.Fatalf("table=%q", cfg.SQLTable)
	}
	// the process environment wins over the file
	if cfg.LogLevel != "debug" {
		t.Fatalf("level=%q", cfg.LogLevel)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for non-numeric rate limit")
	}
}
