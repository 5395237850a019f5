// Package config reads chainstore settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"ChainStore/internal/dataset"
)

type Config struct {
	Input    string `envconfig:"CHAINSTORE_INPUT"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`

	HTTPAddr        string `envconfig:"HTTP_ADDR" default:":8082"`
	RateLimitPerMin int    `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`

	MetricsAddr  string `envconfig:"METRICS_ADDR"`
	MetricsToken string `envconfig:"METRICS_TOKEN"`

	HistoryFile string `envconfig:"CHAINSTORE_HISTORY"`

	SQLTable    string `envconfig:"CHAINSTORE_SQL_TABLE" default:"price_records"`
	S3Region    string `envconfig:"CHAINSTORE_S3_REGION" default:"us-east-1"`
	S3Endpoint  string `envconfig:"CHAINSTORE_S3_ENDPOINT"`
	S3PathStyle bool   `envconfig:"CHAINSTORE_S3_PATH_STYLE"`
}

// Load reads files (".env" when none given) into the process environment
// and then processes it. Missing env files are not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	return cfg, nil
}

// DatasetOptions maps the source settings onto dataset.Options.
func (c Config) DatasetOptions() dataset.Options {
	return dataset.Options{
		SQLTable: c.SQLTable,
		S3: dataset.S3Config{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			PathStyle: c.S3PathStyle,
		},
	}
}

// MetricsEnabled reports whether a scrape endpoint should be mounted.
func (c Config) MetricsEnabled() bool { return c.MetricsToken != "" }
