// Package dataset reads chain;store;product;price records from the places a
// dataset can live: a local file, an S3 object, or a SQL table.
//
// Sources only split input into fields. Validation belongs to catalog.Load.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ChainStore/internal/catalog"
)

// ErrUnavailable means the dataset could not be opened or read.
var ErrUnavailable = errors.New("dataset unavailable")

type Source interface {
	Records(ctx context.Context) ([]catalog.Record, error)
	String() string
}

type Options struct {
	// SQLTable is the table read by SQL sources; DefaultTable when empty.
	SQLTable string
	S3       S3Config
}

const (
	schemeS3         = "s3://"
	schemePostgres   = "postgres://"
	schemePostgreSQL = "postgresql://"
	schemeSQLite     = "sqlite://"
)

// Open picks a Source for location:
//
//	s3://bucket/key           S3 object
//	postgres://...            Postgres table (pgx)
//	sqlite://path/to/file.db  SQLite table
//	anything else             local file
func Open(ctx context.Context, location string, opts Options) (Source, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("%w: no location given", ErrUnavailable)
	case strings.HasPrefix(location, schemeS3):
		return NewS3Source(ctx, location, opts.S3)
	case strings.HasPrefix(location, schemePostgres), strings.HasPrefix(location, schemePostgreSQL):
		return NewSQLSource(driverPgx, location, opts.SQLTable)
	case strings.HasPrefix(location, schemeSQLite):
		return NewSQLSource(driverSQLite, strings.TrimPrefix(location, schemeSQLite), opts.SQLTable)
	default:
		return FileSource{Path: location}, nil
	}
}
