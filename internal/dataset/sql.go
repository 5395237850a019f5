package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"ChainStore/internal/catalog"
)

// DefaultTable holds records as (id, chain, store, product, price); rows are
// read in id order and a NULL price means out of stock.
const DefaultTable = "price_records"

const (
	driverPgx    = "pgx"
	driverSQLite = "sqlite"

	pingTimeout  = 2 * time.Second
	queryTimeout = 30 * time.Second

	pgUndefinedTable = "42P01"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLSource reads records from a table through database/sql. The connection
// is opened per Records call and closed afterwards.
type SQLSource struct {
	driver string
	dsn    string
	table  string
}

func NewSQLSource(driver, dsn, table string) (*SQLSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrUnavailable, table)
	}
	return &SQLSource{driver: driver, dsn: dsn, table: table}, nil
}

func (s *SQLSource) String() string { return s.driver + " table " + s.table }

func (s *SQLSource) Records(ctx context.Context) ([]catalog.Record, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer db.Close()

	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		return nil, fmt.Errorf("%w: ping %s: %w", ErrUnavailable, s.driver, err)
	}

	var out []catalog.Record
	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, `
			SELECT chain, store, product, price
			FROM `+s.table+`
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]catalog.Record, 0, 64)
		for rows.Next() {
			var (
				chain, store, product string
				price                 sql.NullString
			)
			if err := rows.Scan(&chain, &store, &product, &price); err != nil {
				return err
			}
			if !price.Valid {
				price.String = catalog.OutOfStockToken
			}
			out = append(out, catalog.Record{
				Line:   len(out) + 1,
				Fields: []string{chain, store, product, price.String},
			})
		}
		return rows.Err()
	})

	if isUndefinedTable(err) {
		return nil, fmt.Errorf("%w: table %q does not exist", ErrUnavailable, s.table)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	// modernc.org/sqlite reports SQLITE_ERROR with this message.
	return strings.Contains(err.Error(), "no such table")
}
