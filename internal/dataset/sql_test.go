package dataset_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"ChainStore/internal/dataset"
)

func newSQLiteDB(t *testing.T, table string, rows [][]any) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prices.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE ` + table + ` (
		id INTEGER PRIMARY KEY,
		chain TEXT NOT NULL,
		store TEXT NOT NULL,
		product TEXT NOT NULL,
		price TEXT
	)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO `+table+` (id, chain, store, product, price) VALUES (?, ?, ?, ?, ?)`, r...); err != nil {
			t.Fatalf("insert %v: %v", r, err)
		}
	}
	return path
}

func TestSQLSource_SQLite(t *testing.T) {
	path := newSQLiteDB(t, dataset.DefaultTable, [][]any{
		{3, "B", "Y", "milk", "2.00"},
		{1, "A", "X", "milk", "2.00"},
		{2, "A", "X", "bread", nil},
	})

	src, err := dataset.Open(context.Background(), "sqlite://"+path, dataset.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !strings.Contains(src.String(), dataset.DefaultTable) {
		t.Fatalf("string=%q", src.String())
	}

	recs, err := src.Records(context.Background())
	if err != nil {
		t.Fatalf("records: %v", err)
	}

	want := [][]string{
		{"A", "X", "milk", "2.00"},
		{"A", "X", "bread", "out-of-stock"},
		{"B", "Y", "milk", "2.00"},
	}
	if len(recs) != len(want) {
		t.Fatalf("records=%d want=%d", len(recs), len(want))
	}
	for i, r := range recs {
		if r.Line != i+1 || !slices.Equal(r.Fields, want[i]) {
			t.Fatalf("record %d=%+v want fields %q", i, r, want[i])
		}
	}
}

func TestSQLSource_CustomTable(t *testing.T) {
	path := newSQLiteDB(t, "weekly", [][]any{{1, "A", "X", "tea", "0.99"}})

	src, err := dataset.Open(context.Background(), "sqlite://"+path, dataset.Options{SQLTable: "weekly"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	recs, err := src.Records(context.Background())
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 1 || recs[0].Fields[2] != "tea" {
		t.Fatalf("records=%+v", recs)
	}
}

func TestSQLSource_MissingTable(t *testing.T) {
	path := newSQLiteDB(t, "other", nil)

	src, err := dataset.Open(context.Background(), "sqlite://"+path, dataset.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = src.Records(context.Background())
	if !errors.Is(err, dataset.ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("err=%q", err)
	}
}

func TestSQLSource_RejectsTableName(t *testing.T) {
	_, err := dataset.Open(context.Background(), "sqlite:///tmp/x.db", dataset.Options{SQLTable: "t; DROP TABLE x"})
	if !errors.Is(err, dataset.ErrUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

func TestOpen_PostgresSchemes(t *testing.T) {
	for _, dsn := range []string{"postgres://u:p@localhost:1/db", "postgresql://localhost/db"} {
		src, err := dataset.Open(context.Background(), dsn, dataset.Options{})
		if err != nil {
			t.Fatalf("%s: %v", dsn, err)
		}
		if _, ok := src.(*dataset.SQLSource); !ok {
			t.Fatalf("%s: source=%T", dsn, src)
		}
		if !strings.HasPrefix(src.String(), "pgx ") {
			t.Fatalf("%s: string=%q", dsn, src.String())
		}
	}
}
