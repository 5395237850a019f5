package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"ChainStore/internal/dataset"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestReadRecords(t *testing.T) {
	recs, err := dataset.ReadRecords(strings.NewReader("A;X;milk;2.00\r\nB;Y;bread\n\nC;Z;tea;1;x\nD;W;eggs;3;\r\nE;V;tea;;\nF;U;jam;1.50\r"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := [][]string{
		{"A", "X", "milk", "2.00"},
		{"B", "Y", "bread"},
		{},
		{"C", "Z", "tea", "1", "x"},
		{"D", "W", "eggs", "3"},
		{"E", "V", "tea", ""},
		{"F", "U", "jam", "1.50"},
	}
	if len(recs) != len(want) {
		t.Fatalf("records=%d want=%d", len(recs), len(want))
	}
	for i, r := range recs {
		if r.Line != i+1 {
			t.Fatalf("record %d line=%d", i, r.Line)
		}
		if !slices.Equal(r.Fields, want[i]) {
			t.Fatalf("record %d fields=%q want=%q", i, r.Fields, want[i])
		}
	}
}

func TestReadRecords_Empty(t *testing.T) {
	recs, err := dataset.ReadRecords(strings.NewReader(""))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("records=%v", recs)
	}
}

func TestReadRecords_LineTooLong(t *testing.T) {
	_, err := dataset.ReadRecords(strings.NewReader(strings.Repeat("x", 2<<20)))
	if !errors.Is(err, dataset.ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
}

func TestFileSource(t *testing.T) {
	path := writeFile(t, "A;X;milk;2.00\nA;X;bread;out-of-stock\n")

	src, err := dataset.Open(context.Background(), path, dataset.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := src.(dataset.FileSource); !ok {
		t.Fatalf("source=%T want FileSource", src)
	}

	recs, err := src.Records(context.Background())
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 2 || recs[1].Fields[3] != "out-of-stock" {
		t.Fatalf("records=%+v", recs)
	}
}

func TestFileSource_Missing(t *testing.T) {
	src := dataset.FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")}

	_, err := src.Records(context.Background())
	if !errors.Is(err, dataset.ErrUnavailable) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v", err)
	}
}

func TestOpen_EmptyLocation(t *testing.T) {
	if _, err := dataset.Open(context.Background(), "", dataset.Options{}); !errors.Is(err, dataset.ErrUnavailable) {
		t.Fatalf("err=%v", err)
	}
}
