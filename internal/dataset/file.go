package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"ChainStore/internal/catalog"
)

// FieldSeparator splits a dataset line. There is no escaping.
const FieldSeparator = ";"

const maxLineBytes = 1 << 20

type FileSource struct {
	Path string
}

func (s FileSource) Records(_ context.Context) ([]catalog.Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()

	return ReadRecords(f)
}

func (s FileSource) String() string { return "file " + s.Path }

// ReadRecords splits every line of r on FieldSeparator, numbering lines from 1.
// A trailing CR is dropped, and so is the empty field after a terminating
// separator. Field counts are not checked here.
func ReadRecords(r io.Reader) ([]catalog.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	out := make([]catalog.Record, 0, 64)
	line := 0
	for sc.Scan() {
		line++
		out = append(out, catalog.Record{
			Line:   line,
			Fields: splitFields(sc.Text()),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrUnavailable, line+1, err)
	}
	return out, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, FieldSeparator)
	if n := len(fields); fields[n-1] == "" {
		fields = fields[:n-1]
	}
	return fields
}
