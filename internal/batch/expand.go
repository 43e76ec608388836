// Package batch provisions many VMs from a CSV table of per-VM flags merged
// with a shared list of global flags.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// CommentChar starts a line that is skipped before parsing.
	CommentChar = '#'

	// ValueTrue emits the column as a bare boolean flag.
	ValueTrue = "TRUE"

	// ValueFalse omits the column entirely.
	ValueFalse = "FALSE"
)

// ErrMalformedTable is returned for an unreadable header, a duplicate or
// empty column name, or a row whose cell count differs from the header's.
var ErrMalformedTable = errors.New("malformed CSV table")

// Expand reads a header row followed by data rows and returns one argument
// fragment per data row, in row order. Each fragment lists "--<column>"
// flags in column order.
func Expand(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comment = CommentChar
	reader.FieldsPerRecord = 0 // every row must match the header

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrMalformedTable, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var fragments [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
		}
		fragments = append(fragments, expandRow(header, row))
	}
	return fragments, nil
}

// ExpandFile opens path and calls Expand.
func ExpandFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV options file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Expand(f)
}

func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if name == "" {
			return fmt.Errorf("%w: column %d has an empty name", ErrMalformedTable, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate column %q", ErrMalformedTable, name)
		}
		seen[name] = true
	}
	return nil
}

func expandRow(header, row []string) []string {
	fragment := make([]string, 0, 2*len(header))
	for i, name := range header {
		switch value := row[i]; value {
		case ValueFalse:
		case ValueTrue:
			fragment = append(fragment, "--"+name)
		default:
			fragment = append(fragment, "--"+name, value)
		}
	}
	return fragment
}
