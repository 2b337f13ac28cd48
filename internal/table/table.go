// Package table holds tabular record batches in column order. It is the
// interchange shape between format readers, the rule engine and the CSV
// outputs: every cell is a string and missing columns read as empty.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shekelflow/shekelflow/internal/common"
)

// Table is an ordered set of columns over string rows. Row maps only
// hold cells that were actually set; Get resolves the rest to "".
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Get returns the trimmed cell value at row i, or "" when the column is
// absent or the cell unset.
func (t *Table) Get(i int, column string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][column])
}

// Set writes a cell, declaring the column if needed.
func (t *Table) Set(i int, column, value string) {
	if !t.HasColumn(column) {
		t.Columns = append(t.Columns, column)
	}
	if t.Rows[i] == nil {
		t.Rows[i] = make(map[string]string)
	}
	t.Rows[i][column] = value
}

// Append adds a row. Columns seen for the first time are declared in
// an unspecified relative order; declare them up front via New when the
// output order matters.
func (t *Table) Append(row map[string]string) {
	for col := range row {
		if !t.HasColumn(col) {
			t.Columns = append(t.Columns, col)
		}
	}
	t.Rows = append(t.Rows, row)
}

// ColumnHasValues reports whether any row has a non-blank cell in the
// column. Fallback-chain selection is defined over whole columns, not
// single cells, so callers decide once per batch.
func (t *Table) ColumnHasValues(name string) bool {
	if !t.HasColumn(name) {
		return false
	}
	for i := range t.Rows {
		if t.Get(i, name) != "" {
			return true
		}
	}
	return false
}

// Concat stacks tables top to bottom. Columns keep first-appearance
// order across inputs; rows keep input order.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, col := range t.Columns {
			if !out.HasColumn(col) {
				out.Columns = append(out.Columns, col)
			}
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}

// Read parses CSV from r into a Table. The first record is the header;
// header cells are trimmed. A leading UTF-8 BOM is stripped.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return New(), nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := New()
	for _, col := range header {
		t.Columns = append(t.Columns, strings.TrimSpace(col))
	}

	for _, rec := range records[1:] {
		row := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(rec) {
				row[col] = rec[j]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadFile reads a CSV file into a Table.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Write emits the table as CSV with a UTF-8 BOM so spreadsheet tools
// open Hebrew text correctly.
func (t *Table) Write(w io.Writer) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for i := range t.Rows {
		for j, col := range t.Columns {
			rec[j] = t.Rows[i][col]
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to a CSV file, creating parent directories.
func (t *Table) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
