// Package dataset loads the tabular record source and assembles feature
// matrices from the named feature-set registry.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
)

// Table is a column-oriented, read-only view of a delimited file.
// Every column has the same length. Cells that do not parse as finite
// numbers (including "NaN" and "Inf") are remembered per column; asking for such a column is an error that names
// the first offending row.
type Table struct {
	names   []string
	columns map[string][]float64
	invalid map[string]badCell
	rows    int
}

type badCell struct {
	row   int
	value string
}

// NewTable builds a table from in-memory columns. names fixes the column order.
func NewTable(names []string, columns map[string][]float64) (*Table, error) {
	t := &Table{
		names:   append([]string(nil), names...),
		columns: make(map[string][]float64, len(names)),
		invalid: make(map[string]badCell),
		rows:    -1,
	}
	for _, name := range names {
		col, ok := columns[name]
		if !ok {
			return nil, errors.NewMissingColumnError(name, "columns")
		}
		if _, dup := t.columns[name]; dup {
			return nil, errors.NewValueError("dataset.NewTable", fmt.Sprintf("duplicate column %q", name))
		}
		if t.rows >= 0 && len(col) != t.rows {
			return nil, errors.NewDimensionError("dataset.NewTable", t.rows, len(col), 0)
		}
		t.rows = len(col)
		t.columns[name] = append([]float64(nil), col...)
	}
	if t.rows < 0 {
		t.rows = 0
	}
	return t, nil
}

// LoadCSV reads a comma-separated file with a header row.
// Any failure is returned; there is no partial table.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewModelError("dataset.LoadCSV", "cannot open "+path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.LoadCSV %s", path)
	}
	return t, nil
}

// ReadCSV parses CSV data with a header row from r.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataset.ReadCSV", "missing header row", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.NewModelError("dataset.ReadCSV", "malformed header", err)
	}

	t := &Table{
		names:   make([]string, len(header)),
		columns: make(map[string][]float64, len(header)),
		invalid: make(map[string]badCell),
	}
	for j, raw := range header {
		name := strings.TrimSpace(raw)
		if j == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			return nil, errors.NewValueError("dataset.ReadCSV", fmt.Sprintf("empty column name at position %d", j))
		}
		if _, dup := t.columns[name]; dup {
			return nil, errors.NewValueError("dataset.ReadCSV", fmt.Sprintf("duplicate column %q", name))
		}
		t.names[j] = name
		t.columns[name] = nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewModelError("dataset.ReadCSV", fmt.Sprintf("malformed record at data row %d", t.rows+1), err)
		}
		for j, field := range record {
			name := t.names[j]
			v, perr := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				if _, seen := t.invalid[name]; !seen {
					t.invalid[name] = badCell{row: t.rows, value: field}
				}
			}
			t.columns[name] = append(t.columns[name], v)
		}
		t.rows++
	}

	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Names returns the column names in file order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the numeric values of the named column.
// The returned slice is shared with the table and must not be modified.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, errors.NewMissingColumnError(name, "table")
	}
	if bad, ok := t.invalid[name]; ok {
		return nil, errors.NewValueError("Table.Column",
			fmt.Sprintf("column %q is not finite numeric: data row %d has %q", name, bad.row+1, bad.value))
	}
	return col, nil
}
