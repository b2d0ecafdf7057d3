package frame

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Table is an in-memory CSV table: an ordered header plus rows of raw
// string cells. Cells keep their source text until a caller asks for a
// numeric view, so unparsed columns (module ids, flags) survive to the
// output untouched. The empty string is the missing-value marker, both
// on read and on write.
type Table struct {
	cols []string
	rows [][]string

	index map[string]int // column name -> position
}

// NewTable creates an empty table with the given header.
func NewTable(cols []string) *Table {
	t := &Table{cols: append([]string(nil), cols...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c] = i
	}
}

// ReadCSV loads a table from disk. The first record is the header.
// Rows shorter than the header are padded with empty cells; longer
// rows are an error.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}

	header := records[0]
	for i, c := range header {
		header[i] = strings.TrimPrefix(strings.TrimSpace(c), "\uFEFF")
	}

	t := NewTable(header)
	for n, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("read %s: row %d has %d fields, header has %d", path, n+2, len(rec), len(header))
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// WriteCSV writes the table to disk, creating parent directories as
// needed.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.cols); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Columns returns the header in order. The slice is a copy.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// ColumnIndex returns the position of a column, or false if absent.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the raw cell at (row, col index).
func (t *Table) Value(row, col int) string {
	return t.rows[row][col]
}

// SetValue overwrites the cell at (row, col index).
func (t *Table) SetValue(row, col int, v string) {
	t.rows[row][col] = v
}

// Row returns the raw cells of one row. The slice is a copy.
func (t *Table) Row(row int) []string {
	return append([]string(nil), t.rows[row]...)
}

// AppendRow adds a row. It must match the header length.
func (t *Table) AppendRow(row []string) {
	if len(row) != len(t.cols) {
		panic(fmt.Sprintf("frame: row has %d cells, header has %d", len(row), len(t.cols)))
	}
	t.rows = append(t.rows, append([]string(nil), row...))
}

// Float parses the cell at (row, col index) as a float64. Empty cells
// and unparsable text report ok=false, as do NaN literals.
func (t *Table) Float(row, col int) (float64, bool) {
	return ParseFloat(t.rows[row][col])
}

// FloatByName is Float keyed by column name.
func (t *Table) FloatByName(row int, name string) (float64, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.Float(row, i)
}

// ColumnValues returns the raw cells of one column.
func (t *Table) ColumnValues(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("frame: column %q not found", name)
	}
	out := make([]string, len(t.rows))
	for r := range t.rows {
		out[r] = t.rows[r][i]
	}
	return out, nil
}

// ColumnFloats returns one column parsed as floats. Missing or
// unparsable cells come back as NaN.
func (t *Table) ColumnFloats(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("frame: column %q not found", name)
	}
	out := make([]float64, len(t.rows))
	for r := range t.rows {
		v, ok := t.Float(r, i)
		if !ok {
			out[r] = math.NaN()
		} else {
			out[r] = v
		}
	}
	return out, nil
}

// RenameColumn changes a column's name in place.
func (t *Table) RenameColumn(from, to string) error {
	i, ok := t.index[from]
	if !ok {
		return fmt.Errorf("frame: column %q not found", from)
	}
	t.cols[i] = to
	t.reindex()
	return nil
}

// NumericColumns returns the names of columns where at least one cell
// parses as a number, excluding the listed columns. Order follows the
// header.
func (t *Table) NumericColumns(exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var out []string
	for i, c := range t.cols {
		if skip[c] {
			continue
		}
		for r := range t.rows {
			if _, ok := t.Float(r, i); ok {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// ParseFloat parses a cell's text as float64. The empty string, NaN
// spellings and non-numeric text report ok=false.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatFloat renders a float for CSV output. NaN becomes the empty
// cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatFloatPrec renders a float with a fixed number of decimals,
// matching the report tables that round (correlations to 4, p-values
// to 6).
func FormatFloatPrec(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatInt renders an integer cell.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}
