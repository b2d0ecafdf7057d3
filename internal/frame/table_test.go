package frame

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	content := "timestamp,Isc(e),Isc(p)\n" +
		"2023-07-03 13:05:00,4.81,4.52\n" +
		"2023-07-03 13:10:00,4.79\n" // short row: trailing cell missing
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"timestamp", "Isc(e)", "Isc(p)"}, table.Columns())
	assert.Equal(t, 2, table.NumRows())

	// Short rows are padded with empty cells
	assert.Equal(t, "", table.Value(1, 2))

	v, ok := table.Float(0, 1)
	assert.True(t, ok)
	assert.InDelta(t, 4.81, v, 1e-12)
}

func TestReadCSV_BOMHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.csv")
	require.NoError(t, os.WriteFile(path, []byte("\uFEFFtimestamp,SR\n2023-07-03 13:05:00,98.2\n"), 0o644))

	table, err := ReadCSV(path)
	require.NoError(t, err)
	assert.True(t, table.HasColumn("timestamp"), "BOM must be stripped from the first header cell")
}

func TestReadCSV_RowWiderThanHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2,3\n"), 0o644))

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	table := NewTable([]string{"timestamp", "SR"})
	table.AppendRow([]string{"2023-07-03 13:05:00-00:00", "98.2"})
	table.AppendRow([]string{"2023-07-04 13:05:00-00:00", ""})

	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "sr.csv") // parent dir must be created
	require.NoError(t, table.WriteCSV(path))

	back, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, table.Columns(), back.Columns())
	require.Equal(t, 2, back.NumRows())
	assert.Equal(t, "98.2", back.Value(0, 1))
	assert.Equal(t, "", back.Value(1, 1))
}

func TestColumnAccess(t *testing.T) {
	table := NewTable([]string{"a", "b"})
	table.AppendRow([]string{"1", "x"})
	table.AppendRow([]string{"2.5", ""})

	i, ok := table.ColumnIndex("b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = table.ColumnIndex("missing")
	assert.False(t, ok)

	vals, err := table.ColumnValues("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2.5"}, vals)

	_, err = table.ColumnValues("missing")
	assert.Error(t, err)

	floats, err := table.ColumnFloats("b")
	require.NoError(t, err)
	require.Len(t, floats, 2)
	assert.True(t, math.IsNaN(floats[0]), "non-numeric cell becomes NaN")
	assert.True(t, math.IsNaN(floats[1]), "empty cell becomes NaN")

	v, ok := table.FloatByName(1, "a")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestNumericColumns(t *testing.T) {
	table := NewTable([]string{"timestamp", "value", "label", "sparse"})
	table.AppendRow([]string{"2023-07-03 13:05:00", "1.5", "ok", ""})
	table.AppendRow([]string{"2023-07-03 13:06:00", "2.5", "bad", "7"})

	// One parseable cell is enough; pure-text and excluded columns drop
	assert.Equal(t, []string{"value", "sparse"}, table.NumericColumns("timestamp"))
}

func TestRenameColumn(t *testing.T) {
	table := NewTable([]string{"TIMESTAMP", "v"})
	require.NoError(t, table.RenameColumn("TIMESTAMP", "timestamp"))
	assert.True(t, table.HasColumn("timestamp"))
	assert.False(t, table.HasColumn("TIMESTAMP"))
	assert.Error(t, table.RenameColumn("missing", "x"))
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"4.81", 4.81, true},
		{" 4.81 ", 4.81, true},
		{"-3.6e-3", -0.0036, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"nan", 0, false},
		{"n/a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFloat(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "", FormatFloat(math.NaN()))
	assert.Equal(t, "98.2", FormatFloat(98.2))
	assert.Equal(t, "87.5000", FormatFloatPrec(87.5, 4))
	assert.Equal(t, "", FormatFloatPrec(math.NaN(), 4))
	assert.Equal(t, "31", FormatInt(31))
}

func TestDetectTimeColumn(t *testing.T) {
	tests := []struct {
		name      string
		columns   []string
		want      string
		wantErr   bool
		ambiguous bool
	}{
		{
			name:    "single timestamp",
			columns: []string{"TIMESTAMP", "Isc(e)", "Isc(p)"},
			want:    "TIMESTAMP",
		},
		{
			name:    "underscore time",
			columns: []string{"_time", "R_FC1_Avg"},
			want:    "_time",
		},
		{
			name:    "spanish fecha",
			columns: []string{"Fecha", "modulo"},
			want:    "Fecha",
		},
		{
			name:      "two candidates is ambiguous, priority wins",
			columns:   []string{"Fecha", "_time", "v"},
			want:      "_time", // "time" pattern outranks "fecha"
			ambiguous: true,
		},
		{
			name:      "same pattern, leftmost wins",
			columns:   []string{"datetime", "time2"},
			want:      "datetime",
			ambiguous: true,
		},
		{
			name:    "no candidates",
			columns: []string{"Isc(e)", "Isc(p)"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectTimeColumn(tt.columns)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoTimeColumn)
				return
			}
			assert.Equal(t, tt.want, got)
			if tt.ambiguous {
				var ambErr *AmbiguousTimeColumnError
				require.True(t, errors.As(err, &ambErr))
				assert.Equal(t, tt.want, ambErr.Chosen)
				assert.GreaterOrEqual(t, len(ambErr.Candidates), 2)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
