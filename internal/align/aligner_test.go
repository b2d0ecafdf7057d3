package align

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

func newAligner() *Aligner {
	return New(Config{
		MediumTolerance:    7*time.Minute + 30*time.Second,
		IrregularTolerance: time.Hour,
	}, logger.NewNop())
}

func session(start time.Time) contracts.DaySession {
	return contracts.DaySession{
		Date:        contracts.DateOf(start),
		Center:      start.Add(contracts.SessionWindowLength / 2),
		WindowStart: start,
		WindowEnd:   start.Add(contracts.SessionWindowLength),
	}
}

func minuteTable(start time.Time, values []float64) (*frame.Table, []time.Time) {
	table := frame.NewTable([]string{"_time", "SR_C11_Avg"})
	var times []time.Time
	for i, v := range values {
		ts := start.Add(time.Duration(i) * time.Minute)
		times = append(times, ts)
		table.AppendRow([]string{ts.Format(time.RFC3339), frame.FormatFloat(v)})
	}
	return table, times
}

func TestAlign_DenseAveragesWindow(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := session(start)
	// Samples at :40..:46; only :40..:44 fall inside the window.
	table, times := minuteTable(start, []float64{10, 12, 11, 13, 9, 99, 99})

	out, st, err := newAligner().Align(registry.SamplingDense, table, times, "_time", []contracts.DaySession{s})
	require.NoError(t, err)

	assert.Equal(t, Stats{DaysMatched: 1, RowsOut: 1}, st)
	assert.Equal(t, []string{"timestamp", "SR_C11_Avg"}, out.Columns())
	require.Equal(t, 1, out.NumRows())

	tsIdx, _ := out.ColumnIndex("timestamp")
	assert.Equal(t, "2023-07-03 16:42:30+00:00", out.Value(0, tsIdx))
	v, ok := out.FloatByName(0, "SR_C11_Avg")
	require.True(t, ok)
	assert.InDelta(t, 11.0, v, 1e-9)
}

func TestAlign_DenseSkipsEmptyWindow(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := session(start)
	// All samples an hour later.
	table, times := minuteTable(start.Add(time.Hour), []float64{10, 11, 12})

	out, st, err := newAligner().Align(registry.SamplingDense, table, times, "_time", []contracts.DaySession{s})
	require.NoError(t, err)

	assert.Equal(t, Stats{DaysSkipped: 1}, st)
	assert.Equal(t, 0, out.NumRows())
}

func TestAlign_DensePartialColumn(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := session(start)

	table := frame.NewTable([]string{"_time", "a", "b"})
	times := []time.Time{start, start.Add(time.Minute)}
	table.AppendRow([]string{start.Format(time.RFC3339), "10", "1"})
	table.AppendRow([]string{times[1].Format(time.RFC3339), "20", ""})

	out, _, err := newAligner().Align(registry.SamplingDense, table, times, "_time", []contracts.DaySession{s})
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())

	// Column means are taken over parseable cells only.
	a, ok := out.FloatByName(0, "a")
	require.True(t, ok)
	assert.InDelta(t, 15.0, a, 1e-9)
	b, ok := out.FloatByName(0, "b")
	require.True(t, ok)
	assert.InDelta(t, 1.0, b, 1e-9)
}

func TestAlign_MediumKeepsBinRows(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := session(start)

	table := frame.NewTable([]string{"time", "module", "pmax"})
	times := []time.Time{
		start.Add(time.Minute),
		start.Add(2 * time.Minute),
		start.Add(30 * time.Minute), // different bin
	}
	table.AppendRow([]string{times[0].Format(time.RFC3339), "perc1fixed", "240.5"})
	table.AppendRow([]string{times[1].Format(time.RFC3339), "perc2fixed", "250.1"})
	table.AppendRow([]string{times[2].Format(time.RFC3339), "perc1fixed", "999"})

	out, st, err := newAligner().Align(registry.SamplingMedium, table, times, "time", []contracts.DaySession{s})
	require.NoError(t, err)

	assert.Equal(t, Stats{DaysMatched: 1, RowsOut: 2}, st)
	assert.Equal(t, []string{"timestamp", "module", "pmax"}, out.Columns())
	require.Equal(t, 2, out.NumRows())

	// Both bin rows survive with the canonical timestamp; text
	// columns pass through untouched.
	tsIdx, _ := out.ColumnIndex("timestamp")
	modIdx, _ := out.ColumnIndex("module")
	assert.Equal(t, "2023-07-03 16:42:30+00:00", out.Value(0, tsIdx))
	assert.Equal(t, "2023-07-03 16:42:30+00:00", out.Value(1, tsIdx))
	assert.Equal(t, "perc1fixed", out.Value(0, modIdx))
	assert.Equal(t, "perc2fixed", out.Value(1, modIdx))
}

func TestAlign_MediumNearestFallback(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := session(start)

	tests := []struct {
		name      string
		offset    time.Duration
		wantRows  int
		wantSkips int
	}{
		{"seven minutes away matches", 7 * time.Minute, 1, 0},
		{"eight minutes away does not", 8 * time.Minute, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := s.Center.Add(tt.offset)
			table := frame.NewTable([]string{"time", "pmax"})
			table.AppendRow([]string{ts.Format(time.RFC3339), "240.5"})

			out, st, err := newAligner().Align(registry.SamplingMedium, table, []time.Time{ts}, "time", []contracts.DaySession{s})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, out.NumRows())
			assert.Equal(t, tt.wantSkips, st.DaysSkipped)
		})
	}
}

func TestAlign_IrregularNearestWithinTolerance(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := session(start)

	table := frame.NewTable([]string{"fecha", "modulo", "pmp"})
	times := []time.Time{
		s.Center.Add(-45 * time.Minute),
		s.Center.Add(20 * time.Minute), // nearest
		s.Center.Add(55 * time.Minute),
	}
	for i, ts := range times {
		table.AppendRow([]string{ts.Format(time.RFC3339), "1MD434", frame.FormatFloat(float64(100 + i))})
	}

	out, st, err := newAligner().Align(registry.SamplingIrregular, table, times, "fecha", []contracts.DaySession{s})
	require.NoError(t, err)

	assert.Equal(t, Stats{DaysMatched: 1, RowsOut: 1}, st)
	require.Equal(t, 1, out.NumRows())
	v, ok := out.FloatByName(0, "pmp")
	require.True(t, ok)
	assert.InDelta(t, 101.0, v, 1e-9)
}

func TestAlign_IrregularBeyondToleranceSkips(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := session(start)

	ts := s.Center.Add(61 * time.Minute)
	table := frame.NewTable([]string{"fecha", "pmp"})
	table.AppendRow([]string{ts.Format(time.RFC3339), "100"})

	out, st, err := newAligner().Align(registry.SamplingIrregular, table, []time.Time{ts}, "fecha", []contracts.DaySession{s})
	require.NoError(t, err)
	assert.Equal(t, Stats{DaysSkipped: 1}, st)
	assert.Equal(t, 0, out.NumRows())
}

func TestAlign_Errors(t *testing.T) {
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	table, times := minuteTable(start, []float64{1})

	t.Run("unknown sampling class", func(t *testing.T) {
		_, _, err := newAligner().Align("hourly", table, times, "_time", nil)
		assert.Error(t, err)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, _, err := newAligner().Align(registry.SamplingDense, table, nil, "_time", nil)
		assert.Error(t, err)
	})
}
