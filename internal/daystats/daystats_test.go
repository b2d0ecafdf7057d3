package daystats

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

func windowSession(dayOfMonth int) contracts.DaySession {
	start := time.Date(2023, 7, dayOfMonth, 16, 40, 0, 0, time.UTC)
	return contracts.DaySession{
		Date:        contracts.DateOf(start),
		Center:      start.Add(contracts.SessionWindowLength / 2),
		WindowStart: start,
		WindowEnd:   start.Add(contracts.SessionWindowLength),
	}
}

func TestCompute(t *testing.T) {
	s1 := windowSession(3)
	s2 := windowSession(4)

	times := []time.Time{
		s1.WindowStart,
		s1.WindowStart.Add(time.Minute),
		s1.WindowStart.Add(2 * time.Minute),
		s1.WindowStart.Add(3 * time.Minute),
		s1.WindowStart.Add(time.Hour), // outside every window
	}
	values := []float64{1000, 1010, 990, math.NaN(), 2000}

	analyzer := New(logger.NewNop())
	out := analyzer.Compute("refcells", "1RC411(w.m-2)", []contracts.DaySession{s1, s2}, times, values)

	assert.Equal(t, "refcells", out.Instrument)
	assert.Equal(t, "1RC411(w.m-2)", out.Channel)
	// Day 2 had no in-window samples at all, so it is absent.
	require.Len(t, out.Days, 1)

	d := out.Days[0]
	assert.True(t, d.Date.Equal(time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, d.N)
	assert.InDelta(t, 1000, d.Mean, 1e-9)
	assert.InDelta(t, 10, d.Std, 1e-9)
	assert.InDelta(t, 990, d.Min, 1e-9)
	assert.InDelta(t, 1010, d.Max, 1e-9)
	assert.InDelta(t, 20, d.Range, 1e-9)
	assert.InDelta(t, 1.0, d.CVPct, 1e-9)
}

func TestCompute_SingleSampleDay(t *testing.T) {
	s := windowSession(3)
	analyzer := New(logger.NewNop())
	out := analyzer.Compute("dustiq", "SR_C11_Avg", []contracts.DaySession{s},
		[]time.Time{s.WindowStart}, []float64{98.2})

	require.Len(t, out.Days, 1)
	d := out.Days[0]
	assert.Equal(t, 1, d.N)
	assert.InDelta(t, 98.2, d.Mean, 1e-9)
	assert.True(t, math.IsNaN(d.Std), "sample std needs two values")
	assert.True(t, math.IsNaN(d.CVPct))
	assert.InDelta(t, 0, d.Range, 1e-9)
}

func TestStatsTable(t *testing.T) {
	entries := []InstrumentStats{
		{
			Instrument: "refcells",
			Channel:    "1RC411(w.m-2)",
			Days: []DayStat{
				{Date: time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC), N: 3, Mean: 1000, Std: 10, Min: 990, Max: 1010, Range: 20, CVPct: 1},
				{Date: time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC), N: 1, Mean: 98.2, Std: math.NaN(), Min: 98.2, Max: 98.2, CVPct: math.NaN()},
			},
		},
		{Instrument: "dustiq", Channel: "SR_C11_Avg"},
	}

	table := StatsTable(entries)
	assert.Equal(t, []string{
		"instrumento", "canal", "fecha", "n",
		"mean", "std", "min", "max", "range", "cv_pct",
	}, table.Columns())
	require.Equal(t, 2, table.NumRows())

	get := func(row int, col string) string {
		i, ok := table.ColumnIndex(col)
		require.True(t, ok)
		return table.Value(row, i)
	}
	assert.Equal(t, "refcells", get(0, "instrumento"))
	assert.Equal(t, "2023-07-03", get(0, "fecha"))
	assert.Equal(t, "3", get(0, "n"))
	assert.Equal(t, "1000.000", get(0, "mean"))
	assert.Equal(t, "10.000", get(0, "std"))
	// NaN statistics stay empty instead of printing as text.
	assert.Equal(t, "", get(1, "std"))
	assert.Equal(t, "", get(1, "cv_pct"))
}

func TestReport(t *testing.T) {
	entries := []InstrumentStats{
		{
			Instrument: "refcells",
			Channel:    "1RC411(w.m-2)",
			Days: []DayStat{
				{Date: time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC), N: 3, Mean: 1000, Std: 10, CVPct: 1},
				{Date: time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC), N: 4, Mean: 1004, Std: 12, CVPct: 1.2},
			},
		},
		{Instrument: "iv600", Channel: "pmp"},
	}

	report := Report(entries, time.Date(2023, 8, 1, 12, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(report, "# Estabilidad intradía"))
	assert.Contains(t, report, "Generado: 2023-08-01 12:00:00+00:00")
	assert.Contains(t, report, "## refcells (1RC411(w.m-2))")
	assert.Contains(t, report, "- días analizados: 2")
	assert.Contains(t, report, "| n | mean | std |")
	// An instrument with no windowed days still gets its section.
	assert.Contains(t, report, "## iv600 (pmp)")
	assert.Contains(t, report, "Sin días con muestras en ventana.")
}
