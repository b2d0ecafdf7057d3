// Package align projects every instrument's readings onto the
// solar-noon session table. Each sampling class gets its own
// selection strategy; all of them stamp the output rows with the
// session's canonical timestamp so downstream joins are exact.
package align

import (
	"fmt"
	"math"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// Config carries the nearest-match tolerances.
type Config struct {
	// MediumTolerance bounds the nearest-sample fallback for 5-minute
	// instruments when the session bin itself is empty.
	MediumTolerance time.Duration
	// IrregularTolerance bounds the nearest-sample match for sparse
	// instruments.
	IrregularTolerance time.Duration
}

// Stats counts one alignment run.
type Stats struct {
	DaysMatched int
	DaysSkipped int
	RowsOut     int
}

// Aligner aligns instrument tables onto day sessions.
type Aligner struct {
	cfg Config
	log *logger.Logger
}

// New creates an Aligner.
func New(cfg Config, log *logger.Logger) *Aligner {
	return &Aligner{cfg: cfg, log: log}
}

// Align dispatches on the instrument's sampling class. times[i] must
// be the UTC instant of table row i (already localized for
// irregular-class instruments); timeCol is dropped in favor of the
// canonical timestamp column.
func (a *Aligner) Align(sampling string, table *frame.Table, times []time.Time, timeCol string, sessionList []contracts.DaySession) (*frame.Table, Stats, error) {
	if table.NumRows() != len(times) {
		return nil, Stats{}, fmt.Errorf("align: %d rows but %d times", table.NumRows(), len(times))
	}
	switch sampling {
	case registry.SamplingDense:
		t, s := a.alignDense(table, times, timeCol, sessionList)
		return t, s, nil
	case registry.SamplingMedium:
		t, s := a.alignMedium(table, times, timeCol, sessionList)
		return t, s, nil
	case registry.SamplingIrregular:
		t, s := a.alignIrregular(table, times, timeCol, sessionList)
		return t, s, nil
	default:
		return nil, Stats{}, fmt.Errorf("align: unknown sampling class %q", sampling)
	}
}

// alignDense averages all in-window samples of each numeric column,
// one output row per session day. Non-numeric columns are dropped.
func (a *Aligner) alignDense(table *frame.Table, times []time.Time, timeCol string, sessionList []contracts.DaySession) (*frame.Table, Stats) {
	numCols := table.NumericColumns(timeCol)
	colIdx := make([]int, len(numCols))
	for i, c := range numCols {
		colIdx[i], _ = table.ColumnIndex(c)
	}

	out := frame.NewTable(append([]string{"timestamp"}, numCols...))
	var st Stats

	for _, s := range sessionList {
		sums := make([]float64, len(numCols))
		counts := make([]int, len(numCols))
		matched := false
		for r, t := range times {
			if !s.Contains(t) {
				continue
			}
			matched = true
			for i, ci := range colIdx {
				if v, ok := table.Float(r, ci); ok {
					sums[i] += v
					counts[i]++
				}
			}
		}
		if !matched {
			st.DaysSkipped++
			continue
		}
		row := make([]string, 0, len(numCols)+1)
		row = append(row, s.Center.UTC().Format(timenorm.TimestampLayout))
		for i := range numCols {
			if counts[i] == 0 {
				row = append(row, "")
			} else {
				row = append(row, frame.FormatFloat(sums[i]/float64(counts[i])))
			}
		}
		out.AppendRow(row)
		st.DaysMatched++
		st.RowsOut++
	}
	return out, st
}

// alignMedium keeps every row whose floored 5-minute bin equals the
// session's bin; when the bin is empty it falls back to the single
// nearest row within the medium tolerance. Full rows survive, so
// per-module sub-entities stay distinct.
func (a *Aligner) alignMedium(table *frame.Table, times []time.Time, timeCol string, sessionList []contracts.DaySession) (*frame.Table, Stats) {
	outCols, colIdx := nonTimeColumns(table, timeCol)
	out := frame.NewTable(append([]string{"timestamp"}, outCols...))
	var st Stats

	for _, s := range sessionList {
		var rows []int
		for r, t := range times {
			if t.Truncate(contracts.SessionWindowLength).Equal(s.WindowStart) {
				rows = append(rows, r)
			}
		}
		if len(rows) == 0 {
			if r, dist := nearestRow(times, s.Center); r >= 0 && dist <= a.cfg.MediumTolerance {
				rows = []int{r}
			}
		}
		if len(rows) == 0 {
			st.DaysSkipped++
			continue
		}
		for _, r := range rows {
			out.AppendRow(copyRow(table, r, colIdx, s.Center))
			st.RowsOut++
		}
		st.DaysMatched++
	}
	return out, st
}

// alignIrregular keeps the single row nearest to the session center,
// within the irregular tolerance.
func (a *Aligner) alignIrregular(table *frame.Table, times []time.Time, timeCol string, sessionList []contracts.DaySession) (*frame.Table, Stats) {
	outCols, colIdx := nonTimeColumns(table, timeCol)
	out := frame.NewTable(append([]string{"timestamp"}, outCols...))
	var st Stats

	for _, s := range sessionList {
		r, dist := nearestRow(times, s.Center)
		if r < 0 || dist > a.cfg.IrregularTolerance {
			st.DaysSkipped++
			continue
		}
		out.AppendRow(copyRow(table, r, colIdx, s.Center))
		st.DaysMatched++
		st.RowsOut++
	}
	return out, st
}

func nonTimeColumns(table *frame.Table, timeCol string) ([]string, []int) {
	var cols []string
	var idx []int
	for i, c := range table.Columns() {
		if c == timeCol {
			continue
		}
		cols = append(cols, c)
		idx = append(idx, i)
	}
	return cols, idx
}

func copyRow(table *frame.Table, r int, colIdx []int, center time.Time) []string {
	row := make([]string, 0, len(colIdx)+1)
	row = append(row, center.UTC().Format(timenorm.TimestampLayout))
	for _, ci := range colIdx {
		row = append(row, table.Value(r, ci))
	}
	return row
}

// nearestRow returns the row index whose time is closest to target,
// first occurrence winning ties, or -1 for an empty series.
func nearestRow(times []time.Time, target time.Time) (int, time.Duration) {
	best := -1
	bestDist := time.Duration(math.MaxInt64)
	for r, t := range times {
		d := t.Sub(target)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best = r
			bestDist = d
		}
	}
	return best, bestDist
}
