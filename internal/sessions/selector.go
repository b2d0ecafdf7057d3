// Package sessions builds the day→window reference frame every other
// stage aligns to: one solar-noon measurement session per accepted day
// from the reference instrument, plus per-day irradiance stability
// verdicts.
package sessions

import (
	"fmt"
	"sort"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/solarpos"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// SelectorConfig carries the site and the session-acceptance rules.
type SelectorConfig struct {
	Site solarpos.Site
	// MaxDist rejects a day when its best bin center sits further than
	// this from solar noon.
	MaxDist time.Duration
	// MinCurrentA drops raw rows where any of CurrentColumns reads
	// below this many amperes before binning.
	MinCurrentA    float64
	CurrentColumns []string
}

// Selector chooses each day's canonical 5-minute session from the
// reference instrument.
type Selector struct {
	cfg SelectorConfig
	log *logger.Logger
}

// NewSelector creates a Selector.
func NewSelector(cfg SelectorConfig, log *logger.Logger) *Selector {
	return &Selector{cfg: cfg, log: log}
}

// Result is the session-selection output: the session list, the
// canonical per-session data rows, and rejection counters.
type Result struct {
	Sessions []contracts.DaySession
	// Data holds one row per session: canonical timestamp plus the
	// reference instrument's aggregated channels. It doubles as the
	// reference instrument's aligned table.
	Data *frame.Table

	DaysScanned  int
	DaysRejected int
	RowsDropped  int // raw rows failing the minimum-current guard
}

type binAgg struct {
	start time.Time
	sums  []float64
	count []int
}

// Select bins the reference series into 5-minute windows, finds each
// day's bin nearest to solar noon and accepts it when the distance is
// inside MaxDist. times[i] must be the UTC instant of table row i;
// timeCol names the raw time column, which is dropped in favor of the
// canonical timestamp.
func (s *Selector) Select(table *frame.Table, times []time.Time, timeCol string) (*Result, error) {
	if table.NumRows() != len(times) {
		return nil, fmt.Errorf("sessions: %d rows but %d times", table.NumRows(), len(times))
	}

	var dataCols []string
	for _, c := range table.Columns() {
		if c != timeCol {
			dataCols = append(dataCols, c)
		}
	}
	colIdx := make([]int, len(dataCols))
	for i, c := range dataCols {
		colIdx[i], _ = table.ColumnIndex(c)
	}

	guardIdx := make([]int, 0, len(s.cfg.CurrentColumns))
	for _, c := range s.cfg.CurrentColumns {
		idx, ok := table.ColumnIndex(c)
		if !ok {
			return nil, fmt.Errorf("sessions: current guard column %q missing", c)
		}
		guardIdx = append(guardIdx, idx)
	}

	// Aggregate surviving rows into floored 5-minute bins.
	bins := make(map[int64]*binAgg)
	dropped := 0
	for r := 0; r < table.NumRows(); r++ {
		if !s.passesGuard(table, r, guardIdx) {
			dropped++
			continue
		}
		start := times[r].Truncate(contracts.SessionWindowLength)
		key := start.Unix()
		agg, ok := bins[key]
		if !ok {
			agg = &binAgg{start: start, sums: make([]float64, len(dataCols)), count: make([]int, len(dataCols))}
			bins[key] = agg
		}
		for i, ci := range colIdx {
			if v, ok := table.Float(r, ci); ok {
				agg.sums[i] += v
				agg.count[i]++
			}
		}
	}

	// Group bins by UTC day.
	byDay := make(map[int64][]*binAgg)
	for _, agg := range bins {
		day := contracts.DateOf(agg.start).Unix()
		byDay[day] = append(byDay[day], agg)
	}
	days := make([]int64, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(a, b int) bool { return days[a] < days[b] })

	outCols := append([]string{"timestamp", "date", "window_start", "window_end", "dist_solar_noon_min"}, dataCols...)
	data := frame.NewTable(outCols)

	res := &Result{Data: data, RowsDropped: dropped}
	for _, d := range days {
		res.DaysScanned++
		date := time.Unix(d, 0).UTC()
		dayBins := byDay[d]
		sort.Slice(dayBins, func(a, b int) bool { return dayBins[a].start.Before(dayBins[b].start) })

		noon := solarpos.SolarNoon(s.cfg.Site, date)

		var best *binAgg
		bestDist := time.Duration(0)
		for _, bin := range dayBins {
			center := bin.start.Add(contracts.SessionWindowLength / 2)
			dist := absDuration(center.Sub(noon))
			// Strict less keeps the chronologically first bin on ties.
			if best == nil || dist < bestDist {
				best = bin
				bestDist = dist
			}
		}
		if best == nil || bestDist > s.cfg.MaxDist {
			res.DaysRejected++
			continue
		}

		session := contracts.DaySession{
			Date:             date,
			Center:           best.start.Add(contracts.SessionWindowLength / 2),
			WindowStart:      best.start,
			WindowEnd:        best.start.Add(contracts.SessionWindowLength),
			DistSolarNoonMin: bestDist.Minutes(),
		}
		res.Sessions = append(res.Sessions, session)

		row := make([]string, 0, len(outCols))
		row = append(row,
			formatTimestamp(session.Center),
			formatDate(session.Date),
			formatTimestamp(session.WindowStart),
			formatTimestamp(session.WindowEnd),
			frame.FormatFloat(session.DistSolarNoonMin),
		)
		for i := range dataCols {
			if best.count[i] == 0 {
				row = append(row, "")
			} else {
				row = append(row, frame.FormatFloat(best.sums[i]/float64(best.count[i])))
			}
		}
		data.AppendRow(row)
	}

	s.log.WithFields(map[string]interface{}{
		"days_scanned":  res.DaysScanned,
		"days_accepted": len(res.Sessions),
		"days_rejected": res.DaysRejected,
		"rows_dropped":  res.RowsDropped,
	}).Info("Solar-noon session selection done")

	return res, nil
}

func (s *Selector) passesGuard(table *frame.Table, row int, guardIdx []int) bool {
	for _, gi := range guardIdx {
		v, ok := table.Float(row, gi)
		if !ok || v < s.cfg.MinCurrentA {
			return false
		}
	}
	return true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
