// Package weekly rolls each instrument's daily soiling ratios into
// Monday-anchored weekly summaries. The representative weekly value is
// the 25th percentile: partial cleaning events push single days up,
// and the low quartile suppresses those excursions where a mean would
// chase them.
package weekly

import (
	"fmt"
	"sort"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/stats"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// Series is one instrument's deduplicated daily SR series.
type Series struct {
	Label  string
	Dates  []time.Time
	Values []float64
}

// WeekRow is one week's summary of the underlying daily values.
type WeekRow struct {
	Week time.Time // Monday, UTC midnight
	Q25  float64
	Std  float64 // sample std, NaN when n < 2
	N    int
}

// Aggregator builds daily series and weekly summaries.
type Aggregator struct {
	floor float64
	log   *logger.Logger
}

// New creates an Aggregator. floorPct re-checks the SR outlier floor
// on the way in so weekly buckets never average rejected days.
func New(floorPct float64, log *logger.Logger) *Aggregator {
	return &Aggregator{floor: floorPct, log: log}
}

// DailySeries extracts one SR column as a daily series: the first
// parseable value per calendar date wins, later duplicates are
// dropped, and dates whose value sits under the floor are excluded.
func (a *Aggregator) DailySeries(label string, table *frame.Table, times []time.Time, column string) (Series, error) {
	ci, ok := table.ColumnIndex(column)
	if !ok {
		return Series{}, fmt.Errorf("weekly: series %q: no column %q", label, column)
	}

	s := Series{Label: label}
	seen := make(map[int64]bool)
	droppedFloor := 0
	for r := 0; r < table.NumRows(); r++ {
		v, ok := table.Float(r, ci)
		if !ok {
			continue
		}
		date := contracts.DateOf(times[r])
		if seen[date.Unix()] {
			continue
		}
		seen[date.Unix()] = true
		if v < a.floor {
			droppedFloor++
			continue
		}
		s.Dates = append(s.Dates, date)
		s.Values = append(s.Values, v)
	}

	a.log.WithFields(map[string]interface{}{
		"serie":         label,
		"days":          len(s.Values),
		"dropped_floor": droppedFloor,
	}).Info("Daily SR series built")
	return s, nil
}

// Aggregate buckets a daily series into Monday-anchored weeks. Weeks
// with no valid days are absent from the result.
func (a *Aggregator) Aggregate(s Series) []WeekRow {
	byWeek := make(map[int64][]float64)
	for i, d := range s.Dates {
		w := WeekStart(d)
		byWeek[w.Unix()] = append(byWeek[w.Unix()], s.Values[i])
	}

	weeks := make([]int64, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })

	rows := make([]WeekRow, 0, len(weeks))
	for _, w := range weeks {
		vals := byWeek[w]
		rows = append(rows, WeekRow{
			Week: time.Unix(w, 0).UTC(),
			Q25:  stats.Percentile(vals, 25),
			Std:  stats.SampleStd(vals),
			N:    len(vals),
		})
	}
	return rows
}

// WeekStart floors a UTC date to the Monday of its week.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
