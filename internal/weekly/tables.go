package weekly

import (
	"math"
	"sort"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/stats"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

// Result collects every series' weekly rows in presentation order.
type Result struct {
	Labels []string
	rows   map[string][]WeekRow
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{rows: make(map[string][]WeekRow)}
}

// Add appends one series' weekly rows. Label order is first-added.
func (res *Result) Add(label string, rows []WeekRow) {
	if _, dup := res.rows[label]; !dup {
		res.Labels = append(res.Labels, label)
	}
	res.rows[label] = rows
}

// Rows returns one series' weekly rows.
func (res *Result) Rows(label string) []WeekRow {
	return res.rows[label]
}

// Weeks returns the sorted union of all series' weeks.
func (res *Result) Weeks() []time.Time {
	set := make(map[int64]bool)
	for _, rows := range res.rows {
		for _, r := range rows {
			set[r.Week.Unix()] = true
		}
	}
	weeks := make([]int64, 0, len(set))
	for w := range set {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })

	out := make([]time.Time, len(weeks))
	for i, w := range weeks {
		out[i] = time.Unix(w, 0).UTC()
	}
	return out
}

// WideTable lays the weekly q25 values out as week rows by series
// columns. Absent weeks are empty cells.
func (res *Result) WideTable() *frame.Table {
	return res.wideBy(func(rows []WeekRow) map[int64]float64 {
		m := make(map[int64]float64, len(rows))
		for _, r := range rows {
			m[r.Week.Unix()] = r.Q25
		}
		return m
	})
}

// NormalizedTable rebases each series so its first available week
// reads 100, making cross-instrument soiling trajectories comparable
// regardless of each instrument's absolute scale.
func (res *Result) NormalizedTable() *frame.Table {
	return res.wideBy(func(rows []WeekRow) map[int64]float64 {
		m := make(map[int64]float64, len(rows))
		if len(rows) == 0 {
			return m
		}
		base := rows[0].Q25
		for _, r := range rows {
			if base == 0 || math.IsNaN(base) {
				m[r.Week.Unix()] = math.NaN()
				continue
			}
			m[r.Week.Unix()] = 100 * r.Q25 / base
		}
		return m
	})
}

func (res *Result) wideBy(project func([]WeekRow) map[int64]float64) *frame.Table {
	table := frame.NewTable(append([]string{"semana"}, res.Labels...))
	byLabel := make(map[string]map[int64]float64, len(res.Labels))
	for _, label := range res.Labels {
		byLabel[label] = project(res.rows[label])
	}

	for _, w := range res.Weeks() {
		row := make([]string, 0, len(res.Labels)+1)
		row = append(row, w.Format(timenorm.DateLayout))
		for _, label := range res.Labels {
			v, ok := byLabel[label][w.Unix()]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, frame.FormatFloat(v))
		}
		table.AppendRow(row)
	}
	return table
}

// LongTable lays the result out one row per week and series, with the
// std and n error-bar columns the wide view has no room for.
func (res *Result) LongTable() *frame.Table {
	table := frame.NewTable([]string{"semana", "serie", "sr_q25", "std", "n"})
	for _, label := range res.Labels {
		for _, r := range res.rows[label] {
			table.AppendRow([]string{
				r.Week.Format(timenorm.DateLayout),
				label,
				frame.FormatFloat(r.Q25),
				frame.FormatFloat(r.Std),
				frame.FormatInt(r.N),
			})
		}
	}
	return table
}

// DispersionTable summarizes each series' weekly q25 values across
// weeks. Series with fewer than two weeks are skipped; a dispersion
// figure from one week would be noise dressed as signal.
func (res *Result) DispersionTable() *frame.Table {
	table := frame.NewTable([]string{
		"serie", "n_semanas", "mean", "std", "cv_pct",
		"min", "p05", "p25", "p50", "p75", "p95", "max", "rango_p95_p05",
	})

	for _, label := range res.Labels {
		rows := res.rows[label]
		if len(rows) < 2 {
			continue
		}
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = r.Q25
		}

		mean := stats.Mean(vals)
		std := stats.SampleStd(vals)
		min, max := stats.MinMax(vals)
		p05 := stats.Percentile(vals, 5)
		p95 := stats.Percentile(vals, 95)

		table.AppendRow([]string{
			label,
			frame.FormatInt(len(rows)),
			frame.FormatFloat(mean),
			frame.FormatFloat(std),
			frame.FormatFloat(stats.CVPercent(vals)),
			frame.FormatFloat(min),
			frame.FormatFloat(p05),
			frame.FormatFloat(stats.Percentile(vals, 25)),
			frame.FormatFloat(stats.Percentile(vals, 50)),
			frame.FormatFloat(stats.Percentile(vals, 75)),
			frame.FormatFloat(p95),
			frame.FormatFloat(max),
			frame.FormatFloat(p95 - p05),
		})
	}
	return table
}
