// Package compare quantifies agreement between the instruments'
// weekly soiling series: pairwise correlation, bias and RMSE, then
// omnibus group tests with post-hoc pairs. Everything reports its n;
// a statistic without its sample size invites overreading.
package compare

import (
	"fmt"
	"sort"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

// SeriesSet holds the weekly series of every instrument, indexed by
// week. Weeks where an instrument has no value are simply absent from
// its map.
type SeriesSet struct {
	Labels []string
	weeks  []time.Time
	values map[string]map[int64]float64
}

// LoadSeriesSet parses a wide weekly table (semana column plus one
// column per series).
func LoadSeriesSet(table *frame.Table) (*SeriesSet, error) {
	wi, ok := table.ColumnIndex("semana")
	if !ok {
		return nil, fmt.Errorf("compare: weekly table has no semana column")
	}

	ss := &SeriesSet{values: make(map[string]map[int64]float64)}
	var labelIdx []int
	for i, c := range table.Columns() {
		if i == wi {
			continue
		}
		ss.Labels = append(ss.Labels, c)
		ss.values[c] = make(map[int64]float64)
		labelIdx = append(labelIdx, i)
	}

	for r := 0; r < table.NumRows(); r++ {
		week, err := time.Parse(timenorm.DateLayout, table.Value(r, wi))
		if err != nil {
			return nil, fmt.Errorf("compare: row %d: bad week %q", r, table.Value(r, wi))
		}
		week = week.UTC()
		ss.weeks = append(ss.weeks, week)
		for j, ci := range labelIdx {
			if v, ok := table.Float(r, ci); ok {
				ss.values[ss.Labels[j]][week.Unix()] = v
			}
		}
	}

	sort.Slice(ss.weeks, func(i, j int) bool { return ss.weeks[i].Before(ss.weeks[j]) })
	return ss, nil
}

// Values returns one series' values in week order, skipping absent
// weeks.
func (ss *SeriesSet) Values(label string) []float64 {
	var out []float64
	m := ss.values[label]
	for _, w := range ss.weeks {
		if v, ok := m[w.Unix()]; ok {
			out = append(out, v)
		}
	}
	return out
}

// N returns one series' week count.
func (ss *SeriesSet) N(label string) int {
	return len(ss.values[label])
}

// Paired returns the two series restricted to their common weeks, in
// week order.
func (ss *SeriesSet) Paired(labelA, labelB string) (a, b []float64) {
	ma, mb := ss.values[labelA], ss.values[labelB]
	for _, w := range ss.weeks {
		va, okA := ma[w.Unix()]
		vb, okB := mb[w.Unix()]
		if okA && okB {
			a = append(a, va)
			b = append(b, vb)
		}
	}
	return a, b
}

// IntersectionWeeks returns the weeks where every series has a value.
func (ss *SeriesSet) IntersectionWeeks() []time.Time {
	var out []time.Time
	for _, w := range ss.weeks {
		all := true
		for _, label := range ss.Labels {
			if _, ok := ss.values[label][w.Unix()]; !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, w)
		}
	}
	return out
}

// ValuesAt returns one series' values on the given weeks; weeks the
// series lacks yield no entry, so callers should pass intersection
// weeks.
func (ss *SeriesSet) ValuesAt(label string, weeks []time.Time) []float64 {
	var out []float64
	m := ss.values[label]
	for _, w := range weeks {
		if v, ok := m[w.Unix()]; ok {
			out = append(out, v)
		}
	}
	return out
}
