// Package stats implements the statistical machinery the pipeline
// reports on: quantiles matching the aggregation conventions of the
// historical result set, Pearson correlation with significance, and
// the group-comparison tests (Shapiro-Wilk, Levene, one-way ANOVA with
// Tukey HSD, Kruskal-Wallis with Dunn). Distribution tails come from
// gonum's distuv; only statistics gonum does not provide are
// implemented here.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (p in [0, 100]) using linear
// interpolation between closest ranks, the same estimator the weekly
// Q25 tables have always been built with. NaN when data is empty.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

// percentileSorted assumes ascending order.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Quartiles returns the 25th, 50th and 75th percentiles in one sort.
func Quartiles(data []float64) (q25, q50, q75 float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, 25), percentileSorted(sorted, 50), percentileSorted(sorted, 75)
}

// Mean returns the arithmetic mean, NaN for empty input.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// SampleStd returns the sample standard deviation (n-1 denominator),
// NaN for fewer than two values.
func SampleStd(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	return stat.StdDev(data, nil)
}

// CVPercent returns the coefficient of variation in percent, NaN when
// the mean is zero or the std undefined.
func CVPercent(data []float64) float64 {
	m := Mean(data)
	s := SampleStd(data)
	if math.IsNaN(s) || m == 0 {
		return math.NaN()
	}
	return s / math.Abs(m) * 100
}

// MinMax returns the smallest and largest value, NaNs for empty input.
func MinMax(data []float64) (min, max float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}
	min, max = data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// DropNaN returns the values that are not NaN, preserving order.
func DropNaN(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
