package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinPearsonN is the minimum number of paired observations for a
// correlation to be reported at all.
const MinPearsonN = 4

// PearsonResult is a pairwise correlation with its significance.
type PearsonResult struct {
	R float64
	P float64
	N int
}

// Pearson computes the correlation between two equally long series and
// the two-sided p-value of the t statistic with n-2 degrees of
// freedom. Fewer than MinPearsonN pairs, or a degenerate series with
// zero variance, is an error so the caller can skip the pair instead
// of publishing a fabricated number.
func Pearson(x, y []float64) (PearsonResult, error) {
	if len(x) != len(y) {
		return PearsonResult{}, fmt.Errorf("stats: length mismatch %d vs %d", len(x), len(y))
	}
	n := len(x)
	if n < MinPearsonN {
		return PearsonResult{}, fmt.Errorf("stats: need >= %d pairs, got %d", MinPearsonN, n)
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return PearsonResult{}, fmt.Errorf("stats: undefined correlation (zero variance)")
	}
	// Clamp rounding spill before the t transform.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	df := float64(n - 2)
	var p float64
	if 1-r*r < 1e-15 {
		p = 0
	} else {
		t := r * math.Sqrt(df/(1-r*r))
		tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		p = 2 * (1 - tdist.CDF(math.Abs(t)))
	}

	return PearsonResult{R: r, P: p, N: n}, nil
}

// PairwiseComplete drops index positions where either series is NaN
// and returns the paired remainder.
func PairwiseComplete(x, y []float64) (px, py []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		px = append(px, x[i])
		py = append(py, y[i])
	}
	return px, py
}
