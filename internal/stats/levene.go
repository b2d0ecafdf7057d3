package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LeveneResult is the homogeneity-of-variance test outcome.
type LeveneResult struct {
	Stat float64
	P    float64
}

// Levene runs the Brown-Forsythe variant of Levene's test (absolute
// deviations from the group median), which is what the historical
// analysis ran. Needs at least two groups and more observations than
// groups.
func Levene(groups []Group) (LeveneResult, error) {
	k := len(groups)
	if k < 2 {
		return LeveneResult{}, fmt.Errorf("stats: levene needs >= 2 groups, got %d", k)
	}
	n := totalN(groups)
	if n <= k {
		return LeveneResult{}, fmt.Errorf("stats: levene needs more observations than groups (n=%d, k=%d)", n, k)
	}

	// z_ij = |x_ij - median_j|
	zGroups := make([][]float64, k)
	zMeans := make([]float64, k)
	grand := 0.0
	for j, g := range groups {
		if len(g.Values) == 0 {
			return LeveneResult{}, fmt.Errorf("stats: levene group %q is empty", g.Name)
		}
		med := Percentile(g.Values, 50)
		z := make([]float64, len(g.Values))
		for i, v := range g.Values {
			z[i] = math.Abs(v - med)
		}
		zGroups[j] = z
		zMeans[j] = Mean(z)
		grand += zMeans[j] * float64(len(z))
	}
	grand /= float64(n)

	between := 0.0
	within := 0.0
	for j, z := range zGroups {
		nj := float64(len(z))
		d := zMeans[j] - grand
		between += nj * d * d
		for _, v := range z {
			e := v - zMeans[j]
			within += e * e
		}
	}
	if within == 0 {
		return LeveneResult{}, fmt.Errorf("stats: levene undefined, zero within-group spread")
	}

	dfb := float64(k - 1)
	dfw := float64(n - k)
	w := (dfw / dfb) * (between / within)

	fdist := distuv.F{D1: dfb, D2: dfw}
	p := 1 - fdist.CDF(w)

	return LeveneResult{Stat: w, P: p}, nil
}
