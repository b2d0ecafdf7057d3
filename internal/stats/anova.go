package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// AnovaResult is a one-way ANOVA outcome.
type AnovaResult struct {
	F         float64
	P         float64
	DFBetween int
	DFWithin  int
}

// OneWayANOVA runs the fixed-effects F test across k groups.
func OneWayANOVA(groups []Group) (AnovaResult, error) {
	k := len(groups)
	if k < 2 {
		return AnovaResult{}, fmt.Errorf("stats: anova needs >= 2 groups, got %d", k)
	}
	n := totalN(groups)
	if n <= k {
		return AnovaResult{}, fmt.Errorf("stats: anova needs more observations than groups (n=%d, k=%d)", n, k)
	}

	grand := Mean(pooled(groups))
	ssb := 0.0
	ssw := 0.0
	for _, g := range groups {
		if len(g.Values) == 0 {
			return AnovaResult{}, fmt.Errorf("stats: anova group %q is empty", g.Name)
		}
		gm := Mean(g.Values)
		d := gm - grand
		ssb += float64(len(g.Values)) * d * d
		for _, v := range g.Values {
			e := v - gm
			ssw += e * e
		}
	}
	if ssw == 0 {
		return AnovaResult{}, fmt.Errorf("stats: anova undefined, zero within-group variance")
	}

	dfb := k - 1
	dfw := n - k
	f := (ssb / float64(dfb)) / (ssw / float64(dfw))

	fdist := distuv.F{D1: float64(dfb), D2: float64(dfw)}
	p := 1 - fdist.CDF(f)

	return AnovaResult{F: f, P: p, DFBetween: dfb, DFWithin: dfw}, nil
}

// TukeyPair is one post-hoc pairwise comparison. MeanDiff is
// mean(GroupB) - mean(GroupA); Lower and Upper bound the family-wise
// confidence interval at the given alpha.
type TukeyPair struct {
	GroupA   string
	GroupB   string
	MeanDiff float64
	PAdj     float64
	Lower    float64
	Upper    float64
	Reject   bool
}

// TukeyHSD runs Tukey's honestly-significant-difference test over all
// group pairs, using the pooled within-group variance from the ANOVA
// decomposition and the studentized-range distribution for adjusted
// p-values.
func TukeyHSD(groups []Group, alpha float64) ([]TukeyPair, error) {
	k := len(groups)
	if k < 2 {
		return nil, fmt.Errorf("stats: tukey needs >= 2 groups, got %d", k)
	}
	n := totalN(groups)
	if n <= k {
		return nil, fmt.Errorf("stats: tukey needs more observations than groups (n=%d, k=%d)", n, k)
	}

	means := make([]float64, k)
	ssw := 0.0
	for j, g := range groups {
		if len(g.Values) == 0 {
			return nil, fmt.Errorf("stats: tukey group %q is empty", g.Name)
		}
		means[j] = Mean(g.Values)
		for _, v := range g.Values {
			e := v - means[j]
			ssw += e * e
		}
	}
	if ssw == 0 {
		return nil, fmt.Errorf("stats: tukey undefined, zero within-group variance")
	}
	dfw := float64(n - k)
	msw := ssw / dfw

	qCrit, err := StudentizedRangeQuantile(1-alpha, k, dfw)
	if err != nil {
		return nil, err
	}

	var pairs []TukeyPair
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			ni := float64(len(groups[i].Values))
			nj := float64(len(groups[j].Values))
			diff := means[j] - means[i]
			se := math.Sqrt(msw / 2 * (1/ni + 1/nj))

			q := math.Abs(diff) / se
			pAdj := 1 - StudentizedRangeCDF(q, k, dfw)
			if pAdj < 0 {
				pAdj = 0
			}

			half := qCrit * se
			pairs = append(pairs, TukeyPair{
				GroupA:   groups[i].Name,
				GroupB:   groups[j].Name,
				MeanDiff: diff,
				PAdj:     pAdj,
				Lower:    diff - half,
				Upper:    diff + half,
				Reject:   pAdj < alpha,
			})
		}
	}
	return pairs, nil
}
