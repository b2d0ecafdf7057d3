package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// KruskalResult is the Kruskal-Wallis H test outcome.
type KruskalResult struct {
	H float64
	P float64
}

// KruskalWallis runs the rank-based k-group test with tie correction.
// The chi-squared approximation carries k-1 degrees of freedom.
func KruskalWallis(groups []Group) (KruskalResult, error) {
	k := len(groups)
	if k < 2 {
		return KruskalResult{}, fmt.Errorf("stats: kruskal needs >= 2 groups, got %d", k)
	}
	for _, g := range groups {
		if len(g.Values) == 0 {
			return KruskalResult{}, fmt.Errorf("stats: kruskal group %q is empty", g.Name)
		}
	}

	all := pooled(groups)
	n := len(all)
	ranks, ties := AverageRanks(all)

	h := 0.0
	offset := 0
	for _, g := range groups {
		sum := 0.0
		for i := range g.Values {
			sum += ranks[offset+i]
		}
		offset += len(g.Values)
		h += sum * sum / float64(len(g.Values))
	}
	fn := float64(n)
	h = 12/(fn*(fn+1))*h - 3*(fn+1)

	// Tie correction.
	tieSum := 0.0
	for _, t := range ties {
		ft := float64(t)
		tieSum += ft*ft*ft - ft
	}
	correction := 1 - tieSum/(fn*fn*fn-fn)
	if correction == 0 {
		return KruskalResult{}, fmt.Errorf("stats: kruskal undefined, all values identical")
	}
	h /= correction

	chi := distuv.ChiSquared{K: float64(k - 1)}
	p := 1 - chi.CDF(h)

	return KruskalResult{H: h, P: p}, nil
}

// DunnPair is one post-hoc rank comparison with its Bonferroni-
// adjusted p-value.
type DunnPair struct {
	GroupA string
	GroupB string
	Z      float64
	P      float64
	PAdj   float64
}

// DunnTest runs Dunn's post-hoc test over all group pairs on the
// shared ranking, with the tie-corrected pooled variance and
// Bonferroni adjustment across the k(k-1)/2 comparisons.
func DunnTest(groups []Group) ([]DunnPair, error) {
	k := len(groups)
	if k < 2 {
		return nil, fmt.Errorf("stats: dunn needs >= 2 groups, got %d", k)
	}
	for _, g := range groups {
		if len(g.Values) == 0 {
			return nil, fmt.Errorf("stats: dunn group %q is empty", g.Name)
		}
	}

	all := pooled(groups)
	n := float64(len(all))
	ranks, ties := AverageRanks(all)

	meanRanks := make([]float64, k)
	offset := 0
	for j, g := range groups {
		sum := 0.0
		for i := range g.Values {
			sum += ranks[offset+i]
		}
		offset += len(g.Values)
		meanRanks[j] = sum / float64(len(g.Values))
	}

	tieSum := 0.0
	for _, t := range ties {
		ft := float64(t)
		tieSum += ft*ft*ft - ft
	}
	tieTerm := tieSum / (12 * (n - 1))

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	m := float64(k*(k-1)) / 2

	var pairs []DunnPair
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			ni := float64(len(groups[i].Values))
			nj := float64(len(groups[j].Values))
			variance := (n*(n+1)/12 - tieTerm) * (1/ni + 1/nj)
			if variance <= 0 {
				return nil, fmt.Errorf("stats: dunn undefined, non-positive variance")
			}
			z := (meanRanks[i] - meanRanks[j]) / math.Sqrt(variance)
			p := 2 * (1 - normal.CDF(math.Abs(z)))
			pAdj := p * m
			if pAdj > 1 {
				pAdj = 1
			}
			pairs = append(pairs, DunnPair{
				GroupA: groups[i].Name,
				GroupB: groups[j].Name,
				Z:      z,
				P:      p,
				PAdj:   pAdj,
			})
		}
	}
	return pairs, nil
}
