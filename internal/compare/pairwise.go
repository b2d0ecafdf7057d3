package compare

import (
	"math"
	"sort"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/stats"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// PairResult is one instrument pair's agreement summary over the
// weeks both have.
type PairResult struct {
	A, B        string
	N           int
	R           float64
	P           float64
	Significant bool
	BiasPP      float64 // mean(A-B), percentage points
	RMSEPP      float64
}

// Comparator runs the cross-instrument statistics.
type Comparator struct {
	alpha float64
	log   *logger.Logger
}

// New creates a Comparator. alpha is the shared significance level.
func New(alpha float64, log *logger.Logger) *Comparator {
	return &Comparator{alpha: alpha, log: log}
}

// Pairs correlates every label pair on its pairwise-complete weeks.
// Pairs under the minimum overlap are omitted entirely. Sorted by
// descending r.
func (c *Comparator) Pairs(ss *SeriesSet) []PairResult {
	var out []PairResult
	skipped := 0
	for i := 0; i < len(ss.Labels); i++ {
		for j := i + 1; j < len(ss.Labels); j++ {
			a, b := ss.Paired(ss.Labels[i], ss.Labels[j])
			pr, err := stats.Pearson(a, b)
			if err != nil {
				skipped++
				continue
			}
			out = append(out, PairResult{
				A:           ss.Labels[i],
				B:           ss.Labels[j],
				N:           pr.N,
				R:           pr.R,
				P:           pr.P,
				Significant: pr.P < c.alpha,
				BiasPP:      bias(a, b),
				RMSEPP:      rmse(a, b),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].R > out[j].R })

	c.log.WithFields(map[string]interface{}{
		"pairs":   len(out),
		"skipped": skipped,
	}).Info("Pairwise correlations computed")
	return out
}

// Matrices lays the pairwise results out as full square r, p and n
// tables. Diagonals are r=1, p=0 and the series' own week count; cells
// of under-sampled pairs stay empty in r and p while n still shows the
// overlap.
func (c *Comparator) Matrices(ss *SeriesSet) (rTab, pTab, nTab *frame.Table) {
	cols := append([]string{""}, ss.Labels...)
	rTab = frame.NewTable(cols)
	pTab = frame.NewTable(cols)
	nTab = frame.NewTable(cols)

	type cell struct {
		r, p float64
		n    int
	}
	get := func(a, b string) cell {
		if a == b {
			return cell{r: 1, p: 0, n: ss.N(a)}
		}
		x, y := ss.Paired(a, b)
		pr, err := stats.Pearson(x, y)
		if err != nil {
			return cell{r: math.NaN(), p: math.NaN(), n: len(x)}
		}
		return cell{r: pr.R, p: pr.P, n: pr.N}
	}

	for _, a := range ss.Labels {
		rRow := []string{a}
		pRow := []string{a}
		nRow := []string{a}
		for _, b := range ss.Labels {
			cl := get(a, b)
			rRow = append(rRow, frame.FormatFloatPrec(cl.r, 4))
			pRow = append(pRow, frame.FormatFloatPrec(cl.p, 6))
			nRow = append(nRow, frame.FormatInt(cl.n))
		}
		rTab.AppendRow(rRow)
		pTab.AppendRow(pRow)
		nTab.AppendRow(nRow)
	}
	return rTab, pTab, nTab
}

// PairsTable renders the sorted pair results as the tidy pairs CSV.
func PairsTable(pairs []PairResult) *frame.Table {
	table := frame.NewTable([]string{
		"instrumento_A", "instrumento_B", "n_semanas",
		"r_pearson", "p_valor", "significativo", "bias_pp", "rmse_pp",
	})
	for _, p := range pairs {
		table.AppendRow([]string{
			p.A,
			p.B,
			frame.FormatInt(p.N),
			frame.FormatFloatPrec(p.R, 4),
			frame.FormatFloatPrec(p.P, 6),
			boolCell(p.Significant),
			frame.FormatFloatPrec(p.BiasPP, 3),
			frame.FormatFloatPrec(p.RMSEPP, 3),
		})
	}
	return table
}

func bias(a, b []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range a {
		sum += a[i] - b[i]
	}
	return sum / float64(len(a))
}

func rmse(a, b []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

func boolCell(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
