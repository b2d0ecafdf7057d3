package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoleits/TESIS-SOILING/internal/stats"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// separatedGroups puts the three instruments 3 pp apart with identical
// within-group spread, so every omnibus statistic has a closed form:
// ANOVA F = 27 with p = (1+F/3)^-3 = 0.001, Kruskal-Wallis H = 7.2
// with p = exp(-3.6) on ranks 1..9 without ties.
func separatedGroups() []stats.Group {
	return []stats.Group{
		{Name: "DustIQ", Values: []float64{90, 91, 92}},
		{Name: "RefCells", Values: []float64{93, 94, 95}},
		{Name: "Soiling Kit", Values: []float64{96, 97, 98}},
	}
}

func TestPoolGroups(t *testing.T) {
	c := New(0.05, logger.NewNop())
	groups := c.PoolGroups(pairSet(t))

	require.Len(t, groups, 4)
	assert.Equal(t, "DustIQ", groups[0].Name)
	assert.Equal(t, []float64{100, 99, 98, 97, 96}, groups[0].Values)
	assert.Equal(t, "PV Stand", groups[3].Name)
	assert.Equal(t, []float64{98, 97, 96}, groups[3].Values)
}

func TestIntersectionGroups(t *testing.T) {
	c := New(0.05, logger.NewNop())
	groups, weeks := c.IntersectionGroups(pairSet(t))

	// PV Stand stops after week 3, so the balanced view keeps the
	// first three weeks for everyone.
	require.Len(t, weeks, 3)
	require.Len(t, groups, 4)
	for _, g := range groups {
		assert.Len(t, g.Values, 3, g.Name)
	}
	assert.Equal(t, []float64{100, 99, 98}, groups[0].Values)
	assert.Equal(t, []float64{100, 98, 96}, groups[1].Values)
}

func TestGroupCompare(t *testing.T) {
	c := New(0.05, logger.NewNop())
	res := c.GroupCompare(ViewPool, separatedGroups())

	assert.Equal(t, ViewPool, res.View)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, res.Excluded)
	require.Len(t, res.Groups, 3)

	// Three equally spaced points sit exactly on the normal line.
	require.Len(t, res.Shapiro, 3)
	for _, s := range res.Shapiro {
		assert.Equal(t, 3, s.N)
		assert.InDelta(t, 1.0, s.W, 1e-9)
		assert.InDelta(t, 1.0, s.P, 1e-9)
	}

	// Identical within-group spreads.
	assert.Empty(t, res.Levene.Reason)
	assert.InDelta(t, 0.0, res.Levene.Stat, 1e-12)
	assert.InDelta(t, 1.0, res.Levene.P, 1e-9)

	assert.Empty(t, res.ANOVA.Reason)
	assert.InDelta(t, 27.0, res.ANOVA.Stat, 1e-9)
	assert.InDelta(t, 0.001, res.ANOVA.P, 1e-9)

	assert.Empty(t, res.TukeyErr)
	require.Len(t, res.Tukey, 3)
	for _, p := range res.Tukey {
		assert.True(t, p.Reject)
		assert.Less(t, p.PAdj, 0.05)
	}

	assert.Empty(t, res.KW.Reason)
	assert.InDelta(t, 7.2, res.KW.Stat, 1e-9)
	assert.InDelta(t, math.Exp(-3.6), res.KW.P, 1e-9)

	// Dunn with Bonferroni only resolves the extreme pair.
	assert.Empty(t, res.DunnErr)
	require.Len(t, res.Dunn, 3)
	assert.Equal(t, "DustIQ", res.Dunn[1].GroupA)
	assert.Equal(t, "Soiling Kit", res.Dunn[1].GroupB)
	assert.Less(t, res.Dunn[1].PAdj, 0.05)
	assert.Greater(t, res.Dunn[0].PAdj, 0.05)
	assert.Greater(t, res.Dunn[2].PAdj, 0.05)
}

func TestGroupCompare_Indistinguishable(t *testing.T) {
	groups := []stats.Group{
		{Name: "DustIQ", Values: []float64{94, 95, 96}},
		{Name: "RefCells", Values: []float64{94, 95, 96}},
		{Name: "Soiling Kit", Values: []float64{94, 95, 96}},
	}
	c := New(0.05, logger.NewNop())
	res := c.GroupCompare(ViewIntersection, groups)

	assert.Empty(t, res.Skipped)
	assert.InDelta(t, 0.0, res.ANOVA.Stat, 1e-12)
	assert.InDelta(t, 1.0, res.ANOVA.P, 1e-9)
	assert.InDelta(t, 0.0, res.KW.Stat, 1e-12)
	assert.InDelta(t, 1.0, res.KW.P, 1e-9)
	for _, p := range res.Tukey {
		assert.False(t, p.Reject)
	}
	for _, p := range res.Dunn {
		assert.GreaterOrEqual(t, p.PAdj, 0.05)
	}
}

func TestGroupCompare_ExcludesSparseSeries(t *testing.T) {
	groups := []stats.Group{
		{Name: "DustIQ", Values: []float64{95, 96, 97}},
		{Name: "RefCells", Values: []float64{94, 95, 96}},
		{Name: "PV Stand", Values: []float64{93}},
	}
	c := New(0.05, logger.NewNop())
	res := c.GroupCompare(ViewIntersection, groups)

	assert.Equal(t, []string{"PV Stand"}, res.Excluded)
	require.Len(t, res.Groups, 2)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, res.ANOVA.Reason)
	assert.Greater(t, res.ANOVA.P, 0.05)
}

func TestGroupCompare_SkippedWhenFewUsable(t *testing.T) {
	groups := []stats.Group{
		{Name: "DustIQ", Values: []float64{95, 96, 97}},
		{Name: "PV Stand", Values: []float64{93}},
		{Name: "IV600", Values: nil},
	}
	c := New(0.05, logger.NewNop())
	res := c.GroupCompare(ViewPool, groups)

	assert.Equal(t, "menos de 2 series con datos suficientes", res.Skipped)
	assert.Equal(t, []string{"PV Stand", "IV600"}, res.Excluded)
	assert.Len(t, res.Groups, 1)
	assert.Empty(t, res.Shapiro)
}

func TestGroupCompare_SmallGroupsSkipNormality(t *testing.T) {
	groups := []stats.Group{
		{Name: "DustIQ", Values: []float64{95, 96}},
		{Name: "RefCells", Values: []float64{94, 95}},
	}
	c := New(0.05, logger.NewNop())
	res := c.GroupCompare(ViewIntersection, groups)

	require.Len(t, res.Shapiro, 2)
	for _, s := range res.Shapiro {
		assert.Equal(t, 2, s.N)
		assert.True(t, math.IsNaN(s.W))
		assert.True(t, math.IsNaN(s.P))
	}

	// Two-point groups leave no within-group spread for Levene.
	assert.NotEmpty(t, res.Levene.Reason)
	assert.True(t, math.IsNaN(res.Levene.Stat))
	assert.Empty(t, res.ANOVA.Reason)
	assert.Empty(t, res.KW.Reason)
}

func TestSkippedGroupTests(t *testing.T) {
	res := SkippedGroupTests(ViewIntersection, "menos de 2 semanas comunes")
	assert.Equal(t, ViewIntersection, res.View)
	assert.Equal(t, "menos de 2 semanas comunes", res.Skipped)
	assert.Empty(t, res.Groups)
}

func TestResultsTable(t *testing.T) {
	c := New(0.05, logger.NewNop())
	views := []GroupTests{
		c.GroupCompare(ViewPool, separatedGroups()),
		SkippedGroupTests(ViewIntersection, "menos de 2 semanas comunes"),
	}
	table := c.ResultsTable(views)

	assert.Equal(t, []string{
		"vista", "prueba", "grupo", "n", "estadistico", "p_valor", "significativo",
	}, table.Columns())
	require.Equal(t, 7, table.NumRows())

	assert.Equal(t, []string{"pool", "shapiro_wilk", "DustIQ", "3", "1.0000", "1.000000", "False"}, table.Row(0))
	assert.Equal(t, []string{"pool", "shapiro_wilk", "RefCells", "3", "1.0000", "1.000000", "False"}, table.Row(1))
	assert.Equal(t, []string{"pool", "shapiro_wilk", "Soiling Kit", "3", "1.0000", "1.000000", "False"}, table.Row(2))
	assert.Equal(t, []string{"pool", "levene", "todos", "9", "0.0000", "1.000000", "False"}, table.Row(3))
	assert.Equal(t, []string{"pool", "anova_f", "todos", "9", "27.0000", "0.001000", "True"}, table.Row(4))
	assert.Equal(t, []string{"pool", "kruskal_wallis", "todos", "9", "7.2000", "0.027324", "True"}, table.Row(5))
	assert.Equal(t, []string{"interseccion", "omitido", "todos", "0", "", "", ""}, table.Row(6))
}

func TestResultsTable_FailedTestKeepsEmptyCells(t *testing.T) {
	c := New(0.05, logger.NewNop())
	views := []GroupTests{c.GroupCompare(ViewPool, []stats.Group{
		{Name: "DustIQ", Values: []float64{95, 96}},
		{Name: "RefCells", Values: []float64{94, 95}},
	})}
	table := c.ResultsTable(views)

	// Two shapiro rows with blank statistics, then Levene, which
	// cannot run on two-point groups.
	require.Equal(t, 5, table.NumRows())
	assert.Equal(t, []string{"pool", "shapiro_wilk", "DustIQ", "2", "", "", ""}, table.Row(0))
	assert.Equal(t, []string{"pool", "levene", "todos", "4", "", "", ""}, table.Row(2))
}

func TestTukeyTable(t *testing.T) {
	pairs := []stats.TukeyPair{
		{GroupA: "DustIQ", GroupB: "RefCells", MeanDiff: 2.5, PAdj: 0.01, Lower: 1.0, Upper: 4.0, Reject: true},
		{GroupA: "DustIQ", GroupB: "Soiling Kit", MeanDiff: -0.5, PAdj: 0.9, Lower: -2.0, Upper: 1.0, Reject: false},
	}
	table := TukeyTable(pairs)

	assert.Equal(t, []string{"grupo1", "grupo2", "meandiff", "p_adj", "lower", "upper", "reject"}, table.Columns())
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, []string{"DustIQ", "RefCells", "2.5000", "0.010000", "1.0000", "4.0000", "True"}, table.Row(0))
	assert.Equal(t, []string{"DustIQ", "Soiling Kit", "-0.5000", "0.900000", "-2.0000", "1.0000", "False"}, table.Row(1))
}

func TestDunnTable(t *testing.T) {
	c := New(0.05, logger.NewNop())
	pairs := []stats.DunnPair{
		{GroupA: "DustIQ", GroupB: "RefCells", Z: -2.1, P: 0.0357, PAdj: 0.0714},
		{GroupA: "DustIQ", GroupB: "Soiling Kit", Z: -3.0, P: 0.0027, PAdj: 0.0081},
	}
	table := c.DunnTable(pairs)

	assert.Equal(t, []string{"grupo1", "grupo2", "z", "p_valor", "p_adj", "significativo"}, table.Columns())
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, []string{"DustIQ", "RefCells", "-2.1000", "0.035700", "0.071400", "False"}, table.Row(0))
	assert.Equal(t, []string{"DustIQ", "Soiling Kit", "-3.0000", "0.002700", "0.008100", "True"}, table.Row(1))
}
