package compare

import (
	"math"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/stats"
)

// View names, also used in output file names.
const (
	ViewPool         = "pool"
	ViewIntersection = "interseccion"
)

// MinIntersectionWeeks is the smallest common-week count worth
// comparing on the balanced view.
const MinIntersectionWeeks = 2

// TestOutcome is one omnibus test's statistic and p-value. Reason is
// set when the test could not run.
type TestOutcome struct {
	Stat   float64
	P      float64
	Reason string
}

func testErr(err error) TestOutcome {
	return TestOutcome{Stat: math.NaN(), P: math.NaN(), Reason: err.Error()}
}

// ShapiroEntry is one group's normality check.
type ShapiroEntry struct {
	Group string
	N     int
	W     float64
	P     float64
}

// GroupTests is one view's full test battery.
type GroupTests struct {
	View     string
	Groups   []stats.Group
	Excluded []string // series dropped for having fewer than 2 values
	Skipped  string   // non-empty when the whole view was skipped

	Shapiro  []ShapiroEntry
	Levene   TestOutcome
	ANOVA    TestOutcome
	Tukey    []stats.TukeyPair
	TukeyErr string
	KW       TestOutcome
	Dunn     []stats.DunnPair
	DunnErr  string
}

// PoolGroups builds the unbalanced view: every series contributes all
// of its weeks.
func (c *Comparator) PoolGroups(ss *SeriesSet) []stats.Group {
	groups := make([]stats.Group, 0, len(ss.Labels))
	for _, label := range ss.Labels {
		groups = append(groups, stats.Group{Name: label, Values: ss.Values(label)})
	}
	return groups
}

// IntersectionGroups builds the balanced view restricted to weeks
// every series has.
func (c *Comparator) IntersectionGroups(ss *SeriesSet) ([]stats.Group, []time.Time) {
	weeks := ss.IntersectionWeeks()
	groups := make([]stats.Group, 0, len(ss.Labels))
	for _, label := range ss.Labels {
		groups = append(groups, stats.Group{Name: label, Values: ss.ValuesAt(label, weeks)})
	}
	return groups, weeks
}

// GroupCompare runs the whole battery on one view. Series with fewer
// than two values are excluded from the group tests and listed, so a
// sparse instrument degrades the comparison visibly instead of
// erroring it out.
func (c *Comparator) GroupCompare(view string, groups []stats.Group) GroupTests {
	out := GroupTests{View: view}

	for _, g := range groups {
		if len(g.Values) < 2 {
			out.Excluded = append(out.Excluded, g.Name)
			continue
		}
		out.Groups = append(out.Groups, g)
	}
	if len(out.Groups) < 2 {
		out.Skipped = "menos de 2 series con datos suficientes"
		c.log.WithFields(map[string]interface{}{
			"view":   view,
			"groups": len(out.Groups),
		}).Warn("Group comparison skipped")
		return out
	}

	for _, g := range out.Groups {
		entry := ShapiroEntry{Group: g.Name, N: len(g.Values), W: math.NaN(), P: math.NaN()}
		if len(g.Values) >= stats.MinShapiroN {
			if res, err := stats.ShapiroWilk(g.Values); err == nil {
				entry.W, entry.P = res.W, res.P
			}
		}
		out.Shapiro = append(out.Shapiro, entry)
	}

	if res, err := stats.Levene(out.Groups); err != nil {
		out.Levene = testErr(err)
	} else {
		out.Levene = TestOutcome{Stat: res.Stat, P: res.P}
	}

	if res, err := stats.OneWayANOVA(out.Groups); err != nil {
		out.ANOVA = testErr(err)
	} else {
		out.ANOVA = TestOutcome{Stat: res.F, P: res.P}
	}
	if pairs, err := stats.TukeyHSD(out.Groups, c.alpha); err != nil {
		out.TukeyErr = err.Error()
	} else {
		out.Tukey = pairs
	}

	if res, err := stats.KruskalWallis(out.Groups); err != nil {
		out.KW = testErr(err)
	} else {
		out.KW = TestOutcome{Stat: res.H, P: res.P}
	}
	if pairs, err := stats.DunnTest(out.Groups); err != nil {
		out.DunnErr = err.Error()
	} else {
		out.Dunn = pairs
	}

	c.log.WithFields(map[string]interface{}{
		"view":      view,
		"groups":    len(out.Groups),
		"anova_p":   out.ANOVA.P,
		"kruskal_p": out.KW.P,
	}).Info("Group comparison computed")
	return out
}

// SkippedGroupTests marks a view that never ran, with its reason.
func SkippedGroupTests(view, reason string) GroupTests {
	return GroupTests{View: view, Skipped: reason}
}

// ResultsTable flattens the battery outcomes of all views into the
// long results CSV.
func (c *Comparator) ResultsTable(views []GroupTests) *frame.Table {
	table := frame.NewTable([]string{
		"vista", "prueba", "grupo", "n", "estadistico", "p_valor", "significativo",
	})

	addTest := func(view, name string, n int, t TestOutcome) {
		table.AppendRow([]string{
			view, name, "todos",
			frame.FormatInt(n),
			frame.FormatFloatPrec(t.Stat, 4),
			frame.FormatFloatPrec(t.P, 6),
			significanceCell(t.P, c.alpha),
		})
	}

	for _, v := range views {
		if v.Skipped != "" {
			table.AppendRow([]string{v.View, "omitido", "todos", "0", "", "", ""})
			continue
		}
		n := 0
		for _, g := range v.Groups {
			n += len(g.Values)
		}
		for _, s := range v.Shapiro {
			table.AppendRow([]string{
				v.View, "shapiro_wilk", s.Group,
				frame.FormatInt(s.N),
				frame.FormatFloatPrec(s.W, 4),
				frame.FormatFloatPrec(s.P, 6),
				significanceCell(s.P, c.alpha),
			})
		}
		addTest(v.View, "levene", n, v.Levene)
		addTest(v.View, "anova_f", n, v.ANOVA)
		addTest(v.View, "kruskal_wallis", n, v.KW)
	}
	return table
}

// TukeyTable renders the Tukey post-hoc pairs in the layout the
// downstream notebooks expect.
func TukeyTable(pairs []stats.TukeyPair) *frame.Table {
	table := frame.NewTable([]string{
		"grupo1", "grupo2", "meandiff", "p_adj", "lower", "upper", "reject",
	})
	for _, p := range pairs {
		table.AppendRow([]string{
			p.GroupA,
			p.GroupB,
			frame.FormatFloatPrec(p.MeanDiff, 4),
			frame.FormatFloatPrec(p.PAdj, 6),
			frame.FormatFloatPrec(p.Lower, 4),
			frame.FormatFloatPrec(p.Upper, 4),
			boolCell(p.Reject),
		})
	}
	return table
}

// DunnTable renders the Dunn post-hoc pairs.
func (c *Comparator) DunnTable(pairs []stats.DunnPair) *frame.Table {
	table := frame.NewTable([]string{
		"grupo1", "grupo2", "z", "p_valor", "p_adj", "significativo",
	})
	for _, p := range pairs {
		table.AppendRow([]string{
			p.GroupA,
			p.GroupB,
			frame.FormatFloatPrec(p.Z, 4),
			frame.FormatFloatPrec(p.P, 6),
			frame.FormatFloatPrec(p.PAdj, 6),
			boolCell(p.PAdj < c.alpha),
		})
	}
	return table
}

func significanceCell(p, alpha float64) string {
	if math.IsNaN(p) {
		return ""
	}
	return boolCell(p < alpha)
}
