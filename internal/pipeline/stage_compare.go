package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/compare"
	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/frame"
)

// runCompare correlates the normalized weekly series and runs the
// group test battery on both views.
func (r *Runner) runCompare(ctx context.Context) contracts.StageResult {
	var res contracts.StageResult

	table, err := frame.ReadCSV(r.paths.WeeklyNormCSV())
	if err != nil {
		res.Error = err.Error()
		return res
	}
	ss, err := compare.LoadSeriesSet(table)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.InputCount = len(ss.Labels)

	generatedAt := time.Now()

	pairs := r.comparator.Pairs(ss)
	res.OutputCount = len(pairs)
	rTab, pTab, nTab := r.comparator.Matrices(ss)

	csvOutputs := []struct {
		table *frame.Table
		path  string
	}{
		{rTab, r.paths.CorrelationMatrixCSV()},
		{pTab, r.paths.CorrelationPValuesCSV()},
		{nTab, r.paths.CorrelationNCSV()},
		{compare.PairsTable(pairs), r.paths.CorrelationPairsCSV()},
	}
	for _, out := range csvOutputs {
		if err := out.table.WriteCSV(out.path); err != nil {
			res.Error = err.Error()
			return res
		}
	}
	if err := r.writeText(r.paths.CorrelationReport(), r.comparator.CorrelationReport(pairs, generatedAt)); err != nil {
		res.Error = err.Error()
		return res
	}

	pool := r.comparator.GroupCompare(compare.ViewPool, r.comparator.PoolGroups(ss))

	interGroups, interWeeks := r.comparator.IntersectionGroups(ss)
	var inter compare.GroupTests
	if len(interWeeks) < compare.MinIntersectionWeeks {
		reason := fmt.Sprintf("solo %d semanas comunes a todas las series", len(interWeeks))
		r.log.WithField("weeks", len(interWeeks)).Warn("Intersection view skipped")
		inter = compare.SkippedGroupTests(compare.ViewIntersection, reason)
	} else {
		inter = r.comparator.GroupCompare(compare.ViewIntersection, interGroups)
	}
	views := []compare.GroupTests{pool, inter}

	if err := r.comparator.ResultsTable(views).WriteCSV(r.paths.AnovaResultsCSV()); err != nil {
		res.Error = err.Error()
		return res
	}
	for _, v := range views {
		if err := compare.TukeyTable(v.Tukey).WriteCSV(r.paths.TukeyCSV(v.View)); err != nil {
			res.Error = err.Error()
			return res
		}
		if err := r.comparator.DunnTable(v.Dunn).WriteCSV(r.paths.DunnCSV(v.View)); err != nil {
			res.Error = err.Error()
			return res
		}
	}
	if err := r.writeText(r.paths.AnovaReport(), r.comparator.GroupReport(views, generatedAt)); err != nil {
		res.Error = err.Error()
		return res
	}
	return res
}
