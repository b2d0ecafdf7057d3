package pipeline

import (
	"context"

	"github.com/nicoleits/TESIS-SOILING/internal/align"
	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/weekly"
)

// runWeekly aggregates every configured series into the weekly
// tables. A series whose SR file or column is missing is skipped, so
// one broken instrument never hides the others' weeks.
func (r *Runner) runWeekly(ctx context.Context) contracts.StageResult {
	var res contracts.StageResult

	result := weekly.NewResult()
	for _, ws := range r.reg.WeeklySeries {
		res.InputCount++

		table, times, err := align.LoadAligned(r.paths.SRCSV(ws.InstrumentID))
		if err != nil {
			r.log.WithField("serie", ws.Label).WithError(err).Warn("No SR table, weekly series skipped")
			skipf(&res, ws.Label, "%v", err)
			continue
		}

		s, err := r.aggregator.DailySeries(ws.Label, table, times, ws.Column)
		if err != nil {
			r.log.WithField("serie", ws.Label).WithError(err).Warn("Weekly series skipped")
			skipf(&res, ws.Label, "%v", err)
			continue
		}

		result.Add(ws.Label, r.aggregator.Aggregate(s))
		res.OutputCount++
	}

	if res.OutputCount == 0 {
		res.Error = "no weekly series could be built"
		return res
	}

	outputs := []struct {
		table *frame.Table
		path  string
	}{
		{result.WideTable(), r.paths.WeeklyWideCSV()},
		{result.LongTable(), r.paths.WeeklyLongCSV()},
		{result.NormalizedTable(), r.paths.WeeklyNormCSV()},
		{result.DispersionTable(), r.paths.DispersionCSV()},
	}
	for _, out := range outputs {
		if err := out.table.WriteCSV(out.path); err != nil {
			res.Error = err.Error()
			return res
		}
	}
	return res
}
