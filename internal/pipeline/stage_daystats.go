package pipeline

import (
	"context"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/daystats"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/internal/sessions"
)

// runDayStats computes the in-window dispersion diagnostics for every
// dense instrument's primary channel (the first required column).
func (r *Runner) runDayStats(ctx context.Context) contracts.StageResult {
	var res contracts.StageResult

	sessionList, _, err := sessions.LoadSessions(r.paths.SessionsCSV())
	if err != nil {
		res.Error = err.Error()
		return res
	}

	var entries []daystats.InstrumentStats
	for _, inst := range r.reg.EnabledInstruments() {
		if inst.Sampling != registry.SamplingDense {
			continue
		}
		res.InputCount++

		if len(inst.Required) == 0 {
			skipf(&res, inst.ID, "no primary channel configured")
			continue
		}
		channel := inst.Required[0]

		raw, err := r.loadInstrument(inst)
		if err != nil {
			r.log.WithInstrument(inst.ID).WithError(err).Warn("Instrument skipped in day statistics")
			skipf(&res, inst.ID, "%v", err)
			continue
		}
		values, err := raw.Table.ColumnFloats(channel)
		if err != nil {
			r.log.WithInstrument(inst.ID).WithError(err).Warn("Primary channel missing, day statistics skipped")
			skipf(&res, inst.ID, "%v", err)
			continue
		}

		entries = append(entries, r.analyzer.Compute(inst.ID, channel, sessionList, raw.Times, values))
		res.OutputCount++
	}

	if err := daystats.StatsTable(entries).WriteCSV(r.paths.DayStatsCSV()); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := r.writeText(r.paths.DayStatsReport(), daystats.Report(entries, time.Now())); err != nil {
		res.Error = err.Error()
		return res
	}
	return res
}
