package pipeline

import (
	"context"
	"fmt"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/sessions"
)

// runSessions selects the daily solar-noon sessions from the reference
// instrument and attaches irradiance stability verdicts.
func (r *Runner) runSessions(ctx context.Context) contracts.StageResult {
	var res contracts.StageResult

	refInst, ok := r.reg.Instrument(r.reg.Reference.InstrumentID)
	if !ok {
		res.Error = fmt.Sprintf("reference instrument %q not in registry", r.reg.Reference.InstrumentID)
		return res
	}

	data, err := r.loadInstrument(refInst)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.InputCount = data.Table.NumRows()

	sel, err := r.selector.Select(data.Table, data.Times, data.TimeCol)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if len(sel.Sessions) == 0 {
		res.Error = "no day passed solar-noon session selection"
		return res
	}
	res.OutputCount = len(sel.Sessions)
	res.SkipCount = sel.DaysRejected

	if err := sel.Data.WriteCSV(r.paths.SessionsCSV()); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := sessions.DistStatsTable(sel.Sessions).WriteCSV(r.paths.DistStatsCSV()); err != nil {
		res.Error = err.Error()
		return res
	}

	verdicts := r.stabilityVerdicts(sel.Sessions)
	if err := sessions.VerdictsTable(verdicts).WriteCSV(r.paths.VerdictsCSV()); err != nil {
		res.Error = err.Error()
		return res
	}
	return res
}

// stabilityVerdicts evaluates the reference irradiance channel over
// the session windows. Any missing piece degrades to all-Unknown
// verdicts with a warning; downstream decides whether Unknown passes.
func (r *Runner) stabilityVerdicts(sessionList []contracts.DaySession) []contracts.StabilityVerdict {
	irrID := r.reg.Reference.IrradianceInstrumentID
	channel := r.reg.Reference.IrradianceChannel

	inst, ok := r.reg.Instrument(irrID)
	if !ok {
		r.log.Warnf("Stability reference %q not in registry, all days Unknown", irrID)
		return sessions.Unknown(sessionList)
	}

	data, err := r.loadInstrument(inst)
	if err != nil {
		r.log.WithError(err).Warn("Stability reference unavailable, all days Unknown")
		return sessions.Unknown(sessionList)
	}

	values, err := data.Table.ColumnFloats(channel)
	if err != nil {
		r.log.WithError(err).Warnf("Stability channel %q unavailable, all days Unknown", channel)
		return sessions.Unknown(sessionList)
	}

	return r.stability.Evaluate(sessionList, data.Times, values)
}
