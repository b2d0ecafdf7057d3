package pipeline

import (
	"context"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/sessions"
)

// runAlign projects every enabled instrument onto the session table.
// Instrument-level problems become skips; only a broken session table
// fails the stage.
func (r *Runner) runAlign(ctx context.Context) contracts.StageResult {
	var res contracts.StageResult

	sessionList, data, err := sessions.LoadSessions(r.paths.SessionsCSV())
	if err != nil {
		res.Error = err.Error()
		return res
	}
	verdicts, err := sessions.LoadVerdicts(r.paths.VerdictsCSV())
	if err != nil {
		res.Error = err.Error()
		return res
	}

	kept := sessions.Filter(sessionList, verdicts, r.reg.Thresholds.UnknownStabilityPasses)
	r.log.WithFields(map[string]interface{}{
		"sessions": len(sessionList),
		"kept":     len(kept),
	}).Info("Stability filter applied to sessions")
	if len(kept) == 0 {
		res.Error = "no session day passed the stability filter"
		return res
	}

	for _, inst := range r.reg.EnabledInstruments() {
		res.InputCount++

		if inst.Reference {
			view, err := sessions.AlignedView(data, kept)
			if err != nil {
				res.Error = err.Error()
				return res
			}
			if err := view.WriteCSV(r.paths.AlignedCSV(inst.ID)); err != nil {
				res.Error = err.Error()
				return res
			}
			res.OutputCount++
			continue
		}

		raw, err := r.loadInstrument(inst)
		if err != nil {
			r.log.WithInstrument(inst.ID).WithError(err).Warn("Instrument skipped in alignment")
			skipf(&res, inst.ID, "%v", err)
			continue
		}

		aligned, st, err := r.aligner.Align(inst.Sampling, raw.Table, raw.Times, raw.TimeCol, kept)
		if err != nil {
			r.log.WithInstrument(inst.ID).WithError(err).Warn("Instrument skipped in alignment")
			skipf(&res, inst.ID, "%v", err)
			continue
		}
		if err := aligned.WriteCSV(r.paths.AlignedCSV(inst.ID)); err != nil {
			res.Error = err.Error()
			return res
		}

		r.log.WithInstrument(inst.ID).WithFields(map[string]interface{}{
			"days_matched": st.DaysMatched,
			"days_skipped": st.DaysSkipped,
			"rows_out":     st.RowsOut,
		}).Info("Instrument aligned")
		res.OutputCount++
	}
	return res
}
