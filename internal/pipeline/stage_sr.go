package pipeline

import (
	"context"
	"errors"

	"github.com/nicoleits/TESIS-SOILING/internal/align"
	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/soilingratio"
)

// runSR computes each instrument's SR table from its aligned file.
func (r *Runner) runSR(ctx context.Context) contracts.StageResult {
	var res contracts.StageResult

	r.loadTemperatures()

	for _, inst := range r.reg.EnabledInstruments() {
		if inst.Formula == "" {
			continue
		}
		res.InputCount++

		aligned, times, err := align.LoadAligned(r.paths.AlignedCSV(inst.ID))
		if err != nil {
			r.log.WithInstrument(inst.ID).WithError(err).Warn("No aligned table, SR skipped")
			skipf(&res, inst.ID, "%v", err)
			continue
		}

		srTable, st, err := r.calculator.Compute(inst.Formula, aligned, times)
		if err != nil {
			var missing *soilingratio.MissingColumnsError
			if errors.As(err, &missing) {
				r.log.WithInstrument(inst.ID).Warnf("SR skipped: missing columns %v", missing.Columns)
			} else {
				r.log.WithInstrument(inst.ID).WithError(err).Warn("SR computation failed")
			}
			skipf(&res, inst.ID, "%v", err)
			continue
		}

		if err := srTable.WriteCSV(r.paths.SRCSV(inst.ID)); err != nil {
			res.Error = err.Error()
			return res
		}

		r.log.WithInstrument(inst.ID).WithFields(map[string]interface{}{
			"rows_in":  st.RowsIn,
			"rows_out": st.RowsOut,
			"guarded":  st.RowsGuarded,
			"outliers": st.RowsOutliers,
		}).Info("SR table written")
		res.OutputCount++
	}

	if res.OutputCount == 0 {
		res.Error = "no instrument produced an SR table"
	}
	return res
}

// loadTemperatures installs the module-temperature series on the
// calculator. Without it the corrected SR variants are simply not
// produced, which is a degraded mode worth a warning, not a failure.
func (r *Runner) loadTemperatures() {
	tc := r.reg.TempCorrection
	if tc.TempInstrumentID == "" {
		return
	}

	table, times, err := align.LoadAligned(r.paths.AlignedCSV(tc.TempInstrumentID))
	if err != nil {
		r.log.WithError(err).Warn("Module temperatures unavailable, corrected SR variants disabled")
		return
	}
	soiled, err := table.ColumnFloats(tc.SoiledChannel)
	if err != nil {
		r.log.WithError(err).Warn("Soiled temperature channel unavailable, corrected SR variants disabled")
		return
	}
	clean, err := table.ColumnFloats(tc.CleanChannel)
	if err != nil {
		r.log.WithError(err).Warn("Clean temperature channel unavailable, corrected SR variants disabled")
		return
	}

	r.calculator.SetTemperatures(&soilingratio.Temperatures{
		Times:  times,
		Soiled: soiled,
		Clean:  clean,
	})
	r.log.WithField("samples", len(times)).Info("Module temperatures loaded for corrected SR variants")
}
