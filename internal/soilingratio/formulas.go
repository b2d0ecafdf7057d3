package soilingratio

import (
	"math"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

// computeSoilingKit ratios the protected cell's short-circuit current
// against the exposed one. Both currents must clear the minimum
// current guard or the row's SR is left missing.
func (c *Calculator) computeSoilingKit(aligned *frame.Table, times []time.Time) (*frame.Table, Stats, error) {
	idx, err := requireColumns(aligned, "Isc(e)", "Isc(p)")
	if err != nil {
		return nil, Stats{}, err
	}
	exposedIdx, protectedIdx := idx[0], idx[1]

	out := frame.NewTable([]string{"timestamp", "SR", "Isc(e)", "Isc(p)"})
	st := Stats{RowsIn: aligned.NumRows()}

	for r := 0; r < aligned.NumRows(); r++ {
		exposed, okE := aligned.Float(r, exposedIdx)
		protected, okP := aligned.Float(r, protectedIdx)

		sr := math.NaN()
		if okE && okP && exposed >= c.cfg.MinCurrentA && protected >= c.cfg.MinCurrentA {
			sr = ratio(protected, exposed)
		} else {
			st.RowsGuarded++
		}

		out.AppendRow([]string{
			formatTime(times[r]),
			cell(sr),
			aligned.Value(r, exposedIdx),
			aligned.Value(r, protectedIdx),
		})
		st.RowsOut++
	}
	return out, st, nil
}

// computeDustIQ passes the instrument's native ratio channel through.
func (c *Calculator) computeDustIQ(aligned *frame.Table, times []time.Time) (*frame.Table, Stats, error) {
	idx, err := requireColumns(aligned, "SR_C11_Avg")
	if err != nil {
		return nil, Stats{}, err
	}

	out := frame.NewTable([]string{"timestamp", "SR"})
	st := Stats{RowsIn: aligned.NumRows()}

	for r := 0; r < aligned.NumRows(); r++ {
		sr := math.NaN()
		if v, ok := aligned.Float(r, idx[0]); ok {
			sr = v
		}
		out.AppendRow([]string{formatTime(times[r]), cell(sr)})
		st.RowsOut++
	}
	return out, st, nil
}

// computeRefCells ratios the lower of the two soiling-witness cells
// against the higher, so the result never exceeds 100 regardless of
// which cell soils first.
func (c *Calculator) computeRefCells(aligned *frame.Table, times []time.Time) (*frame.Table, Stats, error) {
	idx, err := requireColumns(aligned, "1RC411(w.m-2)", "1RC412(w.m-2)")
	if err != nil {
		return nil, Stats{}, err
	}

	out := frame.NewTable([]string{"timestamp", "SR", "1RC411(w.m-2)", "1RC412(w.m-2)"})
	st := Stats{RowsIn: aligned.NumRows()}

	for r := 0; r < aligned.NumRows(); r++ {
		a, okA := aligned.Float(r, idx[0])
		b, okB := aligned.Float(r, idx[1])

		sr := math.NaN()
		if okA && okB {
			sr = ratio(math.Min(a, b), math.Max(a, b))
		} else {
			st.RowsGuarded++
		}

		out.AppendRow([]string{
			formatTime(times[r]),
			cell(sr),
			aligned.Value(r, idx[0]),
			aligned.Value(r, idx[1]),
		})
		st.RowsOut++
	}
	return out, st, nil
}

// computePVGlasses ratios each dirty photocell against the mean of the
// two clean reference cells, then averages the per-cell ratios into
// the headline SR.
func (c *Calculator) computePVGlasses(aligned *frame.Table, times []time.Time) (*frame.Table, Stats, error) {
	idx, err := requireColumns(aligned,
		"R_FC1_Avg", "R_FC2_Avg", "R_FC3_Avg", "R_FC4_Avg", "R_FC5_Avg")
	if err != nil {
		return nil, Stats{}, err
	}

	out := frame.NewTable([]string{"timestamp", "SR", "SR_FC3", "SR_FC4", "SR_FC5"})
	st := Stats{RowsIn: aligned.NumRows()}

	for r := 0; r < aligned.NumRows(); r++ {
		ref1, ok1 := aligned.Float(r, idx[0])
		ref2, ok2 := aligned.Float(r, idx[1])

		perCell := []float64{math.NaN(), math.NaN(), math.NaN()}
		if ok1 && ok2 {
			ref := (ref1 + ref2) / 2
			for i := 0; i < 3; i++ {
				if v, ok := aligned.Float(r, idx[2+i]); ok {
					perCell[i] = ratio(v, ref)
				}
			}
		} else {
			st.RowsGuarded++
		}

		sum, n := 0.0, 0
		for _, v := range perCell {
			if !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		sr := math.NaN()
		if n > 0 {
			sr = sum / float64(n)
		}

		out.AppendRow([]string{
			formatTime(times[r]),
			cell(sr),
			cell(perCell[0]),
			cell(perCell[1]),
			cell(perCell[2]),
		})
		st.RowsOut++
	}
	return out, st, nil
}

// modulePair is one day's soiled/clean reading pair from a
// long-format module table.
type modulePair struct {
	ts                    time.Time
	soiledA, soiledB      float64
	cleanA, cleanB        float64
	haveSoiled, haveClean bool
}

// pairByTimestamp pivots a long module table into per-timestamp
// soiled/clean pairs. colA and colB are the two value columns (power
// and current). First occurrence wins when a module repeats inside
// one timestamp group; rows of excluded modules are dropped.
func pairByTimestamp(aligned *frame.Table, times []time.Time, moduleIdx, colAIdx, colBIdx int, soiledID, cleanID, excludeID string) []modulePair {
	order := make([]time.Time, 0)
	byTS := make(map[int64]*modulePair)

	for r := 0; r < aligned.NumRows(); r++ {
		module := aligned.Value(r, moduleIdx)
		if module == excludeID {
			continue
		}
		if module != soiledID && module != cleanID {
			continue
		}
		key := times[r].Unix()
		p, seen := byTS[key]
		if !seen {
			p = &modulePair{ts: times[r]}
			byTS[key] = p
			order = append(order, times[r])
		}

		a, okA := aligned.Float(r, colAIdx)
		b, okB := aligned.Float(r, colBIdx)
		if !okA {
			a = math.NaN()
		}
		if !okB {
			b = math.NaN()
		}

		switch module {
		case soiledID:
			if !p.haveSoiled {
				p.soiledA, p.soiledB = a, b
				p.haveSoiled = true
			}
		case cleanID:
			if !p.haveClean {
				p.cleanA, p.cleanB = a, b
				p.haveClean = true
			}
		}
	}

	pairs := make([]modulePair, 0, len(order))
	for _, ts := range order {
		pairs = append(pairs, *byTS[ts.Unix()])
	}
	return pairs
}

// powerPairSR computes the power and current SR variants for one pair,
// gated by the minimum power guard on both modules.
func (c *Calculator) powerPairSR(p modulePair) (srPower, srCurrent float64, guarded bool) {
	srPower, srCurrent = math.NaN(), math.NaN()
	if !p.haveSoiled || !p.haveClean {
		return srPower, srCurrent, true
	}
	if math.IsNaN(p.soiledA) || math.IsNaN(p.cleanA) ||
		p.soiledA < c.cfg.MinPowerW || p.cleanA < c.cfg.MinPowerW {
		return srPower, srCurrent, true
	}
	srPower = ratio(p.soiledA, p.cleanA)
	if !math.IsNaN(p.soiledB) && !math.IsNaN(p.cleanB) {
		srCurrent = ratio(p.soiledB, p.cleanB)
	}
	return srPower, srCurrent, false
}

// correctedPairSR recomputes both variants from temperature-translated
// channel values. NaN when no module temperature lies within the join
// tolerance of the pair's timestamp.
func (c *Calculator) correctedPairSR(p modulePair) (srPower, srCurrent float64) {
	srPower, srCurrent = math.NaN(), math.NaN()
	tSoiled, tClean, ok := c.nearestTemps(p.ts)
	if !ok {
		return srPower, srCurrent
	}
	if !math.IsNaN(p.soiledA) && !math.IsNaN(p.cleanA) &&
		p.soiledA >= c.cfg.MinPowerW && p.cleanA >= c.cfg.MinPowerW {
		beta := c.cfg.Correction.BetaPmaxPerC
		srPower = ratio(c.correct(p.soiledA, tSoiled, beta), c.correct(p.cleanA, tClean, beta))
	}
	if !math.IsNaN(p.soiledB) && !math.IsNaN(p.cleanB) &&
		!math.IsNaN(p.soiledA) && !math.IsNaN(p.cleanA) &&
		p.soiledA >= c.cfg.MinPowerW && p.cleanA >= c.cfg.MinPowerW {
		alpha := c.cfg.Correction.AlphaIscPerC
		srCurrent = ratio(c.correct(p.soiledB, tSoiled, alpha), c.correct(p.cleanB, tClean, alpha))
	}
	return srPower, srCurrent
}

// computePVStand ratios the soiled fixed-stand module's maximum power
// point against the co-mounted clean module's, with a current variant
// and optional temperature-corrected twins.
func (c *Calculator) computePVStand(aligned *frame.Table, times []time.Time) (*frame.Table, Stats, error) {
	idx, err := requireColumns(aligned, "module", "pmax", "imax")
	if err != nil {
		return nil, Stats{}, err
	}

	cols := []string{"timestamp", "SR_Pmax", "SR_Imax"}
	corrected := c.HasTemperatures()
	if corrected {
		cols = append(cols, "SR_Pmax_corr", "SR_Imax_corr")
	}
	out := frame.NewTable(cols)
	st := Stats{RowsIn: aligned.NumRows()}

	pairs := pairByTimestamp(aligned, times, idx[0], idx[1], idx[2],
		pvstandSoiledModule, pvstandCleanModule, "")
	for _, p := range pairs {
		srP, srI, guarded := c.powerPairSR(p)
		if guarded {
			st.RowsGuarded++
		}
		row := []string{formatTime(p.ts), cell(srP), cell(srI)}
		if corrected {
			srPc, srIc := c.correctedPairSR(p)
			row = append(row, cell(srPc), cell(srIc))
		}
		out.AppendRow(row)
		st.RowsOut++
	}
	return out, st, nil
}

// computeIV600 pairs the manual IV tracer's two modules by matched
// sweep timestamp. Sweeps attributed to the unknown-module sentinel
// are excluded before pairing.
func (c *Calculator) computeIV600(aligned *frame.Table, times []time.Time) (*frame.Table, Stats, error) {
	idx, err := requireColumns(aligned, "module", "pmp", "isc")
	if err != nil {
		return nil, Stats{}, err
	}

	cols := []string{"timestamp", "SR_Pmax_434", "SR_Isc_434"}
	corrected := c.HasTemperatures()
	if corrected {
		cols = append(cols, "SR_Pmax_corr_434", "SR_Isc_corr_434")
	}
	out := frame.NewTable(cols)
	st := Stats{RowsIn: aligned.NumRows()}

	pairs := pairByTimestamp(aligned, times, idx[0], idx[1], idx[2],
		iv600SoiledModule, iv600CleanModule, iv600UnknownModule)
	for _, p := range pairs {
		srP, srI, guarded := c.powerPairSR(p)
		if guarded {
			st.RowsGuarded++
		}
		row := []string{formatTime(p.ts), cell(srP), cell(srI)}
		if corrected {
			srPc, srIc := c.correctedPairSR(p)
			row = append(row, cell(srPc), cell(srIc))
		}
		out.AppendRow(row)
		st.RowsOut++
	}
	return out, st, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timenorm.TimestampLayout)
}
