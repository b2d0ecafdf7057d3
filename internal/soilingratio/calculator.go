// Package soilingratio maps aligned instrument channels to soiling
// ratio percentages. One formula per instrument role, shared guards
// and outlier handling across all of them.
package soilingratio

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// divisionGuard is the absolute denominator floor below which a ratio
// is reported missing instead of computed.
const divisionGuard = 1e-9

// Station module identifiers. These belong to the fixed sensor layout,
// not to tunable configuration.
const (
	pvstandSoiledModule = "perc1fixed"
	pvstandCleanModule  = "perc2fixed"
	iv600SoiledModule   = "1MD434"
	iv600CleanModule    = "1MD439"
	iv600UnknownModule  = "Unknown Module"
)

// Config carries the guards and correction parameters shared by every
// formula.
type Config struct {
	// OutlierFloorPct nulls any SR row falling below it.
	OutlierFloorPct float64
	// MinCurrentA gates short-circuit-current ratios.
	MinCurrentA float64
	// MinPowerW gates power ratios.
	MinPowerW float64
	// Correction holds the IEC 60891 first-order coefficients.
	Correction registry.TempCorrection
	// TempTolerance bounds the nearest-temperature join.
	TempTolerance time.Duration
}

// Temperatures is the aligned module-temperature series used by the
// corrected SR variants.
type Temperatures struct {
	Times  []time.Time
	Soiled []float64
	Clean  []float64
}

// Stats counts one instrument's SR computation.
type Stats struct {
	RowsIn       int
	RowsOut      int
	RowsGuarded  int
	RowsOutliers int
}

// Calculator computes SR tables from aligned tables.
type Calculator struct {
	cfg   Config
	temps *Temperatures
	log   *logger.Logger
}

// New creates a Calculator. Temperatures start unset; without them the
// corrected variants are omitted.
func New(cfg Config, log *logger.Logger) *Calculator {
	return &Calculator{cfg: cfg, log: log}
}

// SetTemperatures installs the module-temperature series for the
// corrected variants. Passing nil reverts to uncorrected output.
func (c *Calculator) SetTemperatures(t *Temperatures) {
	c.temps = t
}

// HasTemperatures reports whether corrected variants will be produced.
func (c *Calculator) HasTemperatures() bool {
	return c.temps != nil && len(c.temps.Times) > 0
}

// Compute dispatches on the instrument's formula role. times[i] must
// be the canonical timestamp of aligned row i.
func (c *Calculator) Compute(formula string, aligned *frame.Table, times []time.Time) (*frame.Table, Stats, error) {
	if aligned.NumRows() != len(times) {
		return nil, Stats{}, fmt.Errorf("soilingratio: %d rows but %d times", aligned.NumRows(), len(times))
	}

	var (
		out *frame.Table
		st  Stats
		err error
	)
	switch formula {
	case registry.FormulaSoilingKit:
		out, st, err = c.computeSoilingKit(aligned, times)
	case registry.FormulaDustIQ:
		out, st, err = c.computeDustIQ(aligned, times)
	case registry.FormulaRefCells:
		out, st, err = c.computeRefCells(aligned, times)
	case registry.FormulaPVGlasses:
		out, st, err = c.computePVGlasses(aligned, times)
	case registry.FormulaPVStand:
		out, st, err = c.computePVStand(aligned, times)
	case registry.FormulaIV600:
		out, st, err = c.computeIV600(aligned, times)
	default:
		return nil, Stats{}, fmt.Errorf("soilingratio: unknown formula %q", formula)
	}
	if err != nil {
		return nil, Stats{}, err
	}

	st.RowsOutliers = ApplyOutlierPolicy(out, srColumns(out), c.cfg.OutlierFloorPct)
	return out, st, nil
}

// MissingColumnsError reports aligned columns a formula needs but the
// table lacks. The instrument is skipped, the run continues.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("soilingratio: missing required columns %v", e.Columns)
}

func requireColumns(table *frame.Table, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, n := range names {
		ci, ok := table.ColumnIndex(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		idx[i] = ci
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return idx, nil
}

// ratio returns 100*num/den, or NaN when the denominator sits inside
// the division guard.
func ratio(num, den float64) float64 {
	if math.Abs(den) < divisionGuard {
		return math.NaN()
	}
	return 100 * num / den
}

// correct applies the first-order IEC 60891 translation of v from
// temperature t back to the reference temperature.
func (c *Calculator) correct(v, t, coeff float64) float64 {
	factor := 1 + coeff*(t-c.cfg.Correction.ReferenceC)
	if math.Abs(factor) < divisionGuard {
		return math.NaN()
	}
	return v / factor
}

// nearestTemps returns the soiled and clean module temperatures
// nearest to ts, or ok=false when none lies within the join tolerance
// or either channel is missing there.
func (c *Calculator) nearestTemps(ts time.Time) (soiled, clean float64, ok bool) {
	if !c.HasTemperatures() {
		return 0, 0, false
	}
	best := -1
	bestDist := c.cfg.TempTolerance
	for i, t := range c.temps.Times {
		d := t.Sub(ts)
		if d < 0 {
			d = -d
		}
		if d <= bestDist {
			if best >= 0 && d == bestDist {
				continue
			}
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	soiled, clean = c.temps.Soiled[best], c.temps.Clean[best]
	if math.IsNaN(soiled) || math.IsNaN(clean) {
		return 0, 0, false
	}
	return soiled, clean, true
}

// srColumns lists the table's SR output columns, the set the outlier
// policy nulls together.
func srColumns(table *frame.Table) []string {
	var cols []string
	for _, c := range table.Columns() {
		if c == "SR" || strings.HasPrefix(c, "SR_") {
			cols = append(cols, c)
		}
	}
	return cols
}

func cell(v float64) string {
	return frame.FormatFloat(v)
}
