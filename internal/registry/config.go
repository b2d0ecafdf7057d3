// Package registry loads and validates the instrument registry: which
// raw files exist, how each instrument samples, which columns its SR
// formula needs, and every domain threshold the pipeline applies. The
// registry is decoded strictly, validated once at startup, and passed
// by reference into each stage; nothing mutates it afterwards.
package registry

import "time"

// Registry is the full instrument configuration.
type Registry struct {
	Meta           Meta           `yaml:"meta" json:"meta"`
	Thresholds     Thresholds     `yaml:"thresholds" json:"thresholds"`
	TempCorrection TempCorrection `yaml:"temperature_correction" json:"temperature_correction"`
	Reference      Reference      `yaml:"reference" json:"reference"`
	Instruments    []Instrument   `yaml:"instruments" json:"instruments"`
	WeeklySeries   []WeeklySeries `yaml:"weekly_series" json:"weekly_series"`
}

// Meta identifies the registry revision.
type Meta struct {
	SiteName string `yaml:"site_name" json:"site_name"`
	Version  string `yaml:"version" json:"version"`
}

// Thresholds are the domain tunables. They ship with the values the
// station has always run with but stay overridable via this file.
type Thresholds struct {
	// SolarNoonMaxDistMin rejects a day when its nearest 5-minute bin
	// center sits further than this from solar noon.
	SolarNoonMaxDistMin float64 `yaml:"solar_noon_max_dist_min" json:"solar_noon_max_dist_min"`
	// StabilityRatioMax is the (max-min)/mean ceiling for a stable day.
	StabilityRatioMax float64 `yaml:"stability_ratio_max" json:"stability_ratio_max"`
	// MediumToleranceMin is the nearest-sample fallback tolerance for
	// 5-minute instruments.
	MediumToleranceMin float64 `yaml:"medium_tolerance_min" json:"medium_tolerance_min"`
	// IrregularToleranceMin is the nearest-sample tolerance for
	// sparse/manual instruments.
	IrregularToleranceMin float64 `yaml:"irregular_tolerance_min" json:"irregular_tolerance_min"`
	// SROutlierFloorPct nulls SR values below this percentage.
	SROutlierFloorPct float64 `yaml:"sr_outlier_floor_pct" json:"sr_outlier_floor_pct"`
	// MinIscA is the minimum short-circuit current for a usable
	// soiling-kit sample.
	MinIscA float64 `yaml:"min_isc_a" json:"min_isc_a"`
	// MinPmaxW is the minimum module power for a usable stand sample.
	MinPmaxW float64 `yaml:"min_pmax_w" json:"min_pmax_w"`
	// TempMatchToleranceMin bounds the nearest-timestamp join between
	// SR rows and module temperatures.
	TempMatchToleranceMin float64 `yaml:"temp_match_tolerance_min" json:"temp_match_tolerance_min"`
	// Alpha is the significance level for every hypothesis test.
	Alpha float64 `yaml:"alpha" json:"alpha"`
	// UnknownStabilityPasses decides whether days without a stability
	// verdict flow downstream. The station default is true, matching
	// the long-standing degraded-mode behavior; set false to hold
	// unverified days back.
	UnknownStabilityPasses bool `yaml:"unknown_stability_passes" json:"unknown_stability_passes"`
}

// SolarNoonMaxDist returns the acceptance window as a duration.
func (t Thresholds) SolarNoonMaxDist() time.Duration {
	return minutes(t.SolarNoonMaxDistMin)
}

// MediumTolerance returns the 5-minute-class tolerance as a duration.
func (t Thresholds) MediumTolerance() time.Duration {
	return minutes(t.MediumToleranceMin)
}

// IrregularTolerance returns the sparse-class tolerance as a duration.
func (t Thresholds) IrregularTolerance() time.Duration {
	return minutes(t.IrregularToleranceMin)
}

// TempMatchTolerance returns the temperature-join tolerance as a
// duration.
func (t Thresholds) TempMatchTolerance() time.Duration {
	return minutes(t.TempMatchToleranceMin)
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

// TempCorrection holds the IEC 60891 first-order correction parameters
// and the module-temperature channels used for the lookup.
type TempCorrection struct {
	AlphaIscPerC     float64 `yaml:"alpha_isc_per_c" json:"alpha_isc_per_c"`
	BetaPmaxPerC     float64 `yaml:"beta_pmax_per_c" json:"beta_pmax_per_c"`
	ReferenceC       float64 `yaml:"reference_c" json:"reference_c"`
	SoiledChannel    string  `yaml:"soiled_channel" json:"soiled_channel"`
	CleanChannel     string  `yaml:"clean_channel" json:"clean_channel"`
	TempInstrumentID string  `yaml:"temp_instrument" json:"temp_instrument"`
}

// Reference names the session-defining instrument and the irradiance
// channel backing the stability filter.
type Reference struct {
	InstrumentID           string `yaml:"instrument" json:"instrument"`
	IrradianceInstrumentID string `yaml:"irradiance_instrument" json:"irradiance_instrument"`
	IrradianceChannel      string `yaml:"irradiance_channel" json:"irradiance_channel"`
}

// Sampling classes. They select the alignment strategy.
const (
	SamplingDense     = "dense"     // ~1-minute cadence, window averaging
	SamplingMedium    = "medium"    // ~5-minute cadence, same-bin match
	SamplingIrregular = "irregular" // sparse/manual, nearest within tolerance
)

// Formula identifiers. Empty means the instrument carries support data
// only (no SR of its own).
const (
	FormulaSoilingKit = "soilingkit"
	FormulaDustIQ     = "dustiq"
	FormulaRefCells   = "refcells"
	FormulaPVGlasses  = "pv_glasses"
	FormulaPVStand    = "pvstand"
	FormulaIV600      = "iv600"
)

// Instrument describes one sensor export.
type Instrument struct {
	ID       string `yaml:"id" json:"id"`
	File     string `yaml:"file" json:"file"`
	Sampling string `yaml:"sampling" json:"sampling"`
	// TZLocal is the IANA zone of naive timestamps in the export.
	// Empty means the export is already UTC.
	TZLocal string `yaml:"tz_local,omitempty" json:"tz_local,omitempty"`
	// TimeColumn overrides time-column detection when set.
	TimeColumn string   `yaml:"time_column,omitempty" json:"time_column,omitempty"`
	Required   []string `yaml:"required_columns" json:"required_columns"`
	Formula    string   `yaml:"formula,omitempty" json:"formula,omitempty"`
	// Reference marks the session-defining instrument; it skips the
	// alignment stage because session selection already produced its
	// canonical rows.
	Reference bool `yaml:"reference,omitempty" json:"reference,omitempty"`
	Enabled   bool `yaml:"enabled" json:"enabled"`
}

// Location resolves the instrument's local zone, nil when its
// timestamps are already UTC.
func (i Instrument) Location() (*time.Location, error) {
	if i.TZLocal == "" {
		return nil, nil
	}
	return time.LoadLocation(i.TZLocal)
}

// WeeklySeries maps one weekly aggregate onto an instrument's SR
// column. Instruments with corrected variants appear twice (raw and
// corrected) under different labels.
type WeeklySeries struct {
	Label        string `yaml:"label" json:"label"`
	InstrumentID string `yaml:"instrument" json:"instrument"`
	Column       string `yaml:"column" json:"column"`
}

// Instrument returns the instrument with the given id, or false.
func (r *Registry) Instrument(id string) (Instrument, bool) {
	for _, in := range r.Instruments {
		if in.ID == id {
			return in, true
		}
	}
	return Instrument{}, false
}

// EnabledInstruments returns the enabled instruments in file order.
func (r *Registry) EnabledInstruments() []Instrument {
	var out []Instrument
	for _, in := range r.Instruments {
		if in.Enabled {
			out = append(out, in)
		}
	}
	return out
}
