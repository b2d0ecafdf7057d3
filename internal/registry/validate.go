package registry

import (
	"fmt"
	"time"
)

// ValidationError is a fatal configuration problem; startup aborts.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a recommended-constraint violation; logged, never fatal.
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints.
func Validate(reg *Registry) error {
	// === Thresholds ===
	t := reg.Thresholds
	if t.SolarNoonMaxDistMin <= 0 {
		return ValidationError{"thresholds.solar_noon_max_dist_min", "must be > 0"}
	}
	if t.StabilityRatioMax <= 0 || t.StabilityRatioMax >= 1 {
		return ValidationError{"thresholds.stability_ratio_max", "must be in (0, 1)"}
	}
	if t.MediumToleranceMin <= 0 {
		return ValidationError{"thresholds.medium_tolerance_min", "must be > 0"}
	}
	if t.IrregularToleranceMin <= 0 {
		return ValidationError{"thresholds.irregular_tolerance_min", "must be > 0"}
	}
	if t.SROutlierFloorPct < 0 || t.SROutlierFloorPct >= 100 {
		return ValidationError{"thresholds.sr_outlier_floor_pct", "must be in [0, 100)"}
	}
	if t.MinIscA < 0 {
		return ValidationError{"thresholds.min_isc_a", "must be >= 0"}
	}
	if t.MinPmaxW < 0 {
		return ValidationError{"thresholds.min_pmax_w", "must be >= 0"}
	}
	if t.TempMatchToleranceMin <= 0 {
		return ValidationError{"thresholds.temp_match_tolerance_min", "must be > 0"}
	}
	if t.Alpha <= 0 || t.Alpha >= 1 {
		return ValidationError{"thresholds.alpha", "must be in (0, 1)"}
	}

	// === Temperature correction ===
	tc := reg.TempCorrection
	if tc.ReferenceC == 0 {
		return ValidationError{"temperature_correction.reference_c", "required"}
	}
	if tc.AlphaIscPerC == 0 {
		return ValidationError{"temperature_correction.alpha_isc_per_c", "required"}
	}
	if tc.BetaPmaxPerC == 0 {
		return ValidationError{"temperature_correction.beta_pmax_per_c", "required"}
	}

	// === Instruments ===
	if len(reg.Instruments) == 0 {
		return ValidationError{"instruments", "at least one instrument required"}
	}
	seen := make(map[string]bool)
	referenceCount := 0
	for i, in := range reg.Instruments {
		field := func(f string) string { return fmt.Sprintf("instruments[%d].%s", i, f) }
		if in.ID == "" {
			return ValidationError{field("id"), "required"}
		}
		if seen[in.ID] {
			return ValidationError{field("id"), fmt.Sprintf("duplicate id %q", in.ID)}
		}
		seen[in.ID] = true
		if in.File == "" {
			return ValidationError{field("file"), "required"}
		}
		switch in.Sampling {
		case SamplingDense, SamplingMedium, SamplingIrregular:
		default:
			return ValidationError{field("sampling"), fmt.Sprintf("must be one of %s, %s, %s", SamplingDense, SamplingMedium, SamplingIrregular)}
		}
		switch in.Formula {
		case "", FormulaSoilingKit, FormulaDustIQ, FormulaRefCells, FormulaPVGlasses, FormulaPVStand, FormulaIV600:
		default:
			return ValidationError{field("formula"), fmt.Sprintf("unknown formula %q", in.Formula)}
		}
		if in.TZLocal != "" {
			if _, err := time.LoadLocation(in.TZLocal); err != nil {
				return ValidationError{field("tz_local"), fmt.Sprintf("unknown zone %q", in.TZLocal)}
			}
		}
		if in.Reference {
			referenceCount++
		}
	}
	if referenceCount != 1 {
		return ValidationError{"instruments", fmt.Sprintf("exactly one reference instrument required, got %d", referenceCount)}
	}

	// === Reference block ===
	ref, ok := reg.Instrument(reg.Reference.InstrumentID)
	if !ok {
		return ValidationError{"reference.instrument", fmt.Sprintf("unknown instrument %q", reg.Reference.InstrumentID)}
	}
	if !ref.Reference {
		return ValidationError{"reference.instrument", "must carry reference: true in its instrument entry"}
	}
	if reg.Reference.IrradianceInstrumentID != "" {
		if _, ok := reg.Instrument(reg.Reference.IrradianceInstrumentID); !ok {
			return ValidationError{"reference.irradiance_instrument", fmt.Sprintf("unknown instrument %q", reg.Reference.IrradianceInstrumentID)}
		}
		if reg.Reference.IrradianceChannel == "" {
			return ValidationError{"reference.irradiance_channel", "required when irradiance_instrument is set"}
		}
	}

	// === Weekly series ===
	labels := make(map[string]bool)
	for i, ws := range reg.WeeklySeries {
		field := func(f string) string { return fmt.Sprintf("weekly_series[%d].%s", i, f) }
		if ws.Label == "" {
			return ValidationError{field("label"), "required"}
		}
		if labels[ws.Label] {
			return ValidationError{field("label"), fmt.Sprintf("duplicate label %q", ws.Label)}
		}
		labels[ws.Label] = true
		if _, ok := reg.Instrument(ws.InstrumentID); !ok {
			return ValidationError{field("instrument"), fmt.Sprintf("unknown instrument %q", ws.InstrumentID)}
		}
		if ws.Column == "" {
			return ValidationError{field("column"), "required"}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal).
func Warn(reg *Registry) []Warning {
	var warnings []Warning

	t := reg.Thresholds
	if t.SolarNoonMaxDistMin > 60 {
		warnings = append(warnings, Warning{
			Code:    "WIDE_NOON_WINDOW",
			Message: fmt.Sprintf("solar_noon_max_dist_min=%.0f: sessions may drift far from peak irradiance", t.SolarNoonMaxDistMin),
		})
	}
	if t.StabilityRatioMax > 0.2 {
		warnings = append(warnings, Warning{
			Code:    "LOOSE_STABILITY",
			Message: fmt.Sprintf("stability_ratio_max=%.2f: cloudy windows may pass as stable", t.StabilityRatioMax),
		})
	}
	if t.SROutlierFloorPct < 50 {
		warnings = append(warnings, Warning{
			Code:    "LOW_SR_FLOOR",
			Message: fmt.Sprintf("sr_outlier_floor_pct=%.0f: heavily shaded readings will survive as SR", t.SROutlierFloorPct),
		})
	}
	if reg.Reference.IrradianceInstrumentID == "" {
		warnings = append(warnings, Warning{
			Code:    "NO_STABILITY_REFERENCE",
			Message: "no irradiance reference configured: every day's stability verdict will be unknown",
		})
	}

	return warnings
}
