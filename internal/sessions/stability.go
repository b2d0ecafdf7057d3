package sessions

import (
	"math"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// StabilityFilter classifies each session day by the relative spread
// of a reference irradiance channel inside the session window.
type StabilityFilter struct {
	// RatioMax is the (max-min)/mean ceiling below which the window
	// counts as stable.
	RatioMax float64

	log *logger.Logger
}

// NewStabilityFilter creates a StabilityFilter.
func NewStabilityFilter(ratioMax float64, log *logger.Logger) *StabilityFilter {
	return &StabilityFilter{RatioMax: ratioMax, log: log}
}

// Evaluate returns one verdict per session, in session order. times
// and values are the irradiance channel's samples; NaN values are
// ignored. Fewer than two in-window samples leaves the day Unknown
// rather than Unstable: absence of evidence is kept distinct from a
// failed check.
func (f *StabilityFilter) Evaluate(sessionList []contracts.DaySession, times []time.Time, values []float64) []contracts.StabilityVerdict {
	verdicts := make([]contracts.StabilityVerdict, 0, len(sessionList))

	stable, unstable, unknown := 0, 0, 0
	for _, s := range sessionList {
		v := f.evaluateDay(s, times, values)
		switch v.Verdict {
		case contracts.StabilityStable:
			stable++
		case contracts.StabilityUnstable:
			unstable++
		default:
			unknown++
		}
		verdicts = append(verdicts, v)
	}

	f.log.WithFields(map[string]interface{}{
		"stable":   stable,
		"unstable": unstable,
		"unknown":  unknown,
	}).Info("Irradiance stability verdicts computed")

	return verdicts
}

// Unknown returns an all-Unknown verdict list for degraded mode, when
// the irradiance reference file or channel is missing entirely. The
// caller logs the degradation; this keeps it out of the data path.
func Unknown(sessionList []contracts.DaySession) []contracts.StabilityVerdict {
	verdicts := make([]contracts.StabilityVerdict, 0, len(sessionList))
	for _, s := range sessionList {
		verdicts = append(verdicts, contracts.StabilityVerdict{Date: s.Date, Verdict: contracts.StabilityUnknown})
	}
	return verdicts
}

// Filter keeps the session days whose verdict passes: Stable always
// does, Unstable never does, and Unknown passes only when
// unknownPasses is set. Verdicts are matched to sessions by date;
// a day with no verdict at all is treated as Unknown.
func Filter(sessionList []contracts.DaySession, verdicts []contracts.StabilityVerdict, unknownPasses bool) []contracts.DaySession {
	byDate := make(map[int64]contracts.Stability, len(verdicts))
	for _, v := range verdicts {
		byDate[v.Date.Unix()] = v.Verdict
	}

	kept := make([]contracts.DaySession, 0, len(sessionList))
	for _, s := range sessionList {
		switch byDate[s.Date.Unix()] {
		case contracts.StabilityStable:
			kept = append(kept, s)
		case contracts.StabilityUnknown:
			if unknownPasses {
				kept = append(kept, s)
			}
		}
	}
	return kept
}

func (f *StabilityFilter) evaluateDay(s contracts.DaySession, times []time.Time, values []float64) contracts.StabilityVerdict {
	n := 0
	sum := 0.0
	min := math.Inf(1)
	max := math.Inf(-1)
	for i, t := range times {
		if !s.Contains(t) {
			continue
		}
		v := values[i]
		if math.IsNaN(v) {
			continue
		}
		n++
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if n < 2 {
		return contracts.StabilityVerdict{Date: s.Date, Verdict: contracts.StabilityUnknown, NSamples: n}
	}

	mean := sum / float64(n)
	if mean <= 0 {
		return contracts.StabilityVerdict{Date: s.Date, Verdict: contracts.StabilityUnstable, NSamples: n, Ratio: math.NaN()}
	}
	ratio := (max - min) / mean
	verdict := contracts.StabilityUnstable
	if ratio < f.RatioMax {
		verdict = contracts.StabilityStable
	}
	return contracts.StabilityVerdict{Date: s.Date, Verdict: verdict, Ratio: ratio, NSamples: n}
}
