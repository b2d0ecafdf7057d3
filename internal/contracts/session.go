package contracts

import "time"

// SessionWindowLength is the fixed length of a reference measurement
// window. The reference instrument reports on a 5-minute cadence and
// every downstream window derives from its bins.
const SessionWindowLength = 5 * time.Minute

// DaySession is one calendar day's canonical reference window, chosen
// as the 5-minute bin nearest to true solar noon. At most one exists
// per day. Immutable once created.
//
// Invariant: WindowStart <= Center < WindowEnd and
// WindowEnd = WindowStart + 5min.
type DaySession struct {
	// Date is the calendar day in UTC (midnight instant).
	Date time.Time
	// Center is the bin-center instant used for nearest-match
	// comparisons (bin start + 2.5 min).
	Center time.Time
	// WindowStart is the floored 5-minute bin boundary.
	WindowStart time.Time
	// WindowEnd is WindowStart + 5 minutes (exclusive).
	WindowEnd time.Time
	// DistSolarNoonMin is |Center - solar noon| in minutes, kept for
	// diagnostics.
	DistSolarNoonMin float64
}

// Contains reports whether t falls inside the half-open measurement
// window [WindowStart, WindowEnd).
func (s DaySession) Contains(t time.Time) bool {
	return !t.Before(s.WindowStart) && t.Before(s.WindowEnd)
}

// Valid reports whether the session satisfies its window invariant.
func (s DaySession) Valid() bool {
	if !s.WindowEnd.Equal(s.WindowStart.Add(SessionWindowLength)) {
		return false
	}
	return !s.Center.Before(s.WindowStart) && s.Center.Before(s.WindowEnd)
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Stability classifies a day's reference-irradiance spread inside the
// session window. Unknown means the verdict could not be computed
// (fewer than two reference samples, or no reference data at all);
// whether Unknown days pass downstream filtering is a registry policy,
// not a hardcoded default.
type Stability int

const (
	StabilityUnknown Stability = iota
	StabilityStable
	StabilityUnstable
)

// String returns the verdict name as written to the verdicts table.
func (s Stability) String() string {
	switch s {
	case StabilityStable:
		return "stable"
	case StabilityUnstable:
		return "unstable"
	default:
		return "unknown"
	}
}

// ParseStability converts a verdict-table string back to a Stability.
// Unrecognized values map to Unknown.
func ParseStability(v string) Stability {
	switch v {
	case "stable":
		return StabilityStable
	case "unstable":
		return StabilityUnstable
	default:
		return StabilityUnknown
	}
}

// StabilityVerdict is the per-day output of the irradiance stability
// filter. Ratio is (max-min)/mean over in-window samples; NSamples is
// how many samples the window held. Both are zero when Verdict is
// Unknown for lack of data.
type StabilityVerdict struct {
	Date     time.Time
	Verdict  Stability
	Ratio    float64
	NSamples int
}
