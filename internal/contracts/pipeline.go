package contracts

// Pipeline stage definitions. Every log line, run summary and output
// directory refers to stages through these constants.
//
// Flow:
//   S1 → S2 → S3 → S4 → S5
//   Sessions  Align  SR  Weekly  Compare
//
// S2B (daystats) is an off-path diagnostic that only needs S1 output.

// Stage represents a pipeline stage
type Stage string

const (
	// StageSessions S1: solar-noon session selection plus irradiance
	// stability verdicts from the reference instrument.
	// Location: internal/sessions/
	StageSessions Stage = "S1_SESSIONS"

	// StageAlign S2: per-instrument alignment onto the session table.
	// Location: internal/align/
	StageAlign Stage = "S2_ALIGN"

	// StageDayStats S2B: in-window dispersion diagnostics for dense
	// instruments. Off the critical path.
	// Location: internal/daystats/
	StageDayStats Stage = "S2B_DAYSTATS"

	// StageSR S3: soiling-ratio computation, temperature correction and
	// outlier suppression.
	// Location: internal/soilingratio/
	StageSR Stage = "S3_SR"

	// StageWeekly S4: weekly Q25 aggregation, normalized series and
	// dispersion summary.
	// Location: internal/weekly/
	StageWeekly Stage = "S4_WEEKLY"

	// StageCompare S5: pairwise correlation and group hypothesis tests
	// across instruments.
	// Location: internal/compare/
	StageCompare Stage = "S5_COMPARE"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S1", "S2")
func (s Stage) ShortName() string {
	switch s {
	case StageSessions:
		return "S1"
	case StageAlign:
		return "S2"
	case StageDayStats:
		return "S2B"
	case StageSR:
		return "S3"
	case StageWeekly:
		return "S4"
	case StageCompare:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human-readable description of the stage
func (s Stage) Description() string {
	switch s {
	case StageSessions:
		return "solar-noon session selection"
	case StageAlign:
		return "cross-instrument alignment"
	case StageDayStats:
		return "in-window dispersion diagnostics"
	case StageSR:
		return "soiling-ratio computation"
	case StageWeekly:
		return "weekly aggregation"
	case StageCompare:
		return "cross-instrument comparison"
	default:
		return "unknown"
	}
}

// AllStages returns the critical-path stages in execution order.
// StageDayStats is excluded; it is opt-in.
func AllStages() []Stage {
	return []Stage{
		StageSessions,
		StageAlign,
		StageSR,
		StageWeekly,
		StageCompare,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	if s == string(StageDayStats) {
		return true
	}
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult represents the result of one pipeline stage execution.
// Counts are at the granularity the stage works in: days for S1,
// instruments for S2..S5.
type StageResult struct {
	Stage       Stage             `json:"stage"`
	Success     bool              `json:"success"`
	InputCount  int               `json:"input_count"`
	OutputCount int               `json:"output_count"`
	SkipCount   int               `json:"skip_count"`
	DurationMS  int64             `json:"duration_ms"`
	Error       string            `json:"error,omitempty"`
	Skips       map[string]string `json:"skips,omitempty"` // unit id -> reason
}

// RunSummary records one full pipeline run for the run_summary.json
// artifact. Sample sizes and skip reasons stay visible to the reader.
type RunSummary struct {
	StartedAt    string        `json:"started_at"`
	FinishedAt   string        `json:"finished_at"`
	RegistryHash string        `json:"registry_hash"`
	Results      []StageResult `json:"results"`
}
