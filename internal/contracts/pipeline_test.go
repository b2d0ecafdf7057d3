package contracts

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStage_ShortName(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		want  string
	}{
		{"sessions", StageSessions, "S1"},
		{"align", StageAlign, "S2"},
		{"daystats", StageDayStats, "S2B"},
		{"sr", StageSR, "S3"},
		{"weekly", StageWeekly, "S4"},
		{"compare", StageCompare, "S5"},
		{"unknown stage", Stage("S9_NOPE"), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stage.ShortName(); got != tt.want {
				t.Errorf("ShortName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllStages_Order(t *testing.T) {
	want := []Stage{StageSessions, StageAlign, StageSR, StageWeekly, StageCompare}

	got := AllStages()
	if len(got) != len(want) {
		t.Fatalf("AllStages() returned %d stages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllStages()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIsValidStage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"first stage", "S1_SESSIONS", true},
		{"last stage", "S5_COMPARE", true},
		{"opt-in daystats", "S2B_DAYSTATS", true},
		{"short name is not a stage", "S1", false},
		{"empty string", "", false},
		{"made up", "S9_NOPE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidStage(tt.in); got != tt.want {
				t.Errorf("IsValidStage(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStageResult_JSON(t *testing.T) {
	original := StageResult{
		Stage:       StageAlign,
		Success:     true,
		InputCount:  7,
		OutputCount: 6,
		SkipCount:   1,
		DurationMS:  125,
		Skips:       map[string]string{"dustiq": "no rows inside any session window"},
	}

	// Marshal
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// Unmarshal
	var decoded StageResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	// Verify
	if decoded.Stage != original.Stage {
		t.Errorf("Stage mismatch: got %v, want %v", decoded.Stage, original.Stage)
	}
	if decoded.OutputCount != original.OutputCount {
		t.Errorf("OutputCount mismatch: got %d, want %d", decoded.OutputCount, original.OutputCount)
	}
	if decoded.DurationMS != original.DurationMS {
		t.Errorf("DurationMS mismatch: got %d, want %d", decoded.DurationMS, original.DurationMS)
	}
	if decoded.Skips["dustiq"] != original.Skips["dustiq"] {
		t.Errorf("Skips mismatch: got %q, want %q", decoded.Skips["dustiq"], original.Skips["dustiq"])
	}
}

func TestStageResult_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(StageResult{Stage: StageSR, Success: true, DurationMS: 12})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	s := string(data)

	for _, key := range []string{`"stage"`, `"success"`, `"input_count"`, `"output_count"`, `"skip_count"`, `"duration_ms"`} {
		if !strings.Contains(s, key) {
			t.Errorf("Marshaled result missing %s: %s", key, s)
		}
	}
	for _, key := range []string{`"error"`, `"skips"`} {
		if strings.Contains(s, key) {
			t.Errorf("Empty %s should be omitted: %s", key, s)
		}
	}
}

func TestRunSummary_JSON(t *testing.T) {
	original := RunSummary{
		StartedAt:    "2023-07-03T12:00:00Z",
		FinishedAt:   "2023-07-03T12:00:04Z",
		RegistryHash: "deadbeef",
		Results: []StageResult{
			{Stage: StageSessions, Success: true, InputCount: 84, OutputCount: 28},
			{Stage: StageAlign, Success: false, Error: "no usable instruments"},
		},
	}

	// Marshal
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// Unmarshal
	var decoded RunSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	// Verify
	if decoded.StartedAt != original.StartedAt {
		t.Errorf("StartedAt mismatch: got %q, want %q", decoded.StartedAt, original.StartedAt)
	}
	if decoded.RegistryHash != original.RegistryHash {
		t.Errorf("RegistryHash mismatch: got %q, want %q", decoded.RegistryHash, original.RegistryHash)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("Results length = %d, want 2", len(decoded.Results))
	}
	if decoded.Results[1].Error != original.Results[1].Error {
		t.Errorf("Error mismatch: got %q, want %q", decoded.Results[1].Error, original.Results[1].Error)
	}
}
