package sessions

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

func sessionAt(date time.Time, start time.Time) contracts.DaySession {
	return contracts.DaySession{
		Date:        contracts.DateOf(date),
		Center:      start.Add(contracts.SessionWindowLength / 2),
		WindowStart: start,
		WindowEnd:   start.Add(contracts.SessionWindowLength),
	}
}

func TestStabilityFilter_Evaluate(t *testing.T) {
	day := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC)
	start := time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)
	s := sessionAt(day, start)
	filter := NewStabilityFilter(0.10, logger.NewNop())

	tests := []struct {
		name        string
		times       []time.Time
		values      []float64
		wantVerdict contracts.Stability
		wantRatio   float64
		wantN       int
	}{
		{
			name:        "clear sky is stable",
			times:       []time.Time{start, start.Add(time.Minute), start.Add(2 * time.Minute)},
			values:      []float64{1000, 1020, 1010},
			wantVerdict: contracts.StabilityStable,
			wantRatio:   20.0 / 1010.0,
			wantN:       3,
		},
		{
			name:        "passing cloud is unstable",
			times:       []time.Time{start, start.Add(time.Minute)},
			values:      []float64{500, 1000},
			wantVerdict: contracts.StabilityUnstable,
			wantRatio:   500.0 / 750.0,
			wantN:       2,
		},
		{
			name:        "ratio at the ceiling is unstable",
			times:       []time.Time{start, start.Add(time.Minute)},
			values:      []float64{950, 1050},
			wantVerdict: contracts.StabilityUnstable,
			wantRatio:   0.10,
			wantN:       2,
		},
		{
			name:        "single sample is unknown",
			times:       []time.Time{start},
			values:      []float64{1000},
			wantVerdict: contracts.StabilityUnknown,
			wantN:       1,
		},
		{
			name:        "nan samples do not count",
			times:       []time.Time{start, start.Add(time.Minute), start.Add(2 * time.Minute)},
			values:      []float64{1000, math.NaN(), 1010},
			wantVerdict: contracts.StabilityStable,
			wantRatio:   10.0 / 1005.0,
			wantN:       2,
		},
		{
			name: "window end is exclusive",
			times: []time.Time{
				start,
				start.Add(contracts.SessionWindowLength), // out
				start.Add(time.Minute),
			},
			values:      []float64{1000, 1, 1010},
			wantVerdict: contracts.StabilityStable,
			wantRatio:   10.0 / 1005.0,
			wantN:       2,
		},
		{
			name:        "out of window entirely is unknown",
			times:       []time.Time{start.Add(-time.Hour), start.Add(time.Hour)},
			values:      []float64{1000, 1000},
			wantVerdict: contracts.StabilityUnknown,
			wantN:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdicts := filter.Evaluate([]contracts.DaySession{s}, tt.times, tt.values)
			require.Len(t, verdicts, 1)
			v := verdicts[0]

			assert.Equal(t, tt.wantVerdict, v.Verdict)
			assert.Equal(t, tt.wantN, v.NSamples)
			assert.True(t, v.Date.Equal(s.Date))
			if tt.wantVerdict != contracts.StabilityUnknown {
				assert.InDelta(t, tt.wantRatio, v.Ratio, 1e-9)
			}
		})
	}

	t.Run("non-positive mean is unstable with undefined ratio", func(t *testing.T) {
		// Nighttime pyranometer offsets can go negative.
		verdicts := filter.Evaluate([]contracts.DaySession{s},
			[]time.Time{start, start.Add(time.Minute)},
			[]float64{-5, 3})
		require.Len(t, verdicts, 1)
		assert.Equal(t, contracts.StabilityUnstable, verdicts[0].Verdict)
		assert.True(t, math.IsNaN(verdicts[0].Ratio))
	})
}

func TestUnknown(t *testing.T) {
	sessions := []contracts.DaySession{
		sessionAt(time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC), time.Date(2023, 7, 3, 16, 40, 0, 0, time.UTC)),
		sessionAt(time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC), time.Date(2023, 7, 4, 16, 40, 0, 0, time.UTC)),
	}
	verdicts := Unknown(sessions)
	require.Len(t, verdicts, 2)
	for i, v := range verdicts {
		assert.Equal(t, contracts.StabilityUnknown, v.Verdict)
		assert.True(t, v.Date.Equal(sessions[i].Date))
	}
}

func TestFilter(t *testing.T) {
	d1 := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC)
	sessions := []contracts.DaySession{
		sessionAt(d1, d1.Add(16*time.Hour)),
		sessionAt(d2, d2.Add(16*time.Hour)),
		sessionAt(d3, d3.Add(16*time.Hour)),
	}
	// Day 3 has no verdict at all.
	verdicts := []contracts.StabilityVerdict{
		{Date: d1, Verdict: contracts.StabilityStable},
		{Date: d2, Verdict: contracts.StabilityUnstable},
	}

	t.Run("unknown passes", func(t *testing.T) {
		kept := Filter(sessions, verdicts, true)
		require.Len(t, kept, 2)
		assert.True(t, kept[0].Date.Equal(d1))
		assert.True(t, kept[1].Date.Equal(d3))
	})

	t.Run("unknown held back", func(t *testing.T) {
		kept := Filter(sessions, verdicts, false)
		require.Len(t, kept, 1)
		assert.True(t, kept[0].Date.Equal(d1))
	})

	t.Run("unstable never passes", func(t *testing.T) {
		for _, unknownPasses := range []bool{true, false} {
			for _, s := range Filter(sessions, verdicts, unknownPasses) {
				assert.False(t, s.Date.Equal(d2))
			}
		}
	})
}
