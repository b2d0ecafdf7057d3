package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	week := []float64{80, 85, 90, 91, 95, 99, 100}

	tests := []struct {
		name string
		data []float64
		p    float64
		want float64
	}{
		{"q25 interpolates between ranks", week, 25, 87.5},
		{"q50 lands on a rank", week, 50, 91},
		{"q75 interpolates", week, 75, 97},
		{"p0 is the minimum", week, 0, 80},
		{"p100 is the maximum", week, 100, 100},
		{"unsorted input", []float64{91, 80, 99, 85, 100, 90, 95}, 25, 87.5},
		{"even length median", []float64{1, 2, 3, 4}, 50, 2.5},
		{"single value", []float64{42}, 25, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.data, tt.p), 1e-9)
		})
	}

	t.Run("empty is NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(Percentile(nil, 25)))
	})
}

func TestQuartiles(t *testing.T) {
	q25, q50, q75 := Quartiles([]float64{80, 85, 90, 91, 95, 99, 100})
	assert.InDelta(t, 87.5, q25, 1e-9)
	assert.InDelta(t, 91, q50, 1e-9)
	assert.InDelta(t, 97, q75, 1e-9)

	q25, q50, q75 = Quartiles(nil)
	assert.True(t, math.IsNaN(q25))
	assert.True(t, math.IsNaN(q50))
	assert.True(t, math.IsNaN(q75))
}

func TestMean(t *testing.T) {
	assert.InDelta(t, 11.0, Mean([]float64{10, 12, 11, 13, 9}), 1e-9)
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestSampleStd(t *testing.T) {
	// mean 5, sum of squared deviations 32, n-1 = 7.
	got := SampleStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, math.Sqrt(32.0/7.0), got, 1e-12)

	assert.True(t, math.IsNaN(SampleStd([]float64{5})))
	assert.True(t, math.IsNaN(SampleStd(nil)))
}

func TestCVPercent(t *testing.T) {
	got := CVPercent([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, math.Sqrt(32.0/7.0)/5*100, got, 1e-9)

	t.Run("zero mean undefined", func(t *testing.T) {
		assert.True(t, math.IsNaN(CVPercent([]float64{-1, 1})))
	})
	t.Run("single value undefined", func(t *testing.T) {
		assert.True(t, math.IsNaN(CVPercent([]float64{5})))
	})
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3, -2, 7, 0})
	assert.Equal(t, -2.0, min)
	assert.Equal(t, 7.0, max)

	min, max = MinMax(nil)
	assert.True(t, math.IsNaN(min))
	assert.True(t, math.IsNaN(max))
}

func TestDropNaN(t *testing.T) {
	got := DropNaN([]float64{1, math.NaN(), 2, math.NaN(), 3})
	require.Equal(t, []float64{1, 2, 3}, got)

	assert.Empty(t, DropNaN([]float64{math.NaN()}))
	assert.Empty(t, DropNaN(nil))
}
