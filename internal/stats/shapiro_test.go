package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapiroWilk(t *testing.T) {
	t.Run("normal order statistics score high", func(t *testing.T) {
		// Values laid out like standard normal quantiles.
		data := []float64{-1.55, -1.00, -0.65, -0.37, -0.12, 0.12, 0.37, 0.65, 1.00, 1.55}
		res, err := ShapiroWilk(data)
		require.NoError(t, err)
		assert.Greater(t, res.W, 0.95)
		assert.Greater(t, res.P, 0.10)
		assert.Equal(t, 10, res.N)
	})

	t.Run("gross outlier rejected", func(t *testing.T) {
		data := []float64{1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 30}
		res, err := ShapiroWilk(data)
		require.NoError(t, err)
		assert.Less(t, res.W, 0.5)
		assert.Less(t, res.P, 0.01)
	})

	t.Run("three points", func(t *testing.T) {
		// The n = 3 case is exact: equally spaced points reach W = 1.
		res, err := ShapiroWilk([]float64{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, res.W, 1e-9)
		assert.InDelta(t, 1.0, res.P, 1e-5)
	})

	t.Run("small n five", func(t *testing.T) {
		res, err := ShapiroWilk([]float64{2, 4, 5, 6, 8})
		require.NoError(t, err)
		assert.Greater(t, res.W, 0.9)
		assert.Greater(t, res.P, 0.05)
	})

	t.Run("too few values", func(t *testing.T) {
		_, err := ShapiroWilk([]float64{1, 2})
		assert.Error(t, err)
	})

	t.Run("beyond approximation range", func(t *testing.T) {
		data := make([]float64, 5001)
		for i := range data {
			data[i] = float64(i)
		}
		_, err := ShapiroWilk(data)
		assert.Error(t, err)
	})

	t.Run("zero range", func(t *testing.T) {
		_, err := ShapiroWilk([]float64{2, 2, 2})
		assert.Error(t, err)
	})
}
