package solarpos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The PSDA station in the Atacama desert.
var psda = Site{
	LatitudeDeg:  -24.08992287800815,
	LongitudeDeg: -69.92873664034512,
	AltitudeM:    500,
}

func TestSolarNoon_NearMeanSolarNoon(t *testing.T) {
	// Mean solar noon for longitude -69.93 is 12:00 + 69.93/15 h,
	// about 16:40 UTC; the equation of time shifts it by up to ~16 min.
	tests := []struct {
		name string
		date time.Time
	}{
		{"summer solstice", time.Date(2023, 12, 21, 0, 0, 0, 0, time.UTC)},
		{"winter solstice", time.Date(2023, 6, 21, 0, 0, 0, 0, time.UTC)},
		{"equinox", time.Date(2023, 3, 20, 0, 0, 0, 0, time.UTC)},
		{"mid february", time.Date(2023, 2, 12, 0, 0, 0, 0, time.UTC)},
		{"early november", time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC)},
	}

	meanNoon := time.Date(2023, 1, 1, 16, 39, 43, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noon := SolarNoon(psda, tt.date)

			assert.Equal(t, tt.date.Year(), noon.Year())
			assert.Equal(t, tt.date.YearDay(), noon.YearDay())

			ref := time.Date(tt.date.Year(), tt.date.Month(), tt.date.Day(),
				meanNoon.Hour(), meanNoon.Minute(), meanNoon.Second(), 0, time.UTC)
			dist := noon.Sub(ref)
			if dist < 0 {
				dist = -dist
			}
			assert.Less(t, dist, 20*time.Minute,
				"solar noon %s too far from mean solar noon", noon.Format("15:04"))
		})
	}
}

func TestElevationDeg_PeaksAtNoon(t *testing.T) {
	date := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC)
	noon := SolarNoon(psda, date)

	atNoon := ElevationDeg(psda, noon)
	before := ElevationDeg(psda, noon.Add(-3*time.Hour))
	after := ElevationDeg(psda, noon.Add(3*time.Hour))

	assert.Greater(t, atNoon, before)
	assert.Greater(t, atNoon, after)

	// July is Chilean winter; declination ~ +23, latitude -24, so the
	// noon sun stands about 90 - 47 = 43 degrees high.
	assert.InDelta(t, 43, atNoon, 3)
}

func TestElevationDeg_SummerNoonNearZenith(t *testing.T) {
	// December solstice: declination ~ -23.4, nearly overhead at
	// latitude -24.1.
	date := time.Date(2023, 12, 21, 0, 0, 0, 0, time.UTC)
	noon := SolarNoon(psda, date)
	assert.Greater(t, ElevationDeg(psda, noon), 85.0)
}

func TestElevationDeg_NegativeAtNight(t *testing.T) {
	// 05:00 UTC is around 1 am local in Chile.
	night := time.Date(2023, 7, 3, 5, 0, 0, 0, time.UTC)
	assert.Negative(t, ElevationDeg(psda, night))
}

func TestSolarNoon_StableAcrossDayInput(t *testing.T) {
	// Any instant of the day selects the same noon.
	a := SolarNoon(psda, time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC))
	b := SolarNoon(psda, time.Date(2023, 7, 3, 23, 59, 0, 0, time.UTC))
	require.True(t, a.Equal(b))
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, isLeapYear(2024))
	assert.True(t, isLeapYear(2000))
	assert.False(t, isLeapYear(2023))
	assert.False(t, isLeapYear(1900))
}
