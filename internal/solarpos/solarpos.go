// Package solarpos computes the sun's elevation angle and the daily
// solar-noon instant for a fixed site.
//
// The model is the NOAA Global Monitoring Division's "General Solar
// Position Calculations": fractional-year expansion of the equation of
// time and the solar declination, then the hour-angle formula for
// elevation. Accuracy is a small fraction of a degree over the years
// this dataset covers, far finer than the 5-minute bins the selector
// chooses between.
package solarpos

import (
	"math"
	"time"
)

// Site is the fixed geolocation of the measurement station. AltitudeM
// is carried from the site survey; the geometric elevation computed
// here does not depend on it.
type Site struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64
}

const degToRad = math.Pi / 180

// fractionalYear returns the NOAA fractional-year angle in radians for
// a UTC instant.
func fractionalYear(t time.Time) float64 {
	t = t.UTC()
	days := 365.0
	if isLeapYear(t.Year()) {
		days = 366.0
	}
	hours := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	return 2 * math.Pi / days * (float64(t.YearDay()) - 1 + (hours-12)/24)
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// equationOfTimeMin returns the equation of time in minutes for the
// fractional-year angle g.
func equationOfTimeMin(g float64) float64 {
	return 229.18 * (0.000075 +
		0.001868*math.Cos(g) -
		0.032077*math.Sin(g) -
		0.014615*math.Cos(2*g) -
		0.040849*math.Sin(2*g))
}

// declinationRad returns the solar declination in radians for the
// fractional-year angle g.
func declinationRad(g float64) float64 {
	return 0.006918 -
		0.399912*math.Cos(g) +
		0.070257*math.Sin(g) -
		0.006758*math.Cos(2*g) +
		0.000907*math.Sin(2*g) -
		0.002697*math.Cos(3*g) +
		0.00148*math.Sin(3*g)
}

// ElevationDeg returns the geometric solar elevation angle in degrees
// at the UTC instant t, negative when the sun is below the horizon.
func ElevationDeg(site Site, t time.Time) float64 {
	t = t.UTC()
	g := fractionalYear(t)
	eqtime := equationOfTimeMin(g)
	decl := declinationRad(g)

	// True solar time in minutes; input clock is UTC so there is no
	// zone term.
	clockMin := float64(t.Hour())*60 + float64(t.Minute()) + float64(t.Second())/60
	tst := clockMin + eqtime + 4*site.LongitudeDeg
	haDeg := tst/4 - 180

	lat := site.LatitudeDeg * degToRad
	ha := haDeg * degToRad

	cosZenith := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(ha)
	if cosZenith > 1 {
		cosZenith = 1
	} else if cosZenith < -1 {
		cosZenith = -1
	}
	zenith := math.Acos(cosZenith)
	return 90 - zenith/degToRad
}

// SolarNoon returns the instant of maximum solar elevation on the UTC
// calendar day containing date, scanned at 1-minute resolution. Ties
// keep the earliest minute.
func SolarNoon(site Site, date time.Time) time.Time {
	d := date.UTC()
	dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	best := dayStart
	bestElev := math.Inf(-1)
	for m := 0; m < 24*60; m++ {
		t := dayStart.Add(time.Duration(m) * time.Minute)
		if e := ElevationDeg(site, t); e > bestElev {
			bestElev = e
			best = t
		}
	}
	return best
}
