// Package daystats measures how quiet each instrument's primary
// channel is inside the daily solar-noon window. High intra-window
// spread on a dense channel usually means passing clouds or tracker
// shading, which is worth knowing before trusting that day's SR.
package daystats

import (
	"math"
	"time"

	mstats "github.com/montanaflynn/stats"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// DayStat is one accepted day's in-window spread summary.
type DayStat struct {
	Date  time.Time
	N     int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
	Range float64
	CVPct float64
}

// InstrumentStats is one instrument's full per-day series.
type InstrumentStats struct {
	Instrument string
	Channel    string
	Days       []DayStat
}

// Analyzer computes per-day window statistics.
type Analyzer struct {
	log *logger.Logger
}

// New creates an Analyzer.
func New(log *logger.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// Compute summarizes the channel inside every session window. Days
// with no in-window samples are absent. values[i] pairs with times[i];
// NaN samples are ignored.
func (a *Analyzer) Compute(instrument, channel string, sessionList []contracts.DaySession, times []time.Time, values []float64) InstrumentStats {
	out := InstrumentStats{Instrument: instrument, Channel: channel}

	for _, s := range sessionList {
		var window []float64
		for i, t := range times {
			if !s.Contains(t) || math.IsNaN(values[i]) {
				continue
			}
			window = append(window, values[i])
		}
		if len(window) == 0 {
			continue
		}
		out.Days = append(out.Days, summarizeDay(s.Date, window))
	}

	a.log.WithFields(map[string]interface{}{
		"instrument": instrument,
		"channel":    channel,
		"days":       len(out.Days),
	}).Info("Daily window statistics computed")
	return out
}

func summarizeDay(date time.Time, window []float64) DayStat {
	d := DayStat{Date: date, N: len(window)}
	d.Mean = safeStat(mstats.Mean, window)
	d.Std = safeStat(mstats.StandardDeviationSample, window)
	d.Min = safeStat(mstats.Min, window)
	d.Max = safeStat(mstats.Max, window)
	d.Range = d.Max - d.Min
	if d.Mean != 0 && !math.IsNaN(d.Std) {
		d.CVPct = 100 * d.Std / d.Mean
	} else {
		d.CVPct = math.NaN()
	}
	return d
}

// safeStat adapts montanaflynn's (value, error) signature to the NaN
// convention the tables use.
func safeStat(f func(mstats.Float64Data) (float64, error), data []float64) float64 {
	v, err := f(mstats.Float64Data(data))
	if err != nil {
		return math.NaN()
	}
	return v
}

func safePercentile(data []float64, percent float64) float64 {
	v, err := mstats.Percentile(mstats.Float64Data(data), percent)
	if err != nil {
		return math.NaN()
	}
	return v
}
