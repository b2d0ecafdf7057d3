package daystats

import (
	"fmt"
	"math"
	"strings"
	"time"

	mstats "github.com/montanaflynn/stats"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

// StatsTable flattens every instrument's per-day statistics into one
// long table.
func StatsTable(entries []InstrumentStats) *frame.Table {
	table := frame.NewTable([]string{
		"instrumento", "canal", "fecha", "n",
		"mean", "std", "min", "max", "range", "cv_pct",
	})
	for _, e := range entries {
		for _, d := range e.Days {
			table.AppendRow([]string{
				e.Instrument,
				e.Channel,
				d.Date.Format(timenorm.DateLayout),
				frame.FormatInt(d.N),
				frame.FormatFloatPrec(d.Mean, 3),
				frame.FormatFloatPrec(d.Std, 3),
				frame.FormatFloatPrec(d.Min, 3),
				frame.FormatFloatPrec(d.Max, 3),
				frame.FormatFloatPrec(d.Range, 3),
				frame.FormatFloatPrec(d.CVPct, 3),
			})
		}
	}
	return table
}

// Report renders the cross-day narrative summary.
func Report(entries []InstrumentStats, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# Estabilidad intradía en la ventana de mediodía solar\n\n")
	fmt.Fprintf(&b, "Generado: %s\n\n", generatedAt.UTC().Format(timenorm.TimestampLayout))
	b.WriteString("Estadísticas del canal primario de cada instrumento dentro de la ventana de 5 minutos de cada día aceptado.\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", e.Instrument, e.Channel)
		if len(e.Days) == 0 {
			b.WriteString("Sin días con muestras en ventana.\n")
			continue
		}

		stds := make([]float64, 0, len(e.Days))
		cvs := make([]float64, 0, len(e.Days))
		means := make([]float64, 0, len(e.Days))
		for _, d := range e.Days {
			means = append(means, d.Mean)
			stds = append(stds, d.Std)
			cvs = append(cvs, d.CVPct)
		}
		stds = dropNaN(stds)
		cvs = dropNaN(cvs)

		fmt.Fprintf(&b, "- días analizados: %d\n", len(e.Days))
		fmt.Fprintf(&b, "- std diaria: media %.3f, mediana %.3f, p95 %.3f\n",
			safeStat(mstats.Mean, stds), safeStat(mstats.Median, stds), safePercentile(stds, 95))
		fmt.Fprintf(&b, "- cv_pct diario: media %.3f, mediana %.3f, p95 %.3f\n",
			safeStat(mstats.Mean, cvs), safeStat(mstats.Median, cvs), safePercentile(cvs, 95))

		b.WriteString("\nDistribución de las medias diarias:\n\n")
		b.WriteString("| n | mean | std | min | p05 | p25 | p50 | p75 | p95 | max |\n")
		b.WriteString("|---|------|-----|-----|-----|-----|-----|-----|-----|-----|\n")
		fmt.Fprintf(&b, "| %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
			len(means),
			safeStat(mstats.Mean, means),
			safeStat(mstats.StandardDeviationSample, means),
			safeStat(mstats.Min, means),
			safePercentile(means, 5),
			safePercentile(means, 25),
			safePercentile(means, 50),
			safePercentile(means, 75),
			safePercentile(means, 95),
			safeStat(mstats.Max, means),
		)
	}
	return b.String()
}

func dropNaN(data []float64) []float64 {
	out := data[:0]
	for _, v := range data {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
