package pipeline

import "path/filepath"

// Paths maps every stage artifact under the output directory. All
// stages go through here so the layout is defined once.
type Paths struct {
	OutputDir string
}

func (p Paths) SessionsCSV() string {
	return filepath.Join(p.OutputDir, "sessions", "soilingkit_solar_noon.csv")
}

func (p Paths) DistStatsCSV() string {
	return filepath.Join(p.OutputDir, "sessions", "soilingkit_dist_stats.csv")
}

func (p Paths) VerdictsCSV() string {
	return filepath.Join(p.OutputDir, "sessions", "stability_verdicts.csv")
}

func (p Paths) AlignedCSV(instrumentID string) string {
	return filepath.Join(p.OutputDir, "aligned", instrumentID+"_aligned_solar_noon.csv")
}

func (p Paths) SRCSV(instrumentID string) string {
	return filepath.Join(p.OutputDir, "sr", instrumentID+"_sr.csv")
}

func (p Paths) WeeklyWideCSV() string {
	return filepath.Join(p.OutputDir, "weekly", "sr_semanal_q25.csv")
}

func (p Paths) WeeklyLongCSV() string {
	return filepath.Join(p.OutputDir, "weekly", "sr_semanal_q25_largo.csv")
}

func (p Paths) WeeklyNormCSV() string {
	return filepath.Join(p.OutputDir, "weekly", "sr_semanal_norm.csv")
}

func (p Paths) DispersionCSV() string {
	return filepath.Join(p.OutputDir, "weekly", "dispersion_semanal.csv")
}

func (p Paths) DayStatsCSV() string {
	return filepath.Join(p.OutputDir, "daystats", "daily_window_stats.csv")
}

func (p Paths) DayStatsReport() string {
	return filepath.Join(p.OutputDir, "daystats", "daily_window_report.md")
}

func (p Paths) CorrelationMatrixCSV() string {
	return filepath.Join(p.OutputDir, "compare", "correlacion_matrix.csv")
}

func (p Paths) CorrelationPValuesCSV() string {
	return filepath.Join(p.OutputDir, "compare", "correlacion_pvalues.csv")
}

func (p Paths) CorrelationNCSV() string {
	return filepath.Join(p.OutputDir, "compare", "correlacion_n.csv")
}

func (p Paths) CorrelationPairsCSV() string {
	return filepath.Join(p.OutputDir, "compare", "correlacion_pares.csv")
}

func (p Paths) CorrelationReport() string {
	return filepath.Join(p.OutputDir, "compare", "correlacion_report.md")
}

func (p Paths) AnovaResultsCSV() string {
	return filepath.Join(p.OutputDir, "compare", "anova_results.csv")
}

func (p Paths) TukeyCSV(view string) string {
	return filepath.Join(p.OutputDir, "compare", "anova_posthoc_tukey_"+view+".csv")
}

func (p Paths) DunnCSV(view string) string {
	return filepath.Join(p.OutputDir, "compare", "anova_posthoc_dunn_"+view+".csv")
}

func (p Paths) AnovaReport() string {
	return filepath.Join(p.OutputDir, "compare", "anova_report.md")
}

func (p Paths) RunSummaryJSON() string {
	return filepath.Join(p.OutputDir, "run_summary.json")
}
