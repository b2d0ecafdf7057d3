package commands

import (
	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
)

// daystatsCmd represents the daystats command
var daystatsCmd = &cobra.Command{
	Use:   "daystats",
	Short: "S2B - diagnóstico de dispersión intradía",
	Long: `Diagnóstico fuera de la ruta crítica: estadística descriptiva de la
ventana de mediodía solar para los instrumentos densos (n, media,
desviación, rango, CV por día). Solo requiere los artefactos de S1.

Salidas:
- daystats/daily_window_stats.csv
- daystats/daily_window_report.md

Example:
  go run ./cmd/soiling daystats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleStage(cmd, contracts.StageDayStats)
	},
}

func init() {
	rootCmd.AddCommand(daystatsCmd)
}
