package commands

import (
	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "S1 - selección de sesiones de mediodía solar",
	Long: `Selecciona por día la ventana de 5 minutos más cercana al mediodía
solar (modelo NOAA) sobre el instrumento de referencia, y emite el
veredicto de estabilidad de irradiancia de cada sesión.

Salidas:
- sessions/soilingkit_solar_noon.csv
- sessions/soilingkit_dist_stats.csv
- sessions/stability_verdicts.csv

Example:
  go run ./cmd/soiling sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleStage(cmd, contracts.StageSessions)
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
