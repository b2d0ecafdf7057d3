package commands

import (
	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
)

// weeklyCmd represents the weekly command
var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "S4 - agregación semanal Q25",
	Long: `Agrega las series diarias de soiling ratio por semana calendario
(lunes a domingo): cuartil 25, desviación estándar y n por semana,
más la serie normalizada a la primera semana y el resumen de
dispersión. Requiere los artefactos de S3.

Salidas:
- weekly/sr_semanal_q25.csv
- weekly/sr_semanal_q25_largo.csv
- weekly/sr_semanal_norm.csv
- weekly/dispersion_semanal.csv

Example:
  go run ./cmd/soiling weekly`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleStage(cmd, contracts.StageWeekly)
	},
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
}
