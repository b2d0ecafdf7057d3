package commands

import (
	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
)

// alignCmd represents the align command
var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "S2 - alineación temporal entre instrumentos",
	Long: `Alinea cada instrumento habilitado sobre las sesiones de S1, con la
estrategia que corresponde a su clase de muestreo (densa, media o
irregular). Requiere los artefactos de S1.

Salidas:
- aligned/<id>_aligned_solar_noon.csv

Example:
  go run ./cmd/soiling align`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleStage(cmd, contracts.StageAlign)
	},
}

func init() {
	rootCmd.AddCommand(alignCmd)
}
