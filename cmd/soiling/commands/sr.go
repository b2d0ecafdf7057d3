package commands

import (
	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
)

// srCmd represents the sr command
var srCmd = &cobra.Command{
	Use:   "sr",
	Short: "S3 - cálculo de soiling ratio",
	Long: `Calcula el soiling ratio de cada instrumento con su fórmula propia,
aplica la corrección de temperatura IEC 60891 cuando hay canales de
temperatura disponibles, y anula los outliers bajo el piso
configurado. Requiere los artefactos de S2.

Salidas:
- sr/<id>_sr.csv

Example:
  go run ./cmd/soiling sr`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleStage(cmd, contracts.StageSR)
	},
}

func init() {
	rootCmd.AddCommand(srCmd)
}
