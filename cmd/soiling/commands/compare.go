package commands

import (
	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "S5 - comparación estadística entre instrumentos",
	Long: `Compara las series semanales normalizadas: correlación de Pearson
por pares, matrices r/p/n, y la batería de pruebas por grupos
(Shapiro-Wilk, Levene, ANOVA + Tukey, Kruskal-Wallis + Dunn) en las
vistas pool e intersección. Requiere los artefactos de S4.

Salidas:
- compare/correlacion_{matrix,pvalues,n,pares}.csv
- compare/correlacion_report.md
- compare/anova_results.csv
- compare/anova_posthoc_{tukey,dunn}_{pool,interseccion}.csv
- compare/anova_report.md

Example:
  go run ./cmd/soiling compare`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleStage(cmd, contracts.StageCompare)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
