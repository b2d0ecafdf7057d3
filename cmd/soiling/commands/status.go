package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/pipeline"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Resumen de la última corrida",
	Long: `Lee run_summary.json del directorio de salida y muestra el estado
de la última corrida del pipeline: etapas, conteos y unidades
omitidas con su razón.

Example:
  go run ./cmd/soiling status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _, err := initConfig()
	if err != nil {
		return err
	}

	paths := pipeline.Paths{OutputDir: cfg.OutputDir}
	data, err := os.ReadFile(paths.RunSummaryJSON())
	if err != nil {
		if os.IsNotExist(err) {
			PrintWarning(fmt.Sprintf("No run summary at %s. Run the pipeline first.", paths.RunSummaryJSON()))
			return nil
		}
		return fmt.Errorf("read run summary: %w", err)
	}

	var summary contracts.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return fmt.Errorf("parse run summary: %w", err)
	}

	fmt.Println("=== Last Pipeline Run ===")
	fmt.Println()
	PrintKeyValue("Started", summary.StartedAt, 10)
	PrintKeyValue("Finished", summary.FinishedAt, 10)
	PrintKeyValue("Registry", summary.RegistryHash, 10)
	fmt.Println()

	fmt.Println("Stages:")
	for _, res := range summary.Results {
		icon := "✅"
		if !res.Success {
			icon = "❌"
		}
		fmt.Printf("  %s %-12s in=%d out=%d skipped=%d (%dms)\n",
			icon, res.Stage.ShortName(), res.InputCount, res.OutputCount, res.SkipCount, res.DurationMS)
		if res.Error != "" {
			fmt.Printf("     error: %s\n", res.Error)
		}
		for unit, reason := range res.Skips {
			fmt.Printf("     ⏭  %s: %s\n", unit, reason)
		}
	}
	return nil
}
