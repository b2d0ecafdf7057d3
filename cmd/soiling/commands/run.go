package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/pipeline"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/pkg/config"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ejecuta el pipeline completo (S1 → S5)",
	Long: `Ejecuta las cinco etapas del pipeline en orden.

S1 → S2 → S3 → S4 → S5

Etapas:
- S1: Selección de sesiones de mediodía solar + estabilidad
- S2: Alineación temporal entre instrumentos
- S3: Cálculo de soiling ratio (corrección IEC 60891, outliers)
- S4: Agregación semanal Q25 + series normalizadas
- S5: Correlación y pruebas de hipótesis entre instrumentos

Una etapa fallida detiene las que dependen de ella; el resumen
run_summary.json se escribe siempre.

Example:
  go run ./cmd/soiling run
  go run ./cmd/soiling run --with-daystats`,
	RunE: runPipeline,
}

var (
	// Flags
	runWithDayStats bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	// Flags
	runCmd.Flags().BoolVar(&runWithDayStats, "with-daystats", false, "ejecuta también el diagnóstico S2B (dispersión intradía)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TESIS-SOILING Pipeline ===")

	runner, cfg, err := initRunner()
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}

	fmt.Printf("\n📂 Data: %s\n", cfg.DataDir)
	fmt.Printf("📂 Output: %s\n", cfg.OutputDir)
	fmt.Printf("🔧 With daystats: %v\n\n", runWithDayStats)

	summary, err := runner.Run(cmd.Context(), pipeline.RunOptions{WithDayStats: runWithDayStats})
	if summary != nil {
		printRunSummary(summary)
	}
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	return nil
}

// runSingleStage backs the per-stage subcommands. Earlier stages must
// already have written their artifacts under the output directory.
func runSingleStage(cmd *cobra.Command, stage contracts.Stage) error {
	fmt.Printf("=== TESIS-SOILING %s: %s ===\n\n", stage.ShortName(), stage.Description())

	runner, _, err := initRunner()
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}

	res, err := runner.RunStage(cmd.Context(), stage)
	printStageResult(res)
	if err != nil {
		return err
	}
	return nil
}

// initRunner builds the pipeline runner from config, logger and registry.
func initRunner() (*pipeline.Runner, *config.Config, error) {
	// 1. Load config and logger
	cfg, log, err := initConfig()
	if err != nil {
		return nil, nil, err
	}

	// 2. Load instrument registry
	reg, _, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load instrument registry: %w", err)
	}

	// 3. Create runner
	return pipeline.NewRunner(cfg, reg, log), cfg, nil
}

// initConfig loads the runtime config and the shared logger. An
// explicit --config file wins over .env; --verbose forces debug level.
func initConfig() (*config.Config, *logger.Logger, error) {
	if configFile != "" {
		_ = godotenv.Load(configFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{Level: level, Format: cfg.LogFormat}).WithField("env", env)
	return cfg, log, nil
}

func printRunSummary(summary *contracts.RunSummary) {
	fmt.Println("\n✅ Pipeline Run Completed")
	fmt.Println()

	fmt.Printf("Started: %s\n", summary.StartedAt)
	fmt.Printf("Finished: %s\n", summary.FinishedAt)
	fmt.Printf("Registry: %s\n", summary.RegistryHash)
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
	}
}

func printStageResult(res contracts.StageResult) {
	fmt.Println()
	if res.Success {
		PrintSuccess(fmt.Sprintf("%s completed in %dms", res.Stage.ShortName(), res.DurationMS))
	} else {
		PrintError(fmt.Sprintf("%s failed: %s", res.Stage.ShortName(), res.Error))
	}
	fmt.Printf("   in=%d out=%d skipped=%d\n", res.InputCount, res.OutputCount, res.SkipCount)
	for unit, reason := range res.Skips {
		fmt.Printf("   ⏭  %s: %s\n", unit, reason)
	}
}
