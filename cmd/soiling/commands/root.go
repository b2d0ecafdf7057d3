package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "soiling",
	Short: "TESIS-SOILING - análisis de ensuciamiento fotovoltaico (PSDA)",
	Long: `TESIS-SOILING CLI

Pipeline de análisis de soiling para la estación PSDA (Desierto de
Atacama). Cinco etapas desde los exportes crudos de cada instrumento
hasta la comparación estadística entre tecnologías de medición.

Usage:
  go run ./cmd/soiling [command]

Examples:
  go run ./cmd/soiling run
  go run ./cmd/soiling run --with-daystats
  go run ./cmd/soiling sessions
  go run ./cmd/soiling schedule start
  go run ./cmd/soiling status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
