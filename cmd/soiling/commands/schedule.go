package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nicoleits/TESIS-SOILING/internal/scheduler"
	"github.com/nicoleits/TESIS-SOILING/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Ejecución periódica del pipeline",
	Long: `Administra la ejecución periódica del pipeline completo.

La estación agrega los exportes crudos de a un día por vez, así que
el trabajo programado re-ejecuta el batch completo cada noche.

Subcommands:
  start   - inicia el scheduler (Ctrl+C para terminar)
  list    - trabajos registrados y sus expresiones cron

Example:
  go run ./cmd/soiling schedule start
  go run ./cmd/soiling schedule start --cron "0 30 3 * * *"
  go run ./cmd/soiling schedule list`,
}

var (
	scheduleStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Inicia el scheduler",
		RunE:  runScheduleStart,
	}

	scheduleListCmd = &cobra.Command{
		Use:   "list",
		Short: "Trabajos registrados",
		RunE:  listScheduledJobs,
	}

	// Flags
	scheduleCron         string
	scheduleWithDayStats bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleStartCmd)
	scheduleCmd.AddCommand(scheduleListCmd)

	// Flags
	scheduleCmd.PersistentFlags().StringVar(&scheduleCron, "cron", "", "expresión cron con segundos (default: "+jobs.DefaultPipelineSchedule+")")
	scheduleCmd.PersistentFlags().BoolVar(&scheduleWithDayStats, "with-daystats", false, "incluye el diagnóstico S2B en cada corrida")
}

func runScheduleStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TESIS-SOILING Scheduler ===")

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listScheduledJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	return nil
}

func initScheduler() (*scheduler.Scheduler, error) {
	// 1. Load config and logger (the registry reloads on every run)
	cfg, log, err := initConfig()
	if err != nil {
		return nil, err
	}

	// 2. Create scheduler
	sched := scheduler.New(log)

	// 3. Register jobs
	job := jobs.NewPipelineJob(cfg, scheduleCron, scheduleWithDayStats, log)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("add job %s: %w", job.Name(), err)
	}

	return sched, nil
}
