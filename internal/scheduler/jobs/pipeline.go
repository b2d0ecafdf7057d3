// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/nicoleits/TESIS-SOILING/internal/pipeline"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/pkg/config"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// DefaultPipelineSchedule runs the batch nightly at 02:00, after the
// station has finished syncing the day's raw exports.
const DefaultPipelineSchedule = "0 0 2 * * *"

// PipelineJob re-runs the full analysis batch. The registry YAML is
// reloaded on every run so instrument edits take effect without a
// restart.
type PipelineJob struct {
	cfg          *config.Config
	schedule     string
	withDayStats bool
	log          *logger.Logger
}

// NewPipelineJob creates the job. An empty schedule selects the default.
func NewPipelineJob(cfg *config.Config, schedule string, withDayStats bool, log *logger.Logger) *PipelineJob {
	if schedule == "" {
		schedule = DefaultPipelineSchedule
	}
	return &PipelineJob{
		cfg:          cfg,
		schedule:     schedule,
		withDayStats: withDayStats,
		log:          log,
	}
}

// Name returns the job identifier.
func (j *PipelineJob) Name() string {
	return "soiling_pipeline"
}

// Schedule returns the cron expression (with seconds field).
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes all pipeline stages in order.
func (j *PipelineJob) Run(ctx context.Context) error {
	reg, _, err := registry.Load(j.cfg.RegistryPath)
	if err != nil {
		return fmt.Errorf("failed to load instrument registry: %w", err)
	}

	runner := pipeline.NewRunner(j.cfg, reg, j.log)
	summary, err := runner.Run(ctx, pipeline.RunOptions{WithDayStats: j.withDayStats})
	if err != nil {
		return err
	}

	j.log.WithField("stages", len(summary.Results)).Info("Scheduled pipeline run finished")
	return nil
}
