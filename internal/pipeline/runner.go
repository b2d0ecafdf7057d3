// Package pipeline coordinates the batch stages over the instrument
// exports. Stages communicate through the CSV artifacts under the
// output directory, so any stage can also be run on its own against a
// previous run's files.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/align"
	"github.com/nicoleits/TESIS-SOILING/internal/compare"
	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/daystats"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/internal/sessions"
	"github.com/nicoleits/TESIS-SOILING/internal/soilingratio"
	"github.com/nicoleits/TESIS-SOILING/internal/solarpos"
	"github.com/nicoleits/TESIS-SOILING/internal/weekly"
	"github.com/nicoleits/TESIS-SOILING/pkg/config"
	"github.com/nicoleits/TESIS-SOILING/pkg/logger"
)

// RunOptions selects what a full run executes.
type RunOptions struct {
	// WithDayStats also runs the off-path S2B diagnostics.
	WithDayStats bool
}

// Runner wires the stage components together.
type Runner struct {
	cfg   *config.Config
	reg   *registry.Registry
	paths Paths

	selector   *sessions.Selector
	stability  *sessions.StabilityFilter
	aligner    *align.Aligner
	calculator *soilingratio.Calculator
	aggregator *weekly.Aggregator
	analyzer   *daystats.Analyzer
	comparator *compare.Comparator

	log *logger.Logger
}

// NewRunner creates a Runner with every stage component built from the
// configuration and registry.
func NewRunner(cfg *config.Config, reg *registry.Registry, log *logger.Logger) *Runner {
	site := solarpos.Site{
		LatitudeDeg:  cfg.Site.LatitudeDeg,
		LongitudeDeg: cfg.Site.LongitudeDeg,
		AltitudeM:    cfg.Site.AltitudeM,
	}

	refInst, _ := reg.Instrument(reg.Reference.InstrumentID)

	return &Runner{
		cfg:   cfg,
		reg:   reg,
		paths: Paths{OutputDir: cfg.OutputDir},
		selector: sessions.NewSelector(sessions.SelectorConfig{
			Site:           site,
			MaxDist:        reg.Thresholds.SolarNoonMaxDist(),
			MinCurrentA:    reg.Thresholds.MinIscA,
			CurrentColumns: refInst.Required,
		}, log),
		stability: sessions.NewStabilityFilter(reg.Thresholds.StabilityRatioMax, log),
		aligner: align.New(align.Config{
			MediumTolerance:    reg.Thresholds.MediumTolerance(),
			IrregularTolerance: reg.Thresholds.IrregularTolerance(),
		}, log),
		calculator: soilingratio.New(soilingratio.Config{
			OutlierFloorPct: reg.Thresholds.SROutlierFloorPct,
			MinCurrentA:     reg.Thresholds.MinIscA,
			MinPowerW:       reg.Thresholds.MinPmaxW,
			Correction:      reg.TempCorrection,
			TempTolerance:   reg.Thresholds.TempMatchTolerance(),
		}, log),
		aggregator: weekly.New(reg.Thresholds.SROutlierFloorPct, log),
		analyzer:   daystats.New(log),
		comparator: compare.New(reg.Thresholds.Alpha, log),
		log:        log,
	}
}

// Run executes the critical path S1 through S5, plus S2B when asked.
// A stage failure stops the stages that depend on it; the summary is
// written either way.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*contracts.RunSummary, error) {
	startedAt := time.Now()
	regHash, err := registry.Hash(r.reg)
	if err != nil {
		r.log.WithError(err).Warn("Failed to hash registry")
	}
	summary := &contracts.RunSummary{
		StartedAt:    startedAt.UTC().Format(time.RFC3339),
		RegistryHash: regHash,
	}

	r.log.WithFields(map[string]interface{}{
		"data_dir":   r.cfg.DataDir,
		"output_dir": r.cfg.OutputDir,
		"site":       r.reg.Meta.SiteName,
	}).Info("Starting pipeline run")

	var failed contracts.Stage
	for _, stage := range contracts.AllStages() {
		res := r.runStage(ctx, stage)
		summary.Results = append(summary.Results, res)
		if !res.Success {
			failed = stage
			break
		}
		if stage == contracts.StageAlign && opts.WithDayStats {
			summary.Results = append(summary.Results, r.runStage(ctx, contracts.StageDayStats))
		}
	}

	summary.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	if err := r.writeSummary(summary); err != nil {
		r.log.WithError(err).Error("Failed to write run summary")
	}

	if failed != "" {
		return summary, fmt.Errorf("pipeline: stage %s failed", failed)
	}
	r.log.WithField("duration", time.Since(startedAt).String()).Info("Pipeline run completed")
	return summary, nil
}

// RunStage executes a single stage by name, for stage-level CLI use.
func (r *Runner) RunStage(ctx context.Context, stage contracts.Stage) (contracts.StageResult, error) {
	res := r.runStage(ctx, stage)
	if !res.Success {
		return res, fmt.Errorf("pipeline: stage %s failed: %s", stage, res.Error)
	}
	return res, nil
}

func (r *Runner) runStage(ctx context.Context, stage contracts.Stage) contracts.StageResult {
	log := r.log.WithStage(stage.ShortName())
	log.Infof("Running %s: %s", stage.ShortName(), stage.Description())
	start := time.Now()

	var res contracts.StageResult
	switch stage {
	case contracts.StageSessions:
		res = r.runSessions(ctx)
	case contracts.StageAlign:
		res = r.runAlign(ctx)
	case contracts.StageDayStats:
		res = r.runDayStats(ctx)
	case contracts.StageSR:
		res = r.runSR(ctx)
	case contracts.StageWeekly:
		res = r.runWeekly(ctx)
	case contracts.StageCompare:
		res = r.runCompare(ctx)
	default:
		res = contracts.StageResult{Error: fmt.Sprintf("unknown stage %s", stage)}
	}

	res.Stage = stage
	res.DurationMS = time.Since(start).Milliseconds()
	if res.Error == "" {
		res.Success = true
		log.WithFields(map[string]interface{}{
			"in":      res.InputCount,
			"out":     res.OutputCount,
			"skipped": res.SkipCount,
		}).Infof("%s completed", stage.ShortName())
	} else {
		log.WithField("error", res.Error).Errorf("%s failed", stage.ShortName())
	}
	return res
}

func (r *Runner) writeSummary(summary *contracts.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	path := r.paths.RunSummaryJSON()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// writeText writes a report file, creating its directory.
func (r *Runner) writeText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// skipf records one skipped unit on a stage result.
func skipf(res *contracts.StageResult, unit, format string, args ...interface{}) {
	if res.Skips == nil {
		res.Skips = make(map[string]string)
	}
	res.Skips[unit] = fmt.Sprintf(format, args...)
	res.SkipCount++
}
