package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/registry"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

// instrumentData is one raw export parsed and time-normalized.
type instrumentData struct {
	Table   *frame.Table
	Times   []time.Time
	TimeCol string
}

// loadInstrument reads an instrument's raw export and normalizes its
// time column to UTC. A missing file surfaces as os.ErrNotExist so
// callers can downgrade it to a skip.
func (r *Runner) loadInstrument(inst registry.Instrument) (*instrumentData, error) {
	path := filepath.Join(r.cfg.DataDir, inst.File)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("instrument %s: %w", inst.ID, err)
	}

	table, err := frame.ReadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", inst.ID, err)
	}

	timeCol := inst.TimeColumn
	if timeCol == "" {
		detected, err := frame.DetectTimeColumn(table.Columns())
		var ambiguous *frame.AmbiguousTimeColumnError
		switch {
		case errors.As(err, &ambiguous):
			r.log.WithInstrument(inst.ID).Warnf(
				"Ambiguous time column, using %q among %v", ambiguous.Chosen, ambiguous.Candidates)
		case err != nil:
			return nil, fmt.Errorf("instrument %s: %w", inst.ID, err)
		}
		timeCol = detected
	} else if !table.HasColumn(timeCol) {
		return nil, fmt.Errorf("instrument %s: configured time column %q not in file", inst.ID, timeCol)
	}

	loc, err := inst.Location()
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", inst.ID, err)
	}

	raw, err := table.ColumnValues(timeCol)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", inst.ID, err)
	}
	times, err := timenorm.Normalize(raw, loc)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", inst.ID, err)
	}

	return &instrumentData{Table: table, Times: times, TimeCol: timeCol}, nil
}
