// Package timenorm normalizes raw timestamp columns to UTC instants.
//
// Three input shapes occur across the instrument exports:
//   - naive wall-clock values from a known local zone (the IV tracer
//     logs America/Santiago time),
//   - naive values that are already UTC (most loggers),
//   - values carrying an explicit offset.
//
// Normalize resolves all three to UTC. Local-zone interpretation is an
// explicit parameter, never process state, so instruments with
// different zones can share a run.
package timenorm

import (
	"fmt"
	"time"
)

// TimestampLayout is the canonical on-disk timestamp format for every
// table this pipeline writes ("2023-01-02 13:05:00+00:00").
const TimestampLayout = "2006-01-02 15:04:05-07:00"

// DateLayout is the canonical calendar-day format.
const DateLayout = "2006-01-02"

// Layouts carrying an explicit UTC offset. Tried first; a match means
// the value's own offset wins regardless of tzLocal.
var offsetLayouts = []string{
	TimestampLayout,
	time.RFC3339,
}

// Naive layouts, interpreted in tzLocal (or UTC when tzLocal is nil).
// Fractional seconds are accepted by the parser without being spelled
// out here.
var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	DateLayout,
}

// ParseError reports an unparsable timestamp. It aborts the processing
// of the file it came from; the run continues with other files.
type ParseError struct {
	Value string
	Pos   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timenorm: unparsable timestamp %q at row %d", e.Value, e.Pos)
}

// Normalize parses a timestamp column into UTC instants.
//
// If tzLocal is non-nil, naive values are treated as wall-clock time in
// that zone and converted; ambiguous or skipped local times around DST
// transitions resolve to the zone database's inference, they are never
// rejected. If tzLocal is nil, naive values are assumed to already be
// UTC. Values with an explicit offset convert to UTC unconditionally.
func Normalize(values []string, tzLocal *time.Location) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	layout := "" // last successful layout, tried first on the next value
	withOffset := false

	for i, v := range values {
		t, l, off, err := parseOne(v, tzLocal, layout, withOffset)
		if err != nil {
			return nil, &ParseError{Value: v, Pos: i}
		}
		out[i] = t.UTC()
		layout, withOffset = l, off
	}
	return out, nil
}

// ParseTimestamp parses a single timestamp value to UTC under the same
// rules as Normalize.
func ParseTimestamp(value string, tzLocal *time.Location) (time.Time, error) {
	t, _, _, err := parseOne(value, tzLocal, "", false)
	if err != nil {
		return time.Time{}, &ParseError{Value: value}
	}
	return t.UTC(), nil
}

func parseOne(v string, tzLocal *time.Location, hint string, hintOffset bool) (time.Time, string, bool, error) {
	loc := time.UTC
	if tzLocal != nil {
		loc = tzLocal
	}

	if hint != "" {
		if hintOffset {
			if t, err := time.Parse(hint, v); err == nil {
				return t, hint, true, nil
			}
		} else if t, err := time.ParseInLocation(hint, v, loc); err == nil {
			return t, hint, false, nil
		}
	}

	for _, l := range offsetLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, l, true, nil
		}
	}
	for _, l := range naiveLayouts {
		if t, err := time.ParseInLocation(l, v, loc); err == nil {
			return t, l, false, nil
		}
	}
	return time.Time{}, "", false, fmt.Errorf("no layout matched %q", v)
}
