package align

import (
	"fmt"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

// LoadAligned reads back a canonical-timestamp CSV (an aligned table
// or anything derived from one, like an SR table) and parses its
// timestamp column. Row order is preserved.
func LoadAligned(path string) (*frame.Table, []time.Time, error) {
	table, err := frame.ReadCSV(path)
	if err != nil {
		return nil, nil, err
	}
	ti, ok := table.ColumnIndex("timestamp")
	if !ok {
		return nil, nil, fmt.Errorf("align: %s has no timestamp column", path)
	}

	times := make([]time.Time, table.NumRows())
	for r := 0; r < table.NumRows(); r++ {
		t, err := timenorm.ParseTimestamp(table.Value(r, ti), nil)
		if err != nil {
			return nil, nil, fmt.Errorf("align: %s row %d: %w", path, r, err)
		}
		times[r] = t
	}
	return table, times, nil
}
