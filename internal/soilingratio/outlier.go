package soilingratio

import "github.com/nicoleits/TESIS-SOILING/internal/frame"

// ApplyOutlierPolicy blanks SR values below the floor, in place, and
// returns the number of rows touched.
//
// The nulling is all-or-nothing per row: one variant under the floor
// blanks every variant on that row. The station has always processed
// its exports this way, so a day is either fully usable or fully
// excluded across variants; revisit here if per-variant nulling is
// ever wanted. Rows are kept, never deleted.
func ApplyOutlierPolicy(table *frame.Table, srCols []string, floorPct float64) int {
	idx := make([]int, 0, len(srCols))
	for _, c := range srCols {
		if ci, ok := table.ColumnIndex(c); ok {
			idx = append(idx, ci)
		}
	}
	if len(idx) == 0 {
		return 0
	}

	nulled := 0
	for r := 0; r < table.NumRows(); r++ {
		outlier := false
		for _, ci := range idx {
			if v, ok := table.Float(r, ci); ok && v < floorPct {
				outlier = true
				break
			}
		}
		if !outlier {
			continue
		}
		for _, ci := range idx {
			table.SetValue(r, ci, "")
		}
		nulled++
	}
	return nulled
}
