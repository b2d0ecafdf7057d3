package sessions

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/contracts"
	"github.com/nicoleits/TESIS-SOILING/internal/frame"
	"github.com/nicoleits/TESIS-SOILING/internal/stats"
	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timenorm.TimestampLayout)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(timenorm.DateLayout)
}

// DistStatsTable summarizes the distance-to-solar-noon distribution of
// the accepted sessions in a single diagnostics row.
func DistStatsTable(sessionList []contracts.DaySession) *frame.Table {
	t := frame.NewTable([]string{
		"n_dias", "dist_min", "dist_max", "dist_media", "dist_mediana", "dist_std",
		"dist_p05", "dist_p25", "dist_p75", "dist_p95",
		"dias_hasta_10min", "dias_hasta_15min", "dias_hasta_30min", "dias_hasta_45min",
	})

	dists := make([]float64, 0, len(sessionList))
	within := map[float64]int{10: 0, 15: 0, 30: 0, 45: 0}
	for _, s := range sessionList {
		dists = append(dists, s.DistSolarNoonMin)
		for lim := range within {
			if s.DistSolarNoonMin <= lim {
				within[lim]++
			}
		}
	}
	if len(dists) == 0 {
		return t
	}

	min, max := stats.MinMax(dists)
	q25, q50, q75 := stats.Quartiles(dists)
	t.AppendRow([]string{
		strconv.Itoa(len(dists)),
		frame.FormatFloatPrec(min, 3),
		frame.FormatFloatPrec(max, 3),
		frame.FormatFloatPrec(stats.Mean(dists), 3),
		frame.FormatFloatPrec(q50, 3),
		frame.FormatFloatPrec(stats.SampleStd(dists), 3),
		frame.FormatFloatPrec(stats.Percentile(dists, 5), 3),
		frame.FormatFloatPrec(q25, 3),
		frame.FormatFloatPrec(q75, 3),
		frame.FormatFloatPrec(stats.Percentile(dists, 95), 3),
		strconv.Itoa(within[10]),
		strconv.Itoa(within[15]),
		strconv.Itoa(within[30]),
		strconv.Itoa(within[45]),
	})
	return t
}

// VerdictsTable renders stability verdicts for the verdicts CSV.
func VerdictsTable(verdicts []contracts.StabilityVerdict) *frame.Table {
	t := frame.NewTable([]string{"date", "verdict", "ratio", "n_samples"})
	for _, v := range verdicts {
		ratio := ""
		if v.NSamples >= 2 {
			ratio = frame.FormatFloat(v.Ratio)
		}
		t.AppendRow([]string{
			formatDate(v.Date),
			v.Verdict.String(),
			ratio,
			strconv.Itoa(v.NSamples),
		})
	}
	return t
}

// LoadSessions reads a previously written sessions table back into
// DaySessions plus the full data table, so later stages can run as
// separate command invocations.
func LoadSessions(path string) ([]contracts.DaySession, *frame.Table, error) {
	table, err := frame.ReadCSV(path)
	if err != nil {
		return nil, nil, err
	}

	for _, c := range []string{"timestamp", "date", "window_start", "window_end", "dist_solar_noon_min"} {
		if !table.HasColumn(c) {
			return nil, nil, fmt.Errorf("sessions: %s missing column %q", path, c)
		}
	}

	var out []contracts.DaySession
	for r := 0; r < table.NumRows(); r++ {
		s, err := sessionFromRow(table, r)
		if err != nil {
			return nil, nil, fmt.Errorf("sessions: %s row %d: %w", path, r+1, err)
		}
		out = append(out, s)
	}
	return out, table, nil
}

func sessionFromRow(table *frame.Table, r int) (contracts.DaySession, error) {
	get := func(col string) string {
		i, _ := table.ColumnIndex(col)
		return table.Value(r, i)
	}

	center, err := timenorm.ParseTimestamp(get("timestamp"), nil)
	if err != nil {
		return contracts.DaySession{}, err
	}
	date, err := timenorm.ParseTimestamp(get("date"), nil)
	if err != nil {
		return contracts.DaySession{}, err
	}
	start, err := timenorm.ParseTimestamp(get("window_start"), nil)
	if err != nil {
		return contracts.DaySession{}, err
	}
	end, err := timenorm.ParseTimestamp(get("window_end"), nil)
	if err != nil {
		return contracts.DaySession{}, err
	}
	dist, ok := frame.ParseFloat(get("dist_solar_noon_min"))
	if !ok {
		return contracts.DaySession{}, fmt.Errorf("bad dist_solar_noon_min %q", get("dist_solar_noon_min"))
	}

	s := contracts.DaySession{
		Date:             contracts.DateOf(date),
		Center:           center,
		WindowStart:      start,
		WindowEnd:        end,
		DistSolarNoonMin: dist,
	}
	if !s.Valid() {
		return contracts.DaySession{}, fmt.Errorf("invalid session window %v", s)
	}
	return s, nil
}

// sessionMetaColumns are the bookkeeping columns of the sessions
// table; everything else is reference-instrument data.
var sessionMetaColumns = []string{
	"timestamp", "date", "window_start", "window_end", "dist_solar_noon_min",
}

// AlignedView projects the sessions table into the reference
// instrument's aligned table: canonical timestamp plus data columns,
// restricted to the kept sessions. The reference instrument never
// passes through the aligner, so this is where its aligned file
// comes from.
func AlignedView(data *frame.Table, keep []contracts.DaySession) (*frame.Table, error) {
	meta := make(map[string]bool, len(sessionMetaColumns))
	for _, c := range sessionMetaColumns {
		meta[c] = true
	}

	cols := []string{"timestamp"}
	idx := []int{}
	tsIdx, ok := data.ColumnIndex("timestamp")
	if !ok {
		return nil, fmt.Errorf("sessions: data table missing column \"timestamp\"")
	}
	dateIdx, ok := data.ColumnIndex("date")
	if !ok {
		return nil, fmt.Errorf("sessions: data table missing column \"date\"")
	}
	for i, c := range data.Columns() {
		if meta[c] {
			continue
		}
		cols = append(cols, c)
		idx = append(idx, i)
	}

	keepDates := make(map[string]bool, len(keep))
	for _, s := range keep {
		keepDates[formatDate(s.Date)] = true
	}

	out := frame.NewTable(cols)
	for r := 0; r < data.NumRows(); r++ {
		if !keepDates[data.Value(r, dateIdx)] {
			continue
		}
		row := make([]string, 0, len(cols))
		row = append(row, data.Value(r, tsIdx))
		for _, ci := range idx {
			row = append(row, data.Value(r, ci))
		}
		out.AppendRow(row)
	}
	return out, nil
}

// LoadVerdicts reads a verdicts table back.
func LoadVerdicts(path string) ([]contracts.StabilityVerdict, error) {
	table, err := frame.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	dateIdx, ok := table.ColumnIndex("date")
	if !ok {
		return nil, fmt.Errorf("sessions: %s missing column \"date\"", path)
	}
	verdictIdx, ok := table.ColumnIndex("verdict")
	if !ok {
		return nil, fmt.Errorf("sessions: %s missing column \"verdict\"", path)
	}

	var out []contracts.StabilityVerdict
	for r := 0; r < table.NumRows(); r++ {
		date, err := timenorm.ParseTimestamp(table.Value(r, dateIdx), nil)
		if err != nil {
			return nil, fmt.Errorf("sessions: %s row %d: %w", path, r+1, err)
		}
		v := contracts.StabilityVerdict{
			Date:    contracts.DateOf(date),
			Verdict: contracts.ParseStability(table.Value(r, verdictIdx)),
		}
		if ratio, ok := table.FloatByName(r, "ratio"); ok {
			v.Ratio = ratio
		}
		if n, ok := table.FloatByName(r, "n_samples"); ok {
			v.NSamples = int(n)
		}
		out = append(out, v)
	}
	return out, nil
}
