package stats

// Group is one named sample in a k-group comparison. Order of groups
// is preserved through every test so pair tables stay deterministic.
type Group struct {
	Name   string
	Values []float64
}

func totalN(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Values)
	}
	return n
}

func pooled(groups []Group) []float64 {
	out := make([]float64, 0, totalN(groups))
	for _, g := range groups {
		out = append(out, g.Values...)
	}
	return out
}
