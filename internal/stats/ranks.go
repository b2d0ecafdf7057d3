package stats

import "sort"

// AverageRanks assigns 1-based ranks to data, giving tied values the
// mean of the ranks they span. The returned tie sizes (one entry per
// group of equal values, singletons included) feed the tie-correction
// terms of Kruskal-Wallis and Dunn.
func AverageRanks(data []float64) (ranks []float64, tieSizes []int) {
	n := len(data)
	ranks = make([]float64, n)
	if n == 0 {
		return ranks, nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	i := 0
	for i < n {
		j := i
		for j+1 < n && data[idx[j+1]] == data[idx[i]] {
			j++
		}
		// positions i..j share the same value
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		tieSizes = append(tieSizes, j-i+1)
		i = j + 1
	}
	return ranks, tieSizes
}
