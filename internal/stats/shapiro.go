package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// MinShapiroN is the smallest group size the normality test accepts.
const MinShapiroN = 3

// ShapiroResult is the W statistic and p-value of a normality test.
type ShapiroResult struct {
	W float64
	P float64
	N int
}

// Royston's polynomial coefficients (AS R94), ascending powers.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroWilk tests the sample against normality using Royston's
// AS R94 approximation, the same approximation the reference result
// set was produced with. Valid for 3 <= n <= 5000; a sample with zero
// range is an error.
func ShapiroWilk(data []float64) (ShapiroResult, error) {
	n := len(data)
	if n < MinShapiroN {
		return ShapiroResult{}, fmt.Errorf("stats: shapiro needs >= %d values, got %d", MinShapiroN, n)
	}
	if n > 5000 {
		return ShapiroResult{}, fmt.Errorf("stats: shapiro approximation not valid beyond n=5000, got %d", n)
	}

	x := append([]float64(nil), data...)
	sort.Float64s(x)
	if x[n-1]-x[0] <= 0 {
		return ShapiroResult{}, fmt.Errorf("stats: shapiro undefined for zero-range sample")
	}

	// Expected normal order statistics for the lower half; the upper
	// half mirrors with opposite sign.
	n2 := n / 2
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	m := make([]float64, n2)
	summ2 := 0.0
	for i := 0; i < n2; i++ {
		m[i] = normal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		summ2 += 2 * m[i] * m[i]
	}
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a := make([]float64, n2)
	switch {
	case n == 3:
		a[0] = math.Sqrt(0.5)
	case n <= 5:
		a1 := polyVal(swC1, rsn) - m[0]/ssumm2
		fac := math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
		a[0] = a1
		for i := 1; i < n2; i++ {
			a[i] = -m[i] / fac
		}
	default:
		a1 := polyVal(swC1, rsn) - m[0]/ssumm2
		a2 := polyVal(swC2, rsn) - m[1]/ssumm2
		fac := math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[0], a[1] = a1, a2
		for i := 2; i < n2; i++ {
			a[i] = -m[i] / fac
		}
	}

	// W = b^2 / ssq
	mean := Mean(x)
	ssq := 0.0
	for _, v := range x {
		d := v - mean
		ssq += d * d
	}
	b := 0.0
	for i := 0; i < n2; i++ {
		b += a[i] * (x[n-1-i] - x[i])
	}
	w := b * b / ssq
	if w > 1 {
		w = 1
	}

	// Royston's normalizing transformation for the p-value.
	var p float64
	if n == 3 {
		const pi6 = 1.90985931710274  // 6/pi
		const stqr = 1.04719755119660 // asin(sqrt(3/4))
		p = pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
	} else {
		y := math.Log(1 - w)
		var z float64
		if n <= 11 {
			an := float64(n)
			gamma := polyVal(swG, an)
			if y >= gamma {
				return ShapiroResult{W: w, P: 1e-19, N: n}, nil
			}
			y = -math.Log(gamma - y)
			mu := polyVal(swC3, an)
			sigma := math.Exp(polyVal(swC4, an))
			z = (y - mu) / sigma
		} else {
			ln := math.Log(float64(n))
			mu := polyVal(swC5, ln)
			sigma := math.Exp(polyVal(swC6, ln))
			z = (y - mu) / sigma
		}
		p = 1 - normal.CDF(z)
	}

	return ShapiroResult{W: w, P: p, N: n}, nil
}

// polyVal evaluates a polynomial with ascending coefficients at x.
func polyVal(coeffs []float64, x float64) float64 {
	sum := 0.0
	pow := 1.0
	for _, c := range coeffs {
		sum += c * pow
		pow *= x
	}
	return sum
}
