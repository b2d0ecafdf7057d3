package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// Studentized-range distribution, the reference distribution of Tukey's
// HSD. The CDF is the classic double integral
//
//	P(Q <= q) = Int_0^inf f(s) * k * Int phi(z) [Phi(z) - Phi(z - q s)]^(k-1) dz ds
//
// with f the density of sqrt(chi^2_df / df). Both integrals are
// evaluated with fixed-order Gauss-Legendre rules; the integrands are
// smooth, so the rules converge well past the precision any p-value
// here is reported with.

const (
	srInnerNodes = 96
	srOuterNodes = 128
	// The standard normal density is below 1e-15 outside this range;
	// it bounds the inner integrand.
	srZRange = 8.5
)

// StudentizedRangeCDF returns P(Q <= q) for the range of k group means
// with df degrees of freedom for the pooled variance.
func StudentizedRangeCDF(q float64, k int, df float64) float64 {
	if q <= 0 {
		return 0
	}
	if k < 2 || df <= 0 {
		return math.NaN()
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1}

	// Probability that all k standardized means fall inside a window
	// of width u.
	rangeInside := func(u float64) float64 {
		inner := func(z float64) float64 {
			d := normal.CDF(z) - normal.CDF(z-u)
			if d <= 0 {
				return 0
			}
			return normal.Prob(z) * math.Pow(d, float64(k-1))
		}
		return float64(k) * quad.Fixed(inner, -srZRange, srZRange, srInnerNodes, nil, 0)
	}

	// Density of s = sqrt(chi^2_df / df), via its log for stability at
	// high df.
	lnConst := 0.5*df*math.Log(df) - (0.5*df-1)*math.Ln2 - lgamma(0.5*df)
	chiDensity := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		return math.Exp(lnConst + (df-1)*math.Log(s) - 0.5*df*s*s)
	}

	// s concentrates around 1 with spread ~ 1/sqrt(2 df).
	sMax := 1 + 12/math.Sqrt(df)
	if sMax < 4 {
		sMax = 4
	}

	outer := func(s float64) float64 {
		return chiDensity(s) * rangeInside(q*s)
	}
	p := quad.Fixed(outer, 0, sMax, srOuterNodes, nil, 0)

	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// StudentizedRangeQuantile returns the q with P(Q <= q) = p, by
// bisection. Used for Tukey confidence-interval halfwidths.
func StudentizedRangeQuantile(p float64, k int, df float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("stats: studentized range quantile needs p in (0,1), got %v", p)
	}
	lo, hi := 0.0, 50.0
	if StudentizedRangeCDF(hi, k, df) < p {
		return 0, fmt.Errorf("stats: studentized range quantile out of bracket for p=%v", p)
	}
	for hi-lo > 1e-8 {
		mid := (lo + hi) / 2
		if StudentizedRangeCDF(mid, k, df) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
