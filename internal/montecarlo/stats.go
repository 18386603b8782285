package montecarlo

import "math"

// mean calculates the arithmetic mean.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev calculates sample standard deviation (n-1 denominator).
func sampleStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// percentile uses linear interpolation.
// sorted must be pre-sorted ASC. p is the percentile (0.05 = 5th).
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// probPositive is the share of values strictly above zero.
func probPositive(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	positive := 0
	for _, v := range values {
		if v > 0 {
			positive++
		}
	}
	return float64(positive) / float64(len(values))
}
