package stats

import (
	"math"
	"sort"
)

// Summary holds descriptive statistics for one sample.
type Summary struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P10    float64
	P90    float64
}

// Describe computes mean, population standard deviation and interpolated
// percentiles.
func Describe(xs []float64) Summary {
	n := len(xs)
	if n == 0 {
		return Summary{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	stddev := math.Sqrt(acc / float64(n))

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)

	return Summary{
		N:      n,
		Mean:   mean,
		Median: percentile(cp, 0.50),
		StdDev: stddev,
		Min:    cp[0],
		Max:    cp[n-1],
		P10:    percentile(cp, 0.10),
		P90:    percentile(cp, 0.90),
	}
}

// percentile interpolates linearly over a sorted sample.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	i := int(math.Floor(pos))
	f := pos - float64(i)
	if i+1 >= n {
		return sorted[i]
	}
	return sorted[i]*(1-f) + sorted[i+1]*f
}
