package stats

import (
	"errors"
	"math"
	"sort"
)

// MinSampleSize is the smallest per-arm sample for which a significance
// claim is allowed. Partial batches below it are rejected.
const MinSampleSize = 30

var ErrSampleTooSmall = errors.New("sample too small for a significance test")

// Significance is the interpretation band of a p-value. Statistical
// significance never implies practical significance; the raw difference is
// always reported next to it.
type Significance string

const (
	HighlySignificant Significance = "highly significant (p < 0.001)"
	VerySignificant   Significance = "significant (p < 0.01)"
	Significant       Significance = "significant (p < 0.05)"
	NotSignificant    Significance = "not significant"
)

func bandFor(p float64) Significance {
	switch {
	case p < 0.001:
		return HighlySignificant
	case p < 0.01:
		return VerySignificant
	case p < 0.05:
		return Significant
	default:
		return NotSignificant
	}
}

// Report is the outcome of comparing two sampled distributions.
type Report struct {
	A, B         Summary
	MeanDiff     float64 // B.Mean - A.Mean
	U            float64
	Z            float64
	P            float64
	Significance Significance
}

// Compare runs a two-sided Mann-Whitney U test (normal approximation with
// tie correction) between two samples.
func Compare(a, b []float64) (Report, error) {
	if len(a) < MinSampleSize || len(b) < MinSampleSize {
		return Report{}, ErrSampleTooSmall
	}

	u1 := uStatistic(a, b)
	n1 := float64(len(a))
	n2 := float64(len(b))
	u2 := n1*n2 - u1
	u := math.Min(u1, u2)

	mu := n1 * n2 / 2
	sigma := tieCorrectedSigma(a, b)

	var z, p float64
	if sigma == 0 {
		// Every observation tied; no evidence either way.
		z, p = 0, 1
	} else {
		// Continuity correction toward the mean.
		z = (math.Abs(u-mu) - 0.5) / sigma
		if z < 0 {
			z = 0
		}
		p = math.Erfc(z / math.Sqrt2)
	}

	sa := Describe(a)
	sb := Describe(b)
	return Report{
		A:            sa,
		B:            sb,
		MeanDiff:     sb.Mean - sa.Mean,
		U:            u,
		Z:            z,
		P:            p,
		Significance: bandFor(p),
	}, nil
}

type rankedValue struct {
	value float64
	group int // 0 = a, 1 = b
	rank  float64
}

func rankAll(a, b []float64) []rankedValue {
	all := make([]rankedValue, 0, len(a)+len(b))
	for _, v := range a {
		all = append(all, rankedValue{value: v, group: 0})
	}
	for _, v := range b {
		all = append(all, rankedValue{value: v, group: 1})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	// Average ranks across ties.
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		avg := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			all[k].rank = avg
		}
		i = j
	}
	return all
}

func uStatistic(a, b []float64) float64 {
	all := rankAll(a, b)
	r1 := 0.0
	for _, v := range all {
		if v.group == 0 {
			r1 += v.rank
		}
	}
	n1 := float64(len(a))
	return r1 - n1*(n1+1)/2
}

func tieCorrectedSigma(a, b []float64) float64 {
	all := rankAll(a, b)
	n1 := float64(len(a))
	n2 := float64(len(b))
	n := n1 + n2

	tieSum := 0.0
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		t := float64(j - i)
		if t > 1 {
			tieSum += t*t*t - t
		}
		i = j
	}

	variance := n1 * n2 / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}
