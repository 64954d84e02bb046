package stats

import (
	"errors"
	"testing"
)

func sequence(n int, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) + offset
	}
	return out
}

func TestCompareSeparatedSamples(t *testing.T) {
	a := sequence(30, 0)
	b := sequence(30, 100) // fully separated

	r, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if r.U != 0 {
		t.Errorf("U = %v, want 0 for full separation", r.U)
	}
	if !almost(r.MeanDiff, 100) {
		t.Errorf("mean diff = %v, want 100", r.MeanDiff)
	}
	if r.P >= 0.001 {
		t.Errorf("p = %v, want < 0.001", r.P)
	}
	if r.Significance != HighlySignificant {
		t.Errorf("band = %q", r.Significance)
	}
}

func TestCompareIdenticalSamples(t *testing.T) {
	a := sequence(30, 0)
	r, err := Compare(a, sequence(30, 0))
	if err != nil {
		t.Fatal(err)
	}
	if r.P != 1 {
		t.Errorf("p = %v, want 1 for identical samples", r.P)
	}
	if r.Significance != NotSignificant {
		t.Errorf("band = %q", r.Significance)
	}
	if r.MeanDiff != 0 {
		t.Errorf("mean diff = %v, want 0", r.MeanDiff)
	}
}

func TestCompareAllTied(t *testing.T) {
	a := make([]float64, 30)
	b := make([]float64, 30)
	for i := range a {
		a[i], b[i] = 5, 5
	}
	r, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if r.P != 1 || r.Z != 0 {
		t.Errorf("all-tied samples: p = %v z = %v, want 1 and 0", r.P, r.Z)
	}
}

func TestCompareSymmetric(t *testing.T) {
	a := sequence(40, 0)
	b := sequence(40, 3)
	ab, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Compare(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if !almost(ab.P, ba.P) {
		t.Errorf("two-sided p not symmetric: %v vs %v", ab.P, ba.P)
	}
	if !almost(ab.MeanDiff, -ba.MeanDiff) {
		t.Errorf("mean diff not antisymmetric: %v vs %v", ab.MeanDiff, ba.MeanDiff)
	}
}

func TestCompareRejectsSmallSamples(t *testing.T) {
	big := sequence(30, 0)
	small := sequence(MinSampleSize-1, 0)
	if _, err := Compare(small, big); !errors.Is(err, ErrSampleTooSmall) {
		t.Errorf("small a: got %v", err)
	}
	if _, err := Compare(big, small); !errors.Is(err, ErrSampleTooSmall) {
		t.Errorf("small b: got %v", err)
	}
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		p    float64
		want Significance
	}{
		{0.0001, HighlySignificant},
		{0.005, VerySignificant},
		{0.03, Significant},
		{0.2, NotSignificant},
	}
	for _, c := range cases {
		if got := bandFor(c.p); got != c.want {
			t.Errorf("bandFor(%v) = %q, want %q", c.p, got, c.want)
		}
	}
}
