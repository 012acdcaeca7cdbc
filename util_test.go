package digitize

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func approxPt(t *testing.T, want, got Point, tol float64) {
	t.Helper()
	if d := want.Distance(got); d > tol || math.IsNaN(d) {
		t.Errorf("got %v, want %v (off by %g)", got, want, d)
	}
}

func approx(t *testing.T, want, got, tol float64) {
	t.Helper()
	if d := math.Abs(want - got); d > tol || math.IsNaN(d) {
		t.Errorf("got %g, want %g (off by %g)", got, want, d)
	}
}
