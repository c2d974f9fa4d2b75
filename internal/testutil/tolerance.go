package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if any
// element pair differs by more than eps, relative to the larger magnitude
// once that exceeds 1.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		scale := math.Max(1, math.Max(math.Abs(got[i]), math.Abs(want[i])))
		if diff := math.Abs(got[i] - want[i]); diff > eps*scale {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps*scale)
		}
	}
}
