package vecmath

import (
	algovec "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-accel/dispatch"
)

var maxAbs = dispatch.NewSlot("MaxAbs", maxAbsGeneric, libraries,
	dispatch.Native(wrapReduce))

var sum = dispatch.NewSlot("Sum", sumGeneric, libraries,
	dispatch.Native(wrapReduce))

var dotProduct = dispatch.NewSlot("DotProduct", dotProductGeneric, libraries,
	dispatch.Native(wrapDot))

// MaxAbs returns the maximum absolute value in x.
// Returns 0 for an empty slice.
func MaxAbs(x []float64) float64 {
	return maxAbs.Get()(x)
}

// Sum returns the sum of all elements in x.
// Returns 0 for an empty slice.
func Sum(x []float64) float64 {
	return sum.Get()(x)
}

// DotProduct returns the dot product of a and b: sum(a[i] * b[i]).
// Only the minimum length of the two slices is used.
func DotProduct(a, b []float64) float64 {
	return dotProduct.Get()(a, b)
}

func maxAbsGeneric(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return algovec.MaxAbs(x)
}

func sumGeneric(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return algovec.Sum(x)
}

func dotProductGeneric(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	return algovec.DotProduct(a[:n], b[:n])
}
