package vecmath

import (
	algovec "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-accel/dispatch"
)

var mulBlock = dispatch.NewSlot("MulBlock", mulBlockGeneric, libraries,
	dispatch.Native(wrapBinary))

var mulBlockInPlace = dispatch.NewSlot("MulBlockInPlace", mulBlockInPlaceGeneric, libraries,
	dispatch.Native(wrapInPlace))

// MulBlock performs element-wise multiplication: dst[i] = a[i] * b[i].
// Slices must have equal length. Panics if lengths differ.
func MulBlock(dst, a, b []float64) {
	mulBlock.Get()(dst, a, b)
}

// MulBlockInPlace performs in-place element-wise multiplication: dst[i] *= src[i].
// Slices must have equal length. Panics if lengths differ.
func MulBlockInPlace(dst, src []float64) {
	mulBlockInPlace.Get()(dst, src)
}

func mulBlockGeneric(dst, a, b []float64) {
	checkLen(len(dst), len(a), len(b))
	algovec.MulBlock(dst, a, b)
}

func mulBlockInPlaceGeneric(dst, src []float64) {
	checkLen(len(dst), len(src))
	algovec.MulBlockInPlace(dst, src)
}
