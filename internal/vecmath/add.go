package vecmath

import (
	algovec "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-accel/dispatch"
)

var addBlock = dispatch.NewSlot("AddBlock", addBlockGeneric, libraries,
	dispatch.Native(wrapBinary))

var addBlockInPlace = dispatch.NewSlot("AddBlockInPlace", addBlockInPlaceGeneric, libraries,
	dispatch.Native(wrapInPlace))

// AddBlock performs element-wise addition: dst[i] = a[i] + b[i].
// Slices must have equal length. Panics if lengths differ.
func AddBlock(dst, a, b []float64) {
	addBlock.Get()(dst, a, b)
}

// AddBlockInPlace performs in-place element-wise addition: dst[i] += src[i].
// Slices must have equal length. Panics if lengths differ.
func AddBlockInPlace(dst, src []float64) {
	addBlockInPlace.Get()(dst, src)
}

func addBlockGeneric(dst, a, b []float64) {
	checkLen(len(dst), len(a), len(b))
	algovec.AddBlock(dst, a, b)
}

func addBlockInPlaceGeneric(dst, src []float64) {
	checkLen(len(dst), len(src))
	algovec.AddBlockInPlace(dst, src)
}
