package vecmath

import (
	algovec "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-accel/dispatch"
)

var scaleBlock = dispatch.NewSlot("ScaleBlock", scaleBlockGeneric, libraries,
	dispatch.Native(wrapScale))

var scaleBlockInPlace = dispatch.NewSlot("ScaleBlockInPlace", scaleBlockInPlaceGeneric, libraries,
	dispatch.Native(wrapScaleInPlace))

// ScaleBlock multiplies each element by a scalar: dst[i] = src[i] * scale.
// Slices must have equal length. Panics if lengths differ.
func ScaleBlock(dst, src []float64, scale float64) {
	scaleBlock.Get()(dst, src, scale)
}

// ScaleBlockInPlace multiplies each element by a scalar in-place: dst[i] *= scale.
func ScaleBlockInPlace(dst []float64, scale float64) {
	scaleBlockInPlace.Get()(dst, scale)
}

func scaleBlockGeneric(dst, src []float64, scale float64) {
	checkLen(len(dst), len(src))
	algovec.ScaleBlock(dst, src, scale)
}

func scaleBlockInPlaceGeneric(dst []float64, scale float64) {
	algovec.ScaleBlockInPlace(dst, scale)
}
