package vecmath

import (
	algovec "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-accel/dispatch"
)

var magnitude = dispatch.NewSlot("Magnitude", magnitudeGeneric, libraries,
	dispatch.Native(wrapBinary))

var power = dispatch.NewSlot("Power", powerGeneric, libraries,
	dispatch.Native(wrapBinary))

// Magnitude computes magnitude from separate real and imaginary parts:
// dst[i] = sqrt(re[i]^2 + im[i]^2).
//
// All slices must have equal length. Panics if lengths differ.
func Magnitude(dst, re, im []float64) {
	magnitude.Get()(dst, re, im)
}

// Power computes power (magnitude squared) from separate real and imaginary
// parts: dst[i] = re[i]^2 + im[i]^2.
//
// All slices must have equal length. Panics if lengths differ.
func Power(dst, re, im []float64) {
	power.Get()(dst, re, im)
}

func magnitudeGeneric(dst, re, im []float64) {
	checkLen(len(dst), len(re), len(im))
	algovec.Magnitude(dst, re, im)
}

func powerGeneric(dst, re, im []float64) {
	checkLen(len(dst), len(re), len(im))
	algovec.Power(dst, re, im)
}
