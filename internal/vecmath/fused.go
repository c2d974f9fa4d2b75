package vecmath

import (
	algovec "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-accel/dispatch"
)

var addMulBlock = dispatch.NewSlot("AddMulBlock", addMulBlockGeneric, libraries,
	dispatch.Native(wrapAddMul))

var mulAddBlock = dispatch.NewSlot("MulAddBlock", mulAddBlockGeneric, libraries,
	dispatch.Native(wrapMulAdd))

// AddMulBlock performs fused add-multiply: dst[i] = (a[i] + b[i]) * scale.
// Slices must have equal length. Panics if lengths differ.
func AddMulBlock(dst, a, b []float64, scale float64) {
	addMulBlock.Get()(dst, a, b, scale)
}

// MulAddBlock performs fused multiply-add: dst[i] = a[i] * b[i] + c[i].
// Slices must have equal length. Panics if lengths differ.
func MulAddBlock(dst, a, b, c []float64) {
	mulAddBlock.Get()(dst, a, b, c)
}

func addMulBlockGeneric(dst, a, b []float64, scale float64) {
	checkLen(len(dst), len(a), len(b))
	algovec.AddMulBlock(dst, a, b, scale)
}

func mulAddBlockGeneric(dst, a, b, c []float64) {
	checkLen(len(dst), len(a), len(b), len(c))
	algovec.MulAddBlock(dst, a, b, c)
}
