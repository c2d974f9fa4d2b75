package vecmath

import "unsafe"

// Native plugins export the primitives with C signatures: one pointer per
// slice followed by the element count, e.g.
//
//	void AddBlock(double *dst, const double *a, const double *b, size_t n);
//	double Sum(const double *x, size_t n);
//
// The wrappers below check lengths before calling, so a native kernel always
// sees n elements in every buffer.
type (
	cBinary  = func(dst, a, b *float64, n int)
	cInPlace = func(dst, src *float64, n int)
	cScale   = func(dst, src *float64, scale float64, n int)
	cScaleIP = func(dst *float64, scale float64, n int)
	cAddMul  = func(dst, a, b *float64, scale float64, n int)
	cMulAdd  = func(dst, a, b, c *float64, n int)
	cReduce  = func(x *float64, n int) float64
	cDot     = func(a, b *float64, n int) float64
)

func ptr(x []float64) *float64 { return unsafe.SliceData(x) }

func wrapBinary(c cBinary) func(dst, a, b []float64) {
	return func(dst, a, b []float64) {
		checkLen(len(dst), len(a), len(b))
		if len(dst) > 0 {
			c(ptr(dst), ptr(a), ptr(b), len(dst))
		}
	}
}

func wrapInPlace(c cInPlace) func(dst, src []float64) {
	return func(dst, src []float64) {
		checkLen(len(dst), len(src))
		if len(dst) > 0 {
			c(ptr(dst), ptr(src), len(dst))
		}
	}
}

func wrapScale(c cScale) func(dst, src []float64, scale float64) {
	return func(dst, src []float64, scale float64) {
		checkLen(len(dst), len(src))
		if len(dst) > 0 {
			c(ptr(dst), ptr(src), scale, len(dst))
		}
	}
}

func wrapScaleInPlace(c cScaleIP) func(dst []float64, scale float64) {
	return func(dst []float64, scale float64) {
		if len(dst) > 0 {
			c(ptr(dst), scale, len(dst))
		}
	}
}

func wrapAddMul(c cAddMul) func(dst, a, b []float64, scale float64) {
	return func(dst, a, b []float64, scale float64) {
		checkLen(len(dst), len(a), len(b))
		if len(dst) > 0 {
			c(ptr(dst), ptr(a), ptr(b), scale, len(dst))
		}
	}
}

func wrapMulAdd(c cMulAdd) func(dst, a, b, x []float64) {
	return func(dst, a, b, x []float64) {
		checkLen(len(dst), len(a), len(b), len(x))
		if len(dst) > 0 {
			c(ptr(dst), ptr(a), ptr(b), ptr(x), len(dst))
		}
	}
}

func wrapReduce(c cReduce) func(x []float64) float64 {
	return func(x []float64) float64 {
		if len(x) == 0 {
			return 0
		}
		return c(ptr(x), len(x))
	}
}

func wrapDot(c cDot) func(a, b []float64) float64 {
	return func(a, b []float64) float64 {
		n := min(len(a), len(b))
		if n == 0 {
			return 0
		}
		return c(ptr(a), ptr(b), n)
	}
}
