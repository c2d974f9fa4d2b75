package spectrum

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrNative is returned when a native transform kernel reports failure.
var ErrNative = errors.New("spectrum: native kernel failed")

// C signatures of native plugin kernels. Complex buffers are interleaved
// re/im doubles, the C99 double complex layout; a non-zero status is an
// error.
//
//	int Forward(double complex *dst, const double complex *src, size_t n);
//	void GoertzelBlock(double coeff, double *state, const double *x, size_t n);
//
// state points to {s0, s1} and is updated in place.
type (
	cTransform = func(dst, src *complex128, n int) int32
	cGoertzel  = func(coeff float64, state *float64, x *float64, n int)
)

func wrapTransform(c cTransform) func(dst, src []complex128) error {
	return func(dst, src []complex128) error {
		if err := checkTransform(dst, src); err != nil {
			return err
		}
		if status := c(unsafe.SliceData(dst), unsafe.SliceData(src), len(src)); status != 0 {
			return fmt.Errorf("%w: status %d", ErrNative, status)
		}
		return nil
	}
}

func wrapGoertzel(c cGoertzel) func(coeff, s0, s1 float64, x []float64) (float64, float64) {
	return func(coeff, s0, s1 float64, x []float64) (float64, float64) {
		if len(x) == 0 {
			return s0, s1
		}
		state := [2]float64{s0, s1}
		c(coeff, &state[0], unsafe.SliceData(x), len(x))
		return state[0], state[1]
	}
}
