package spectrum

import (
	"errors"
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-accel/dispatch"
)

// ErrLength is returned when transform buffers have mismatched or zero length.
var ErrLength = errors.New("spectrum: invalid transform length")

var forward = dispatch.NewSlot("Forward", forwardGeneric,
	dispatch.Symbols("Forward", "FFTForward"), libraries, dispatch.Native(wrapTransform))

var inverse = dispatch.NewSlot("Inverse", inverseGeneric,
	dispatch.Symbols("Inverse", "FFTInverse"), libraries, dispatch.Native(wrapTransform))

// Forward computes the forward DFT of src into dst. Both slices must have the
// same non-zero length; sizes the FFT backend cannot plan are reported as
// errors.
func Forward(dst, src []complex128) error {
	return forward.Get()(dst, src)
}

// Inverse computes the normalized inverse DFT of src into dst.
func Inverse(dst, src []complex128) error {
	return inverse.Get()(dst, src)
}

// plans caches one pool of FFT plans per size. Plans hold scratch state, so
// a plan is used by one goroutine at a time.
var plans sync.Map // int -> *sync.Pool

func withPlan(n int, fn func(*algofft.Plan[complex128]) error) error {
	v, ok := plans.Load(n)
	if !ok {
		v, _ = plans.LoadOrStore(n, &sync.Pool{})
	}
	pool := v.(*sync.Pool)

	plan, _ := pool.Get().(*algofft.Plan[complex128])
	if plan == nil {
		p, err := algofft.NewPlan64(n)
		if err != nil {
			return fmt.Errorf("spectrum: plan size %d: %w", n, err)
		}
		plan = p
	}
	defer pool.Put(plan)
	return fn(plan)
}

func checkTransform(dst, src []complex128) error {
	if len(src) == 0 || len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLength, len(dst), len(src))
	}
	return nil
}

func forwardGeneric(dst, src []complex128) error {
	if err := checkTransform(dst, src); err != nil {
		return err
	}
	return withPlan(len(src), func(p *algofft.Plan[complex128]) error {
		return p.Forward(dst, src)
	})
}

func inverseGeneric(dst, src []complex128) error {
	if err := checkTransform(dst, src); err != nil {
		return err
	}
	return withPlan(len(src), func(p *algofft.Plan[complex128]) error {
		return p.Inverse(dst, src)
	})
}
