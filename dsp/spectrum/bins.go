package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-accel/internal/vecmath"
)

// parts holds pooled scratch for splitting complex bins into real and
// imaginary halves.
type parts struct {
	data []float64
}

var partsPool = sync.Pool{
	New: func() any { return &parts{} },
}

func split(in []complex128) (re, im []float64, p *parts) {
	p = partsPool.Get().(*parts)
	n := len(in)
	if cap(p.data) < 2*n {
		p.data = make([]float64, 2*n)
	}
	re, im = p.data[:n], p.data[n:2*n]
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im, p
}

// Magnitude returns |X[k]| for each bin. In steady state it allocates only
// the result.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	re, im, p := split(in)
	vecmath.Magnitude(out, re, im)
	partsPool.Put(p)
	return out
}

// Power returns |X[k]|^2 for each bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	re, im, p := split(in)
	vecmath.Power(out, re, im)
	partsPool.Put(p)
	return out
}

// Phase returns arg(X[k]) in radians for each bin.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// UnwrapPhase returns a copy of phase with jumps larger than pi folded back
// by multiples of 2*pi.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}
	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		switch d := phase[i] - phase[i-1]; {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

// PowerSpectrum transforms a real signal and returns the power of bins
// 0..len(signal)/2.
func PowerSpectrum(signal []float64) ([]float64, error) {
	src := make([]complex128, len(signal))
	for i, x := range signal {
		src[i] = complex(x, 0)
	}
	bins := make([]complex128, len(src))
	if err := Forward(bins, src); err != nil {
		return nil, err
	}
	return Power(bins[:len(bins)/2+1]), nil
}
