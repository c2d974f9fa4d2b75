package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-accel/dispatch"
)

// goertzelBlock runs the second-order recurrence over a block and returns the
// updated state.
var goertzelBlock = dispatch.NewSlot("GoertzelBlock", goertzelBlockGeneric, libraries,
	dispatch.Native(wrapGoertzel))

func goertzelBlockGeneric(coeff, s0, s1 float64, x []float64) (float64, float64) {
	for _, v := range x {
		s0, s1 = v+coeff*s0-s1, s0
	}
	return s0, s1
}

// Goertzel evaluates a single DFT term over all samples processed since the
// last Reset.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
}

// NewGoertzel creates an analyzer for frequency, which must lie in
// [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel: sample rate must be > 0: %v", sampleRate)
	}
	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel: frequency must be between 0 and sampleRate/2: %v", frequency)
	}
	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the accumulated state.
func (g *Goertzel) Reset() { g.s0, g.s1 = 0, 0 }

// ProcessBlock accumulates a block of samples.
func (g *Goertzel) ProcessBlock(x []float64) {
	g.s0, g.s1 = goertzelBlock.Get()(g.coeff, g.s0, g.s1, x)
}

// Power returns |X(f)|^2 over the samples processed so far.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Magnitude returns |X(f)|.
func (g *Goertzel) Magnitude() float64 {
	if p := g.Power(); p > 0 {
		return math.Sqrt(p)
	}
	return 0
}

// Frequency returns the target frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// AnalyzeBlock returns the Goertzel power of x at frequency in one call.
func AnalyzeBlock(x []float64, frequency, sampleRate float64) (float64, error) {
	g, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}
	g.ProcessBlock(x)
	return g.Power(), nil
}
