package tick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-accel/internal/cpu"
)

func TestStrategySelection(t *testing.T) {
	tests := []struct {
		name     string
		features cpu.Features
		wantFreq float64
	}{
		{"hardware counter", cpu.Features{HasCycleCounter: true, Architecture: "amd64"}, ticksPerMicrosecond},
		{"no hardware counter", cpu.Features{Architecture: "riscv64"}, 1},
		{"forced generic", cpu.Features{HasCycleCounter: true, ForceGeneric: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.features)
			assert.Equal(t, tt.wantFreq, s.Frequency())
			assert.NotEmpty(t, s.Name())
		})
	}
}

func TestMonotonic(t *testing.T) {
	sources := []Source{New(cpu.Features{HasCycleCounter: true}), NewOSClock()}
	for _, s := range sources {
		t.Run(s.Name(), func(t *testing.T) {
			assert.Greater(t, s.Frequency(), 0.0)
			prev := s.Now()
			for range 1000 {
				now := s.Now()
				assert.GreaterOrEqual(t, now, prev)
				prev = now
			}
		})
	}
}

func TestMicrosecondConversion(t *testing.T) {
	s := New(cpu.Features{HasCycleCounter: true})
	start := s.Now()
	time.Sleep(2 * time.Millisecond)
	elapsed := Duration(s, s.Now()-start)

	assert.GreaterOrEqual(t, elapsed, 2*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
	assert.Equal(t, 5.0, Microseconds(NewOSClock(), 5))
}
