package dispatch

import "github.com/cwbudde/algo-accel/internal/cpu"

// Tier is an instruction-set tier. See the constants below.
type Tier = cpu.Tier

// Code is a capability code: architecture family plus tier.
type Code = cpu.Code

const (
	TierUnknown  = cpu.TierUnknown
	TierBaseline = cpu.TierBaseline
	TierSSE2     = cpu.TierSSE2
	TierAVX      = cpu.TierAVX
	TierAVX2     = cpu.TierAVX2
	TierAVX512   = cpu.TierAVX512
	TierNEON     = cpu.TierNEON
	TierSVE      = cpu.TierSVE
)

// ParseTier parses a tier name such as "avx2" or "neon".
func ParseTier(s string) (Tier, error) {
	return cpu.ParseTier(s)
}
