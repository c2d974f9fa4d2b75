package testutil

import "github.com/cwbudde/algo-accel/internal/cpu"

// Machine returns the features of a processor of family arch supporting every
// tier up to and including tier in its lineage.
func Machine(arch string, tier cpu.Tier) cpu.Features {
	f := cpu.Features{Architecture: arch}
	switch tier {
	case cpu.TierAVX512:
		f.HasAVX512 = true
		fallthrough
	case cpu.TierAVX2:
		f.HasAVX2 = true
		fallthrough
	case cpu.TierAVX:
		f.HasAVX = true
		fallthrough
	case cpu.TierSSE2:
		f.HasSSE2 = true
	case cpu.TierSVE:
		f.HasSVE = true
		fallthrough
	case cpu.TierNEON:
		f.HasNEON = true
	case cpu.TierUnknown:
		f.ForceGeneric = true
	}
	return f
}
