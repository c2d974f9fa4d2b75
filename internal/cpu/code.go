package cpu

import (
	"fmt"
	"strings"
)

// Code is a composite capability code: the architecture family in the low
// bits and the instruction-set tier in the field above it.
type Code uint32

const (
	tierShift  = 8
	familyMask = 0xff
)

// MakeCode packs a family and a tier into a Code.
func MakeCode(f Family, t Tier) Code {
	return Code(uint32(f)&familyMask | uint32(t)<<tierShift)
}

// Family returns the architecture family of c.
func (c Code) Family() Family { return Family(uint32(c) & familyMask) }

// Tier returns the instruction-set tier of c.
func (c Code) Tier() Tier { return Tier(uint32(c) >> tierShift) }

// WithTier returns c with its tier replaced by t.
func (c Code) WithTier(t Tier) Code { return MakeCode(c.Family(), t) }

// Admits reports whether a plugin built for tier t may run on a processor
// classified as c. An unknown tier admits nothing; baseline plugins run on any
// known tier; otherwise t must share c's lineage and rank no higher.
func (c Code) Admits(t Tier) bool {
	have := c.Tier()
	if have == TierUnknown || t == TierUnknown {
		return false
	}
	if t == TierBaseline {
		return true
	}
	if t.lineage() != have.lineage() {
		return false
	}
	return t <= have
}

func (c Code) String() string {
	return c.Family().String() + "/" + c.Tier().String()
}

// Family is an architecture family.
type Family uint8

const (
	FamilyGeneric Family = iota
	Family386
	FamilyAMD64
	FamilyARM
	FamilyARM64
	FamilyPPC64
	FamilyRISCV64
	FamilyWasm
)

var familyNames = [...]string{
	FamilyGeneric: "generic",
	Family386:     "386",
	FamilyAMD64:   "amd64",
	FamilyARM:     "arm",
	FamilyARM64:   "arm64",
	FamilyPPC64:   "ppc64",
	FamilyRISCV64: "riscv64",
	FamilyWasm:    "wasm",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "unknown"
}

// FamilyOf maps a GOARCH value onto a family.
func FamilyOf(goarch string) Family {
	switch goarch {
	case "386":
		return Family386
	case "amd64":
		return FamilyAMD64
	case "arm":
		return FamilyARM
	case "arm64":
		return FamilyARM64
	case "ppc64", "ppc64le":
		return FamilyPPC64
	case "riscv64":
		return FamilyRISCV64
	case "wasm":
		return FamilyWasm
	default:
		return FamilyGeneric
	}
}

// Tier represents an instruction-set tier.
// Higher numeric values indicate more advanced SIMD capabilities within a
// lineage, but tiers are not comparable across lineages (e.g., AVX2 vs NEON).
type Tier uint8

const (
	// TierUnknown indicates probing was inconclusive; only generic code runs.
	TierUnknown Tier = iota

	// TierBaseline indicates no SIMD requirement beyond the architecture baseline.
	TierBaseline

	// TierSSE2 indicates x86-64 SSE2 (baseline for amd64).
	TierSSE2

	// TierAVX indicates x86-64 AVX (Advanced Vector Extensions).
	TierAVX

	// TierAVX2 indicates x86-64 AVX2 (256-bit integer operations).
	TierAVX2

	// TierAVX512 indicates x86-64 AVX-512 (512-bit vectors).
	TierAVX512

	// TierNEON indicates ARM NEON / Advanced SIMD.
	TierNEON

	// TierSVE indicates ARM SVE (Scalable Vector Extension).
	TierSVE
)

type lineage uint8

const (
	lineageNone lineage = iota
	lineageX86
	lineageARM
)

func (t Tier) lineage() lineage {
	switch t {
	case TierSSE2, TierAVX, TierAVX2, TierAVX512:
		return lineageX86
	case TierNEON, TierSVE:
		return lineageARM
	default:
		return lineageNone
	}
}

// String returns a human-readable name for the tier.
func (t Tier) String() string {
	switch t {
	case TierUnknown:
		return "unknown"
	case TierBaseline:
		return "baseline"
	case TierSSE2:
		return "sse2"
	case TierAVX:
		return "avx"
	case TierAVX2:
		return "avx2"
	case TierAVX512:
		return "avx512"
	case TierNEON:
		return "neon"
	case TierSVE:
		return "sve"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// ParseTier parses a tier name as printed by Tier.String.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unknown", "none", "generic":
		return TierUnknown, nil
	case "baseline":
		return TierBaseline, nil
	case "sse2":
		return TierSSE2, nil
	case "avx":
		return TierAVX, nil
	case "avx2":
		return TierAVX2, nil
	case "avx512", "avx-512":
		return TierAVX512, nil
	case "neon", "asimd":
		return TierNEON, nil
	case "sve":
		return TierSVE, nil
	default:
		return TierUnknown, fmt.Errorf("unknown cpu tier %q", s)
	}
}
