// Package cpu provides processor capability detection for accelerator dispatch.
//
// The running processor is classified into an architecture family and an
// instruction-set tier, packed together into a single [Code]. Detection is
// performed lazily on the first call to DetectFeatures() or Detect() and the
// results are cached for the lifetime of the process using sync.Once.
package cpu

import (
	"os"
	"sync"
)

// NoSIMDEnv names the environment variable that disables every SIMD tier.
// Any non-empty value other than "0" or "false" forces generic classification.
const NoSIMDEnv = "ALGO_ACCEL_NO_SIMD"

// Features describes CPU capabilities relevant to accelerator selection.
type Features struct {
	// x86/amd64 SIMD features
	HasSSE2   bool // Streaming SIMD Extensions 2 (baseline for amd64)
	HasAVX    bool // Advanced Vector Extensions
	HasAVX2   bool // Advanced Vector Extensions 2
	HasAVX512 bool // AVX-512 Foundation

	// ARM SIMD features
	HasNEON bool // ARM Advanced SIMD (NEON)
	HasSVE  bool // ARM Scalable Vector Extension

	// HasCycleCounter reports a constant-rate hardware counter
	// (invariant TSC on x86, the generic timer on arm64).
	HasCycleCounter bool

	// Control flags
	ForceGeneric bool // Disable all SIMD optimizations (for testing/debugging)

	// Runtime information
	Architecture string // runtime.GOARCH (e.g., "amd64", "arm64")
	Vendor       string
	Brand        string
	LogicalCores int
}

var (
	// detectedFeatures holds the cached CPU features detected on this system.
	detectedFeatures Features

	// detectOnce ensures feature detection runs exactly once, thread-safely.
	detectOnce sync.Once

	// detectMutex serializes access to detectOnce/detectedFeatures.
	detectMutex sync.Mutex

	// forcedFeatures allows overriding actual hardware detection for testing.
	forcedFeatures *Features

	// forcedMutex protects forcedFeatures from concurrent access during testing.
	forcedMutex sync.RWMutex
)

// DetectFeatures returns the CPU features available on the current system.
//
// Detection is performed once on the first call and cached for subsequent calls.
// This function is thread-safe and can be called concurrently from multiple goroutines.
func DetectFeatures() Features {
	forcedMutex.RLock()
	forced := forcedFeatures
	forcedMutex.RUnlock()

	if forced != nil {
		return *forced
	}

	detectMutex.Lock()
	detectOnce.Do(func() {
		detectedFeatures = detectFeaturesImpl()
		if noSIMDRequested(os.Getenv(NoSIMDEnv)) {
			detectedFeatures.ForceGeneric = true
		}
	})
	features := detectedFeatures
	detectMutex.Unlock()

	return features
}

// Detect returns the capability code of the running processor.
func Detect() Code {
	return Classify(DetectFeatures())
}

// SetForcedFeatures overrides CPU feature detection with the specified features.
// This is intended for testing purposes only.
func SetForcedFeatures(f Features) {
	forcedMutex.Lock()
	defer forcedMutex.Unlock()
	forced := f
	forcedFeatures = &forced
}

// ResetDetection clears any forced features and the detection cache.
// This is intended for testing purposes.
func ResetDetection() {
	forcedMutex.Lock()
	forcedFeatures = nil
	forcedMutex.Unlock()

	detectMutex.Lock()
	detectOnce = sync.Once{}
	detectedFeatures = Features{}
	detectMutex.Unlock()
}

// Classify maps a feature set onto a capability code. The highest tier the
// features support wins; inconclusive or forced-generic input yields
// TierUnknown, which never admits a plugin.
func Classify(f Features) Code {
	family := FamilyOf(f.Architecture)
	if f.ForceGeneric {
		return MakeCode(family, TierUnknown)
	}

	switch family {
	case FamilyAMD64, Family386:
		switch {
		case f.HasAVX512:
			return MakeCode(family, TierAVX512)
		case f.HasAVX2:
			return MakeCode(family, TierAVX2)
		case f.HasAVX:
			return MakeCode(family, TierAVX)
		case f.HasSSE2:
			return MakeCode(family, TierSSE2)
		}
		return MakeCode(family, TierBaseline)
	case FamilyARM64:
		switch {
		case f.HasSVE:
			return MakeCode(family, TierSVE)
		case f.HasNEON:
			return MakeCode(family, TierNEON)
		}
		return MakeCode(family, TierBaseline)
	case FamilyGeneric:
		return MakeCode(family, TierUnknown)
	default:
		return MakeCode(family, TierBaseline)
	}
}

// Supports returns true if the given CPU features support the specified tier.
func Supports(features Features, tier Tier) bool {
	return Classify(features).Admits(tier)
}

func noSIMDRequested(v string) bool {
	switch v {
	case "", "0", "false", "FALSE", "False":
		return false
	default:
		return true
	}
}
