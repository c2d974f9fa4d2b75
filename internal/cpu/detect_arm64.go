//go:build arm64

package cpu

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs CPU feature detection on arm64 systems.
//
// On ARMv8 (arm64), NEON is mandatory, so HasNEON should always be true.
// The architected generic timer is always present and runs at a fixed rate.
func detectFeaturesImpl() Features {
	return Features{
		HasNEON:         cpu.ARM64.HasASIMD,
		HasSVE:          cpu.ARM64.HasSVE,
		HasCycleCounter: true,
		Architecture:    runtime.GOARCH,
		Vendor:          cpuid.CPU.VendorString,
		Brand:           cpuid.CPU.BrandName,
		LogicalCores:    cpuid.CPU.LogicalCores,
	}
}
