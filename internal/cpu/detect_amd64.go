//go:build amd64 || 386

package cpu

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs CPU feature detection on x86 systems.
//
// SIMD flags come from golang.org/x/sys/cpu; identification and RDTSCP come
// from cpuid, which x/sys/cpu does not expose.
func detectFeaturesImpl() Features {
	return Features{
		HasSSE2:         cpu.X86.HasSSE2,
		HasAVX:          cpu.X86.HasAVX,
		HasAVX2:         cpu.X86.HasAVX2,
		HasAVX512:       cpu.X86.HasAVX512F,
		HasCycleCounter: cpuid.CPU.Supports(cpuid.RDTSCP),
		Architecture:    runtime.GOARCH,
		Vendor:          cpuid.CPU.VendorString,
		Brand:           cpuid.CPU.BrandName,
		LogicalCores:    cpuid.CPU.LogicalCores,
	}
}
