//go:build amd64 || 386

package cpu

import (
	"runtime"
	"testing"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

func TestDetectFeaturesImplX86(t *testing.T) {
	f := detectFeaturesImpl()

	if f.Architecture != runtime.GOARCH {
		t.Errorf("Architecture = %q, want %q", f.Architecture, runtime.GOARCH)
	}
	if f.HasCycleCounter != cpuid.CPU.Supports(cpuid.RDTSCP) {
		t.Errorf("HasCycleCounter = %v, cpuid reports RDTSCP %v", f.HasCycleCounter, cpuid.CPU.Supports(cpuid.RDTSCP))
	}
	if f.HasAVX2 != cpu.X86.HasAVX2 || f.HasSSE2 != cpu.X86.HasSSE2 {
		t.Errorf("SIMD flags disagree with x/sys/cpu: %+v", f)
	}
	if f.Vendor != cpuid.CPU.VendorString {
		t.Errorf("Vendor = %q, want %q", f.Vendor, cpuid.CPU.VendorString)
	}
}
