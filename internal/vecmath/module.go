// Package vecmath provides block vector primitives for float64 slices.
//
// Every primitive is a dispatch slot: it runs the built-in Go implementation
// until optimized mode binds an accelerator plugin for the running processor.
// Plugins are looked up under tier-specific base names, most specialized
// first:
//
//	algoaccel_vecmath_avx512, algoaccel_vecmath_avx2, algoaccel_vecmath_sse2,
//	algoaccel_vecmath_sve, algoaccel_vecmath_neon, algoaccel_vecmath
//
// and must export each primitive under its Go name (AddBlock, Sum, ...).
package vecmath

import (
	"github.com/cwbudde/algo-accel/dispatch"
)

// ModuleName is the registry name of this package's module.
const ModuleName = "vecmath"

// Version is reported in the module descriptor.
const Version = "0.2.0"

// LibraryPrefix is the base name shared by all vecmath plugins.
const LibraryPrefix = "algoaccel_vecmath"

var libraries = dispatch.Libraries(
	dispatch.Lib(LibraryPrefix+"_avx512", dispatch.TierAVX512),
	dispatch.Lib(LibraryPrefix+"_avx2", dispatch.TierAVX2),
	dispatch.Lib(LibraryPrefix+"_sse2", dispatch.TierSSE2),
	dispatch.Lib(LibraryPrefix+"_sve", dispatch.TierSVE),
	dispatch.Lib(LibraryPrefix+"_neon", dispatch.TierNEON),
	dispatch.Lib(LibraryPrefix, dispatch.TierBaseline),
)

var module = dispatch.NewModule(ModuleName, Version,
	addBlock,
	addBlockInPlace,
	mulBlock,
	mulBlockInPlace,
	scaleBlock,
	scaleBlockInPlace,
	addMulBlock,
	mulAddBlock,
	maxAbs,
	sum,
	dotProduct,
	magnitude,
	power,
)

func init() {
	dispatch.MustRegister(module)
}

// Module returns the descriptor registered with the default dispatch context.
func Module() *dispatch.Module { return module }

func checkLen(n int, others ...int) {
	for _, m := range others {
		if m != n {
			panic("vecmath: slice length mismatch")
		}
	}
}
