package spectrum

import "github.com/cwbudde/algo-accel/dispatch"

// ModuleName is the registry name of this package's module.
const ModuleName = "spectrum"

// LibraryPrefix is the base name shared by all spectrum plugins.
const LibraryPrefix = "algoaccel_spectrum"

var libraries = dispatch.Libraries(
	dispatch.Lib(LibraryPrefix+"_avx2", dispatch.TierAVX2),
	dispatch.Lib(LibraryPrefix+"_neon", dispatch.TierNEON),
	dispatch.Lib(LibraryPrefix, dispatch.TierBaseline),
)

var module = dispatch.NewModule(ModuleName, "0.2.0", forward, inverse, goertzelBlock)

func init() {
	dispatch.MustRegister(module)
}

// Module returns the descriptor registered with the default dispatch context.
func Module() *dispatch.Module { return module }
