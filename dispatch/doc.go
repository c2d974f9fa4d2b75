// Package dispatch patches the primitives of the numerics library with
// CPU-specific accelerated implementations loaded from plugins.
//
// Library modules declare their patchable call sites as [Slot] values,
// group them in a [Module] and register the module at init time. The
// application then toggles optimized mode:
//
//	stats := dispatch.EnableOptimized()
//	fmt.Printf("accelerated %d functions in %d modules\n", stats.Functions, stats.Modules)
//	...
//	dispatch.DisableOptimized()
//
// Enabling walks the registry in registration order and, for every slot,
// tries the slot's plugin libraries admitted by the processor tier (most
// specialized first) and its candidate symbols (most preferred first). The
// first symbol that resolves is installed. Slots that resolve nothing keep
// calling their generic implementation, so the library is fully usable with
// no plugins installed at all.
//
// All process-wide state lives in a [Context]. The package-level functions
// operate on [Default]. Mutating operations serialize on the context; slot
// reads are lock-free and may happen from any goroutine.
package dispatch
