package dispatch

import (
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/cwbudde/algo-accel/internal/dynlib"
)

// LibraryRef names a plugin library and the tier it is built for.
type LibraryRef struct {
	Name string
	Tier Tier
}

// Lib is shorthand for a LibraryRef literal.
func Lib(name string, tier Tier) LibraryRef {
	return LibraryRef{Name: name, Tier: tier}
}

// Resolution records which library and symbol a resolved slot is bound to.
type Resolution struct {
	Library string
	Symbol  string
}

// Binding is the type-erased view of a [Slot] used by modules and the
// patcher. Only *Slot implements it.
type Binding interface {
	// Name identifies the slot inside its module.
	Name() string

	// Symbols returns the candidate symbol names, most preferred first.
	Symbols() []string

	// Libraries returns the candidate plugin libraries, most specialized first.
	Libraries() []LibraryRef

	// Resolution reports where the current implementation comes from.
	// ok is false while the slot uses its generic implementation.
	Resolution() (res Resolution, ok bool)

	bind(lib dynlib.Library, symbol string) error
	reset()
}

// SlotOption configures a slot's candidates.
type SlotOption func(*slotConfig)

type slotConfig struct {
	symbols []string
	libs    []LibraryRef
	native  *nativeAdapter
}

type nativeAdapter struct {
	out  reflect.Type
	wrap func(sym any) (any, error)
}

// Symbols sets the exported symbol names to try, most preferred first.
// Without this option a slot tries a single symbol equal to its name.
func Symbols(names ...string) SlotOption {
	return func(s *slotConfig) {
		s.symbols = append(s.symbols, names...)
	}
}

// Libraries sets the plugin libraries allowed to satisfy the slot, most
// specialized first.
func Libraries(refs ...LibraryRef) SlotOption {
	return func(s *slotConfig) {
		s.libs = append(s.libs, refs...)
	}
}

// Native declares the C-compatible function type C a native plugin exports
// for the slot, and how to wrap it into the slot's function type F. It is
// tried when a symbol does not convert to F directly, which is always the
// case for native symbols when F takes slices or returns an error.
//
// wrap must restore the Go contract of F, for example by checking lengths
// and passing them explicitly.
func Native[C, F any](wrap func(C) F) SlotOption {
	return func(s *slotConfig) {
		s.native = &nativeAdapter{
			out: reflect.TypeFor[F](),
			wrap: func(sym any) (any, error) {
				c, err := dynlib.Convert[C](sym)
				if err != nil {
					return nil, err
				}
				return wrap(c), nil
			},
		}
	}
}

// Slot is a patchable call site holding a function of type F. It calls its
// generic implementation until the patcher binds a plugin symbol.
type Slot[F any] struct {
	name    string
	generic F
	symbols []string
	libs    []LibraryRef

	native  func(sym any) (F, error)

	// nil means generic.
	target atomic.Pointer[target[F]]
}

type target[F any] struct {
	fn  F
	res Resolution
}

var _ Binding = (*Slot[func()])(nil)

// NewSlot declares a slot. Candidate order is preserved verbatim and decides
// ties: earlier symbols and libraries strictly win. It panics if a Native
// adapter does not produce F.
func NewSlot[F any](name string, generic F, opts ...SlotOption) *Slot[F] {
	var cfg slotConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.symbols) == 0 {
		cfg.symbols = []string{name}
	}
	s := &Slot[F]{
		name:    name,
		generic: generic,
		symbols: cfg.symbols,
		libs:    cfg.libs,
	}
	if a := cfg.native; a != nil {
		if want := reflect.TypeFor[F](); a.out != want {
			panic(fmt.Sprintf("dispatch: slot %s: native adapter yields %v, want %v", name, a.out, want))
		}
		s.native = func(sym any) (F, error) {
			v, err := a.wrap(sym)
			if err != nil {
				var zero F
				return zero, err
			}
			return v.(F), nil
		}
	}
	return s
}

// Get returns the implementation to call: the bound plugin function, or the
// generic one.
func (s *Slot[F]) Get() F {
	if t := s.target.Load(); t != nil {
		return t.fn
	}
	return s.generic
}

// Generic returns the built-in implementation regardless of binding.
func (s *Slot[F]) Generic() F { return s.generic }

// Resolved reports whether a plugin function is installed.
func (s *Slot[F]) Resolved() bool { return s.target.Load() != nil }

func (s *Slot[F]) Name() string { return s.name }

func (s *Slot[F]) Symbols() []string { return slices.Clone(s.symbols) }

func (s *Slot[F]) Libraries() []LibraryRef { return slices.Clone(s.libs) }

func (s *Slot[F]) Resolution() (Resolution, bool) {
	if t := s.target.Load(); t != nil {
		return t.res, true
	}
	return Resolution{}, false
}

func (s *Slot[F]) bind(lib dynlib.Library, symbol string) error {
	sym, err := lib.Lookup(symbol)
	if err != nil {
		return err
	}
	fn, err := dynlib.Convert[F](sym)
	if err != nil && s.native != nil {
		fn, err = s.native(sym)
	}
	if err != nil {
		return err
	}
	s.target.Store(&target[F]{
		fn:  fn,
		res: Resolution{Library: lib.Name(), Symbol: symbol},
	})
	return nil
}

func (s *Slot[F]) reset() { s.target.Store(nil) }
