// Package dynlib opens accelerator plugin libraries and resolves symbols from
// them. It is the platform boundary of the dispatcher: loaders know how a base
// name maps to a file and how a symbol becomes a callable Go value.
package dynlib

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
)

var (
	// ErrNotFound reports that no loader could open the named library.
	ErrNotFound = errors.New("dynlib: library not found")

	// ErrSymbolNotFound reports that a library does not export a symbol.
	ErrSymbolNotFound = errors.New("dynlib: symbol not found")

	// ErrUnsupported reports an operation the current platform cannot perform.
	ErrUnsupported = errors.New("dynlib: unsupported on this platform")

	// ErrSignature reports that a symbol cannot be bound to the requested
	// function type.
	ErrSignature = errors.New("dynlib: symbol does not match signature")
)

// Library is an open plugin library.
type Library interface {
	// Name returns the base name the library was opened under.
	Name() string

	// Lookup resolves an exported symbol. The result is either a Go value
	// (function or pointer to function variable) or a raw address (uintptr).
	Lookup(symbol string) (any, error)

	// Close releases the library image.
	Close() error
}

// Loader opens libraries by base name.
type Loader interface {
	Open(name string) (Library, error)
}

// Chain tries each loader in order; the first one that opens the library wins.
type Chain []Loader

// Open implements Loader.
func (c Chain) Open(name string) (Library, error) {
	var errs []error
	for _, l := range c {
		if l == nil {
			continue
		}
		lib, err := l.Open(name)
		if err == nil {
			return lib, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil, errors.Join(errs...)
}

// Default returns the standard loader chain: statically linked accelerators
// first, then Go plugins, then native shared libraries.
func Default(static *Static, searchPaths []string) Chain {
	chain := Chain{}
	if static != nil {
		chain = append(chain, static)
	}
	return append(chain,
		&GoPlugin{SearchPaths: searchPaths},
		&Shared{SearchPaths: searchPaths},
	)
}

// FileName maps a library base name onto the platform's shared library file
// name for goos.
func FileName(goos, name string) string {
	switch goos {
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default:
		return "lib" + name + ".so"
	}
}

// candidatePaths lists the paths to try for file, search directories first
// and the bare file name last so the platform search path applies.
func candidatePaths(dirs []string, file string) []string {
	paths := make([]string, 0, len(dirs)+1)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, file))
	}
	return append(paths, file)
}

// Convert turns a resolved symbol into a value of function type F.
//
// Go plugins export functions as values and variables as pointers; native
// libraries export addresses, which are wrapped with MakeFunc and therefore
// require a C-compatible F (see MakeFunc).
func Convert[F any](sym any) (F, error) {
	var fn F
	switch v := sym.(type) {
	case F:
		return v, nil
	case *F:
		if v == nil {
			return fn, ErrSignature
		}
		return *v, nil
	case uintptr:
		if v == 0 {
			return fn, ErrSymbolNotFound
		}
		if err := MakeFunc(&fn, v); err != nil {
			return fn, err
		}
		return fn, nil
	default:
		// Same signature under a different (un)named function type.
		rv := reflect.ValueOf(sym)
		ft := reflect.TypeFor[F]()
		if rv.IsValid() && rv.Kind() == reflect.Func && rv.Type().ConvertibleTo(ft) {
			return rv.Convert(ft).Interface().(F), nil
		}
		return fn, fmt.Errorf("%w: got %T", ErrSignature, sym)
	}
}

// nativeSignature reports whether values of function type t can be passed to
// and returned from C unchanged. Parameters may be booleans, numbers,
// pointers or unsafe.Pointer; at most one result, which must not be a Go
// pointer. Slices, strings, interfaces and multiple results are rejected:
// a slice would reach C as a bare data pointer without its length.
func nativeSignature(t reflect.Type) error {
	if t.Kind() != reflect.Func {
		return fmt.Errorf("%w: %v is not a function type", ErrSignature, t)
	}
	if t.IsVariadic() {
		return fmt.Errorf("%w: %v is variadic", ErrSignature, t)
	}
	for i := range t.NumIn() {
		if !nativeKind(t.In(i).Kind(), true) {
			return fmt.Errorf("%w: parameter %d of %v has no C equivalent", ErrSignature, i, t)
		}
	}
	switch t.NumOut() {
	case 0:
	case 1:
		if !nativeKind(t.Out(0).Kind(), false) {
			return fmt.Errorf("%w: result of %v has no C equivalent", ErrSignature, t)
		}
	default:
		return fmt.Errorf("%w: %v has more than one result", ErrSignature, t)
	}
	return nil
}

func nativeKind(k reflect.Kind, param bool) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.UnsafePointer:
		return true
	case reflect.Pointer:
		return param
	default:
		return false
	}
}
