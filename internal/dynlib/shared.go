//go:build (darwin || linux) && (amd64 || arm64)

package dynlib

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/ebitengine/purego"
)

// Shared opens native shared libraries through the platform dynamic loader.
// Symbols resolve to addresses and are bound to Go function types with
// MakeFunc, so plugin functions must use C-compatible signatures.
type Shared struct {
	SearchPaths []string
}

// Open implements Loader.
func (s *Shared) Open(name string) (Library, error) {
	file := FileName(runtime.GOOS, name)

	var errs []error
	for _, path := range candidatePaths(s.SearchPaths, file) {
		h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
		if err == nil {
			return &sharedLibrary{name: name, path: path, handle: h}, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, errors.Join(errs...))
}

type sharedLibrary struct {
	name   string
	path   string
	handle uintptr
}

func (l *sharedLibrary) Name() string { return l.name }

func (l *sharedLibrary) Lookup(symbol string) (any, error) {
	addr, err := purego.Dlsym(l.handle, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %w", ErrSymbolNotFound, symbol, l.path, err)
	}
	return addr, nil
}

func (l *sharedLibrary) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}

// MakeFunc binds the native function at addr to the function variable fptr
// points to. The function type must be C-compatible: scalar or pointer
// parameters and at most one scalar result. Anything else is reported as
// ErrSignature before binding.
func MakeFunc(fptr any, addr uintptr) (err error) {
	pv := reflect.ValueOf(fptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return fmt.Errorf("%w: %T is not a pointer to a function variable", ErrSignature, fptr)
	}
	if err := nativeSignature(pv.Type().Elem()); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSignature, r)
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}
