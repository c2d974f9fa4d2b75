package dynlib

import (
	"fmt"
	"maps"
	"sync"
)

// Static serves libraries from in-process symbol tables. Accelerators linked
// into the binary register here and are then discovered like any plugin.
type Static struct {
	mu   sync.RWMutex
	libs map[string]map[string]any
}

// NewStatic returns an empty static loader.
func NewStatic() *Static {
	return &Static{libs: make(map[string]map[string]any)}
}

// Add installs (or replaces) a library and its exported symbols.
func (s *Static) Add(name string, symbols map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.libs == nil {
		s.libs = make(map[string]map[string]any)
	}
	s.libs[name] = maps.Clone(symbols)
}

// Remove uninstalls a library. Already-open handles keep their symbols.
func (s *Static) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.libs, name)
}

// Open implements Loader.
func (s *Static) Open(name string) (Library, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	syms, ok := s.libs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return &staticLibrary{name: name, symbols: syms}, nil
}

type staticLibrary struct {
	name    string
	symbols map[string]any
}

func (l *staticLibrary) Name() string { return l.name }

func (l *staticLibrary) Lookup(symbol string) (any, error) {
	sym, ok := l.symbols[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, symbol, l.name)
	}
	return sym, nil
}

func (l *staticLibrary) Close() error { return nil }
