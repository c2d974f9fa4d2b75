//go:build !((darwin || linux) && (amd64 || arm64))

package dynlib

import "fmt"

// Shared is unavailable on this platform; Open always fails.
type Shared struct {
	SearchPaths []string
}

// Open implements Loader.
func (s *Shared) Open(name string) (Library, error) {
	return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, ErrUnsupported)
}

// MakeFunc always fails on this platform.
func MakeFunc(fptr any, addr uintptr) error {
	return ErrUnsupported
}
