package dispatch

import "errors"

var (
	// ErrNilModule is returned when registering a nil module.
	ErrNilModule = errors.New("dispatch: nil module")

	// ErrEmptyName is returned when registering a module without a name.
	ErrEmptyName = errors.New("dispatch: module name must not be empty")

	// ErrDuplicateModule is returned when a module name is already registered.
	ErrDuplicateModule = errors.New("dispatch: module already registered")
)
