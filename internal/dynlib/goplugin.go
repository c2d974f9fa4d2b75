package dynlib

import (
	"errors"
	"fmt"
	"plugin"
)

// GoPlugin opens plugins built with `go build -buildmode=plugin`. The file
// for base name n is n.so inside one of SearchPaths or the working directory.
type GoPlugin struct {
	SearchPaths []string
}

// Open implements Loader.
func (g *GoPlugin) Open(name string) (Library, error) {
	var errs []error
	for _, path := range candidatePaths(g.SearchPaths, name+".so") {
		p, err := plugin.Open(path)
		if err == nil {
			return &goLibrary{name: name, path: path, p: p}, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, errors.Join(errs...))
}

type goLibrary struct {
	name string
	path string
	p    *plugin.Plugin
}

func (l *goLibrary) Name() string { return l.name }

func (l *goLibrary) Lookup(symbol string) (any, error) {
	sym, err := l.p.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %w", ErrSymbolNotFound, symbol, l.path, err)
	}
	return sym, nil
}

// Close is a no-op: the Go runtime never unloads a plugin.
func (l *goLibrary) Close() error { return nil }
