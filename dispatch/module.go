package dispatch

import "slices"

// Module describes one library module: its identity and its slot table.
// A module is created once per library package and is shared by pointer.
type Module struct {
	name    string
	version string
	slots   []Binding
}

// NewModule declares a module owning the given slots in declaration order.
func NewModule(name, version string, slots ...Binding) *Module {
	return &Module{
		name:    name,
		version: version,
		slots:   slices.DeleteFunc(slices.Clone(slots), func(b Binding) bool { return b == nil }),
	}
}

// Name returns the module name, unique within a registry.
func (m *Module) Name() string { return m.name }

// Version returns the informational version string.
func (m *Module) Version() string { return m.version }

// Slots returns the slot table in declaration order.
func (m *Module) Slots() []Binding { return slices.Clone(m.slots) }

// Slot looks up a slot by name.
func (m *Module) Slot(name string) (Binding, bool) {
	for _, s := range m.slots {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
