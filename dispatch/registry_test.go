package dispatch

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moduleNames(r *Registry) []string {
	var names []string
	r.ForEach(func(m *Module) bool {
		names = append(names, m.Name())
		return true
	})
	return names
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Head())
	assert.Nil(t, reg.Tail())

	a := NewModule("a", "1.0")
	b := NewModule("b", "1.0")
	c := NewModule("c", "2.1")

	for _, m := range []*Module{a, b, c} {
		h, err := reg.Register(m)
		require.NoError(t, err)
		assert.NotZero(t, h)
	}

	assert.Equal(t, []string{"a", "b", "c"}, moduleNames(reg))
	assert.Same(t, a, reg.Head())
	assert.Same(t, c, reg.Tail())
	assert.Equal(t, 3, reg.Len())

	got, ok := reg.Lookup("b")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, "1.0", got.Version())
}

func TestRegistry_RegisterErrors(t *testing.T) {
	reg := &Registry{}

	_, err := reg.Register(nil)
	assert.ErrorIs(t, err, ErrNilModule)

	_, err = reg.Register(NewModule("", "1"))
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = reg.Register(NewModule("core", "1"))
	require.NoError(t, err)
	_, err = reg.Register(NewModule("core", "2"))
	assert.ErrorIs(t, err, ErrDuplicateModule)

	assert.Equal(t, 1, reg.Len(), "failed registrations must not link anything")
}

func TestRegistry_DeregisterEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		remove []int
		want   []string
	}{
		{"head", []int{0}, []string{"b", "c"}},
		{"middle", []int{1}, []string{"a", "c"}},
		{"tail", []int{2}, []string{"a", "b"}},
		{"head then tail", []int{0, 2}, []string{"b"}},
		{"all", []int{1, 0, 2}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			var handles []Handle
			for _, n := range []string{"a", "b", "c"} {
				h, err := reg.Register(NewModule(n, ""))
				require.NoError(t, err)
				handles = append(handles, h)
			}
			for _, i := range tt.remove {
				_, ok := reg.Deregister(handles[i])
				assert.True(t, ok)
			}

			assert.Equal(t, tt.want, moduleNames(reg))
			if len(tt.want) == 0 {
				assert.Nil(t, reg.Head())
				assert.Nil(t, reg.Tail())
				return
			}
			assert.Equal(t, tt.want[0], reg.Head().Name())
			assert.Equal(t, tt.want[len(tt.want)-1], reg.Tail().Name())
		})
	}
}

func TestRegistry_DeregisterUnknownIsNoop(t *testing.T) {
	reg := NewRegistry()
	h, err := reg.Register(NewModule("a", ""))
	require.NoError(t, err)

	_, ok := reg.Deregister(h)
	assert.True(t, ok)
	_, ok = reg.Deregister(h)
	assert.False(t, ok)
	_, ok = reg.Deregister(Handle(9999))
	assert.False(t, ok)
	_, ok = (&Registry{}).Deregister(Handle(1))
	assert.False(t, ok)

	// The name is free again after removal.
	_, err = reg.Register(NewModule("a", ""))
	assert.NoError(t, err)
}

func TestRegistry_ForEachStops(t *testing.T) {
	reg := NewRegistry()
	for _, n := range []string{"a", "b", "c"} {
		_, err := reg.Register(NewModule(n, ""))
		require.NoError(t, err)
	}

	visited := 0
	reg.ForEach(func(*Module) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

// TestRegistry_RandomSequences checks traversal order against a plain slice
// model over random register/deregister sequences.
func TestRegistry_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := range 50 {
		reg := NewRegistry()
		type entry struct {
			h    Handle
			name string
		}
		var model []entry
		var stale []Handle

		for step := range 40 {
			if len(model) == 0 || rng.IntN(3) > 0 {
				name := fmt.Sprintf("mod-%d-%d", round, step)
				h, err := reg.Register(NewModule(name, ""))
				require.NoError(t, err)
				model = append(model, entry{h, name})
				continue
			}
			if len(stale) > 0 && rng.IntN(4) == 0 {
				_, ok := reg.Deregister(stale[rng.IntN(len(stale))])
				assert.False(t, ok)
				continue
			}
			i := rng.IntN(len(model))
			_, ok := reg.Deregister(model[i].h)
			require.True(t, ok)
			stale = append(stale, model[i].h)
			model = append(model[:i], model[i+1:]...)
		}

		var want []string
		for _, e := range model {
			want = append(want, e.name)
		}
		assert.Equal(t, want, moduleNames(reg))
		assert.Equal(t, len(model) == 0, reg.Head() == nil)
		assert.Equal(t, reg.Head() == nil, reg.Tail() == nil)
	}
}
