package interner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/interner"
)

func TestInternDeduplicates(t *testing.T) {
	tab := interner.NewTable()

	a := tab.Intern("self")
	b := tab.Intern("super")
	c := tab.Intern("self")

	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, "self", tab.Lookup(a))
	require.Equal(t, "super", tab.Lookup(b))
	require.Equal(t, 2, tab.Len())
}

func TestInternManyKeepsStability(t *testing.T) {
	tab := interner.NewTable()
	ids := make([]interner.ID, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, tab.Intern("field"))
	}
	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}
}
