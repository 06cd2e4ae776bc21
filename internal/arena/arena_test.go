package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/arena"
)

func TestPoolStablePointers(t *testing.T) {
	p := arena.NewPool[int]()
	var ptrs []*int
	for i := 0; i < 1000; i++ {
		v := p.New()
		*v = i
		ptrs = append(ptrs, v)
	}
	for i, v := range ptrs {
		require.Equal(t, i, *v)
	}
	require.Equal(t, 1000, p.Len())
}

func TestPoolRelease(t *testing.T) {
	p := arena.NewPool[struct{ X int }]()
	p.New()
	p.New()
	require.Equal(t, 2, p.Len())
	p.Release()
	require.Equal(t, 0, p.Len())
}
