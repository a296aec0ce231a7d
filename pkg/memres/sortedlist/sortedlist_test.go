package sortedlist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gengardb/pkg/memres"
)

func TestSortedList_AllocateDeallocate_RestoresAvailable(t *testing.T) {
	a, err := New(2048)
	require.NoError(t, err)
	initial := a.AvailableMemory()

	p1, err := a.Allocate(64)
	require.NoError(t, err)
	p2, err := a.Allocate(128)
	require.NoError(t, err)
	p3, err := a.Allocate(32)
	require.NoError(t, err)

	require.NoError(t, a.Deallocate(p2, 128))
	require.NoError(t, a.Deallocate(p1, 64))
	require.NoError(t, a.Deallocate(p3, 32))

	require.Equal(t, initial, a.AvailableMemory())
}

func TestSortedList_NoAdjacentFreeBlocks(t *testing.T) {
	a, err := New(2048)
	require.NoError(t, err)

	p1, err := a.Allocate(64)
	require.NoError(t, err)
	p2, err := a.Allocate(64)
	require.NoError(t, err)
	_, err = a.Allocate(64)
	require.NoError(t, err)

	require.NoError(t, a.Deallocate(p1, 64))
	require.NoError(t, a.Deallocate(p2, 64))

	info := a.BlocksInfo()
	for i := 0; i+1 < len(info); i++ {
		if !info[i].Occupied {
			require.True(t, info[i+1].Occupied, "adjacent free blocks at %d,%d", i, i+1)
		}
	}
}

func TestSortedList_ForeignBlock(t *testing.T) {
	a, err := New(1024)
	require.NoError(t, err)
	b, err := New(1024)
	require.NoError(t, err)
	p, err := b.Allocate(16)
	require.NoError(t, err)
	require.ErrorIs(t, a.Deallocate(p, 16), memres.ErrForeignBlock)
}

func TestSortedList_OutOfMemory(t *testing.T) {
	a, err := New(128)
	require.NoError(t, err)
	_, err = a.Allocate(1000)
	require.ErrorIs(t, err, memres.ErrOutOfMemory)
}

func TestSortedList_FitModes(t *testing.T) {
	for _, mode := range []memres.FitMode{memres.First, memres.Best, memres.Worst} {
		a, err := New(4096, WithFitMode(mode))
		require.NoError(t, err)
		p, err := a.Allocate(100)
		require.NoError(t, err)
		require.NoError(t, a.Deallocate(p, 100))
	}
}
