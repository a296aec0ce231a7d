package rbarena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"gengardb/pkg/memres"
)

func TestRBArena_AllocateDeallocate_RestoresAvailable(t *testing.T) {
	a, err := New(4096, WithFitMode(memres.First))
	require.NoError(t, err)

	initial := a.AvailableMemory()

	p1, err := a.Allocate(64)
	require.NoError(t, err)
	p2, err := a.Allocate(128)
	require.NoError(t, err)

	require.NoError(t, a.Deallocate(p1, 64))
	require.NoError(t, a.Deallocate(p2, 128))

	require.Equal(t, initial, a.AvailableMemory())
}

func TestRBArena_WorstFit_CarvesFromLargestTail(t *testing.T) {
	// §8 scenario 3: region 4096, sizes [512,256,1024] worst-fit, free the
	// middle one, then request 128: it must come from the original tail,
	// not from the freed 256 hole.
	a, err := New(4096, WithFitMode(memres.Worst))
	require.NoError(t, err)

	_, err = a.Allocate(512)
	require.NoError(t, err)
	p2, err := a.Allocate(256)
	require.NoError(t, err)
	_, err = a.Allocate(1024)
	require.NoError(t, err)

	holeOff := int64(uintptr(p2)) - headerSize
	require.NoError(t, a.Deallocate(p2, 256))

	p4, err := a.Allocate(128)
	require.NoError(t, err)
	newOff := int64(uintptr(p4)) - headerSize

	require.NotEqual(t, holeOff, newOff)
}

func TestRBArena_ForeignBlock(t *testing.T) {
	a, err := New(4096)
	require.NoError(t, err)

	b, err := New(4096)
	require.NoError(t, err)
	p, err := b.Allocate(16)
	require.NoError(t, err)

	require.ErrorIs(t, a.Deallocate(p, 16), memres.ErrForeignBlock)
}

func TestRBArena_OutOfMemory(t *testing.T) {
	a, err := New(256)
	require.NoError(t, err)
	_, err = a.Allocate(10000)
	require.ErrorIs(t, err, memres.ErrOutOfMemory)
}

func TestRBArena_InvariantAfterManyOps(t *testing.T) {
	a, err := New(16384)
	require.NoError(t, err)

	var live []unsafe.Pointer
	for i := 0; i < 30; i++ {
		p, err := a.Allocate(uintptr(16 + i%5*8))
		require.NoError(t, err)
		live = append(live, p)
	}
	for i := 0; i < len(live); i += 2 {
		require.NoError(t, a.Deallocate(live[i], 0))
	}

	info := a.BlocksInfo()
	var total int64
	for _, b := range info {
		total += int64(b.Size)
	}
	require.Equal(t, int64(16384)-int64(len(info))*headerSize, total)
}
