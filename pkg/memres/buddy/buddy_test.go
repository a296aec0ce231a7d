package buddy

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"gengardb/pkg/memres"
)

func TestBuddy_AllocateDeallocate_RestoresAvailable(t *testing.T) {
	a, err := New(20, WithFitMode(memres.First))
	require.NoError(t, err)

	initial := a.AvailableMemory()

	p1, err := a.Allocate(128)
	require.NoError(t, err)
	p2, err := a.Allocate(256)
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)

	require.NoError(t, a.Deallocate(p1, 128))
	require.NoError(t, a.Deallocate(p2, 256))

	require.Equal(t, initial, a.AvailableMemory())
}

func TestBuddy_ForeignBlock(t *testing.T) {
	a, err := New(16)
	require.NoError(t, err)

	var x byte
	err = a.Deallocate(unsafe.Pointer(&x), 1)
	require.ErrorIs(t, err, memres.ErrForeignBlock)
}

func TestBuddy_OutOfMemory(t *testing.T) {
	a, err := New(10)
	require.NoError(t, err)

	_, err = a.Allocate(1 << 20)
	require.ErrorIs(t, err, memres.ErrOutOfMemory)
}

func TestBuddy_BuddyOfBuddyIsSelf(t *testing.T) {
	a, err := New(12)
	require.NoError(t, err)

	p1, err := a.Allocate(8)
	require.NoError(t, err)
	p2, err := a.Allocate(8)
	require.NoError(t, err)

	base := uintptr(unsafe.Pointer(&a.arena[0]))
	off1 := int(uintptr(p1)-base) - occupiedHeaderSize
	off2 := int(uintptr(p2)-base) - occupiedHeaderSize
	_, size1 := a.readTag(off1)
	buddy1 := off1 ^ (1 << uint(size1))
	require.Equal(t, off2, buddy1)
	require.Equal(t, off1, buddy1^(1<<uint(size1)))
}

func TestBuddy_WorstFitPicksLargestRemainingBlock(t *testing.T) {
	a, err := New(12, WithFitMode(memres.Worst))
	require.NoError(t, err)

	blocksBefore := func() []memres.BlockInfo { return a.BlocksInfo() }
	_ = blocksBefore

	p, err := a.Allocate(16)
	require.NoError(t, err)
	require.NotNil(t, p)

	// The first split leaves free blocks of 32, 64, ..., 2048 bytes; worst
	// fit takes the 2048-byte block at offset 2048, not the 32-byte buddy at
	// offset 32 that first fit would take.
	p2, err := a.Allocate(16)
	require.NoError(t, err)
	base := uintptr(unsafe.Pointer(&a.arena[0]))
	off2 := int(uintptr(p2)-base) - occupiedHeaderSize
	require.Equal(t, 2048, off2)
}

func TestBuddy_SetFitMode_Invalid(t *testing.T) {
	a, err := New(12)
	require.NoError(t, err)
	require.ErrorIs(t, a.SetFitMode(memres.FitMode(99)), memres.ErrInvalidArgument)
}
