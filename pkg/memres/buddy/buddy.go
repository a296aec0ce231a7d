// Package buddy implements the power-of-two buddy-system allocator of §4.1.1:
// a single arena of size 2^k, split and coalesced in powers of two, searched
// under a pluggable fit policy.
package buddy

import (
	"math/bits"
	"sync"
	"unsafe"

	"gengardb/internal/logging"
	"gengardb/pkg/memres"
)

// tagOccupiedBit marks the top bit of a block's one-byte header; the
// remaining seven bits hold the block's size as a power-of-two exponent,
// matching the C++ original's `(occupied:1, size_k:7)` bit-field.
const tagOccupiedBit = byte(0x80)
const tagSizeMask = byte(0x7F)

// backPointerSize is the width of the region back-pointer every occupied
// block carries, used to detect foreign pointers on Deallocate.
const backPointerSize = int(unsafe.Sizeof(uintptr(0)))

// occupiedHeaderSize is the header an occupied block pays for: the tag byte
// plus the back-pointer.
const occupiedHeaderSize = 1 + backPointerSize

// Allocator is a buddy-system arena. It is move-only in spirit: copying the
// struct by value would alias the same backing arena from two independent
// mutexes, so treat values of this type as owned by a single *Allocator.
type Allocator struct {
	noCopy noCopy

	mu      sync.Mutex
	arena   []byte
	k       int // region size is 2^k
	kMin    int
	fitMode memres.FitMode
	log     logging.Sink
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Option configures an Allocator at construction.
type Option func(*Allocator)

// WithLogger attaches a logging sink. The default is logging.Nop.
func WithLogger(s logging.Sink) Option {
	return func(a *Allocator) { a.log = s }
}

// WithFitMode sets the initial fit mode. The default is memres.First.
func WithFitMode(m memres.FitMode) Option {
	return func(a *Allocator) { a.fitMode = m }
}

// New constructs a buddy allocator over a fresh arena of size 2^k. k must be
// large enough to hold one occupied block's header plus its back-pointer;
// smaller values are rejected with memres.ErrInvalidArgument.
func New(k int, opts ...Option) (*Allocator, error) {
	kMin := bits.Len(uint(occupiedHeaderSize - 1))
	if kMin == 0 {
		kMin = 1
	}
	if k < kMin {
		return nil, memres.WithContext(memres.ErrInvalidArgument, "region too small for buddy header")
	}

	a := &Allocator{
		arena:   make([]byte, 1<<uint(k)),
		k:       k,
		kMin:    kMin,
		fitMode: memres.First,
		log:     logging.Nop,
	}
	for _, opt := range opts {
		opt(a)
	}
	// The whole region starts as a single free block of size 2^k.
	a.setTag(0, false, k)
	return a, nil
}

func (a *Allocator) regionID() uintptr {
	return uintptr(unsafe.Pointer(&a.arena[0]))
}

func (a *Allocator) setTag(off int, occupied bool, sizeK int) {
	b := byte(sizeK) & tagSizeMask
	if occupied {
		b |= tagOccupiedBit
	}
	a.arena[off] = b
}

func (a *Allocator) readTag(off int) (occupied bool, sizeK int) {
	b := a.arena[off]
	return b&tagOccupiedBit != 0, int(b & tagSizeMask)
}

func (a *Allocator) writeBackPointer(off int) {
	id := a.regionID()
	for i := 0; i < backPointerSize; i++ {
		a.arena[off+1+i] = byte(id >> (8 * uint(i)))
	}
}

func (a *Allocator) readBackPointer(off int) uintptr {
	var id uintptr
	for i := 0; i < backPointerSize; i++ {
		id |= uintptr(a.arena[off+1+i]) << (8 * uint(i))
	}
	return id
}

// SetFitMode sets the block-selection policy used by future Allocate calls.
func (a *Allocator) SetFitMode(mode memres.FitMode) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch mode {
	case memres.First, memres.Best, memres.Worst:
		a.fitMode = mode
		return nil
	default:
		a.log.Log(logging.Error, "buddy: invalid fit mode")
		return memres.WithContext(memres.ErrInvalidArgument, "unknown fit mode")
	}
}

// candidate is one free block found while scanning the arena.
type candidate struct {
	off, sizeK int
}

// Allocate reserves a block of at least n bytes and returns a pointer into
// the arena past the occupied-block header.
func (a *Allocator) Allocate(n uintptr) (unsafe.Pointer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Log(logging.Trace, "buddy: allocate enter", "n", n)

	need := int(n) + occupiedHeaderSize
	needK := bits.Len(uint(need - 1))
	if needK < a.kMin {
		needK = a.kMin
	}
	if needK > a.k {
		a.log.Log(logging.Error, "buddy: out of memory", "n", n)
		return nil, memres.ErrOutOfMemory
	}

	chosen, ok := a.findFree(needK)
	if !ok {
		a.log.Log(logging.Error, "buddy: out of memory", "n", n)
		return nil, memres.ErrOutOfMemory
	}

	off, sizeK := chosen.off, chosen.sizeK
	for sizeK > needK && sizeK > a.kMin {
		sizeK--
		buddyOff := off ^ (1 << uint(sizeK))
		a.setTag(buddyOff, false, sizeK)
	}
	if sizeK != chosen.sizeK {
		a.log.Log(logging.Warning, "buddy: rounded block size on split", "requested", n)
	}

	a.setTag(off, true, sizeK)
	a.writeBackPointer(off)

	a.log.Log(logging.Information, "buddy: allocated", "free", a.availableMemoryLocked())
	return unsafe.Pointer(&a.arena[off+occupiedHeaderSize]), nil
}

// findFree scans the arena in address order and selects a free block whose
// size is >= 2^needK per the active fit policy.
func (a *Allocator) findFree(needK int) (candidate, bool) {
	var best candidate
	found := false

	off := 0
	for off < len(a.arena) {
		occupied, sizeK := a.readTag(off)
		blockSize := 1 << uint(sizeK)
		if !occupied && sizeK >= needK {
			switch a.fitMode {
			case memres.First:
				return candidate{off, sizeK}, true
			case memres.Best:
				if !found || sizeK < best.sizeK {
					best, found = candidate{off, sizeK}, true
				}
			case memres.Worst:
				if !found || sizeK >= best.sizeK {
					best, found = candidate{off, sizeK}, true
				}
			}
		}
		off += blockSize
	}
	return best, found
}

// Deallocate returns a block to the arena and coalesces it with its buddy
// for as long as the buddy is free and of equal size.
func (a *Allocator) Deallocate(p unsafe.Pointer, _ uintptr) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Log(logging.Trace, "buddy: deallocate enter")

	if len(a.arena) == 0 {
		return memres.ErrForeignBlock
	}
	base := uintptr(unsafe.Pointer(&a.arena[0]))
	ptr := uintptr(p)
	if ptr < base+uintptr(occupiedHeaderSize) || ptr >= base+uintptr(len(a.arena)) {
		a.log.Log(logging.Error, "buddy: foreign block")
		return memres.ErrForeignBlock
	}
	off := int(ptr-base) - occupiedHeaderSize

	occupied, sizeK := a.readTag(off)
	if !occupied || a.readBackPointer(off) != a.regionID() {
		a.log.Log(logging.Error, "buddy: foreign block")
		return memres.ErrForeignBlock
	}

	a.setTag(off, false, sizeK)

	for sizeK < a.k {
		buddyOff := off ^ (1 << uint(sizeK))
		bOccupied, bSizeK := a.readTag(buddyOff)
		if bOccupied || bSizeK != sizeK {
			break
		}
		if buddyOff < off {
			off = buddyOff
		}
		sizeK++
		a.setTag(off, false, sizeK)
	}

	a.log.Log(logging.Information, "buddy: deallocated", "free", a.availableMemoryLocked())
	return nil
}

// IsEqual reports whether other is this very allocator instance.
func (a *Allocator) IsEqual(other memres.Resource) bool {
	o, ok := other.(*Allocator)
	return ok && o == a
}

// BlocksInfo returns a snapshot of every block in address order.
func (a *Allocator) BlocksInfo() []memres.BlockInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blocksInfoLocked()
}

func (a *Allocator) blocksInfoLocked() []memres.BlockInfo {
	var out []memres.BlockInfo
	off := 0
	for off < len(a.arena) {
		occupied, sizeK := a.readTag(off)
		size := 1 << uint(sizeK)
		out = append(out, memres.BlockInfo{Size: uintptr(size), Occupied: occupied})
		off += size
	}
	return out
}

// AvailableMemory returns the total free bytes currently in the arena,
// matching the end-to-end scenario in §8 ("available_memory").
func (a *Allocator) AvailableMemory() uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.availableMemoryLocked()
}

func (a *Allocator) availableMemoryLocked() uintptr {
	var free uintptr
	for _, b := range a.blocksInfoLocked() {
		if !b.Occupied {
			free += b.Size
		}
	}
	return free
}

var _ memres.FitAware = (*Allocator)(nil)
