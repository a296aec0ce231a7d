// Package sortedlist implements the address-sorted singly linked free list
// allocator of §4.1.3: a linear scan per fit policy, splitting by address on
// allocation and coalescing immediately with either neighbor on free.
package sortedlist

import (
	"sync"
	"unsafe"

	"gengardb/internal/logging"
	"gengardb/pkg/memres"
)

const (
	// headerSize is the per-block header: occupied flag + size + next-free
	// pointer (the next field is only meaningful while the block is free).
	headerSize   = 1 + 8 + 8
	minBlockSize = headerSize + 1
	nilOff       = int64(-1)
)

// Allocator is the sorted-free-list arena. Treat values of this type as
// owned by a single *Allocator.
type Allocator struct {
	noCopy noCopy

	mu      sync.Mutex
	arena   []byte
	head    int64 // first free block, nilOff if none
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

// New constructs a sorted-list allocator over a fresh arena of the given size.
func New(size int, opts ...Option) (*Allocator, error) {
	if size < minBlockSize {
		return nil, memres.WithContext(memres.ErrInvalidArgument, "region too small for sortedlist header")
	}
	a := &Allocator{
		arena:   make([]byte, size),
		fitMode: memres.First,
		log:     logging.Nop,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.setOccupied(0, false)
	a.setSize(0, int64(size)-headerSize)
	a.setNext(0, nilOff)
	a.head = 0
	return a, nil
}

func (a *Allocator) regionID() uintptr {
	return uintptr(unsafe.Pointer(&a.arena[0]))
}

func (a *Allocator) occupied(off int64) bool { return a.arena[off] != 0 }
func (a *Allocator) setOccupied(off int64, v bool) {
	if v {
		a.arena[off] = 1
	} else {
		a.arena[off] = 0
	}
}

func (a *Allocator) writeInt64(at int64, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		a.arena[at+int64(i)] = byte(u >> (8 * uint(i)))
	}
}

func (a *Allocator) readInt64(at int64) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u |= uint64(a.arena[at+int64(i)]) << (8 * uint(i))
	}
	return int64(u)
}

func (a *Allocator) size(off int64) int64    { return a.readInt64(off + 1) }
func (a *Allocator) setSize(off, v int64)    { a.writeInt64(off+1, v) }
func (a *Allocator) next(off int64) int64    { return a.readInt64(off + 9) }
func (a *Allocator) setNext(off, v int64)    { a.writeInt64(off+9, v) }

// SetFitMode sets the block-selection policy used by future Allocate calls.
func (a *Allocator) SetFitMode(mode memres.FitMode) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch mode {
	case memres.First, memres.Best, memres.Worst:
		a.fitMode = mode
		return nil
	default:
		a.log.Log(logging.Error, "sortedlist: invalid fit mode")
		return memres.WithContext(memres.ErrInvalidArgument, "unknown fit mode")
	}
}

// Allocate reserves a block of at least n bytes.
func (a *Allocator) Allocate(n uintptr) (unsafe.Pointer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Log(logging.Trace, "sortedlist: allocate enter", "n", n)

	need := int64(n)
	if need == 0 {
		need = 1
	}

	prev, cur, ok := a.findFree(need)
	if !ok {
		a.log.Log(logging.Error, "sortedlist: out of memory", "n", n)
		return nil, memres.ErrOutOfMemory
	}

	blockSize := a.size(cur)
	following := a.next(cur)

	if blockSize-need >= minBlockSize {
		tail := cur + headerSize + need
		a.setOccupied(tail, false)
		a.setSize(tail, blockSize-need-headerSize)
		a.setNext(tail, following)
		following = tail
		a.setSize(cur, need)
		a.log.Log(logging.Warning, "sortedlist: carved free remainder", "size", blockSize-need-headerSize)
	}

	if prev == nilOff {
		a.head = following
	} else {
		a.setNext(prev, following)
	}

	a.setOccupied(cur, true)

	a.log.Log(logging.Information, "sortedlist: allocated", "free", a.availableMemoryLocked())
	return unsafe.Pointer(&a.arena[cur+headerSize]), nil
}

// findFree scans the free list under the active fit policy, returning the
// chosen node along with its list predecessor (nilOff if it is the head).
func (a *Allocator) findFree(need int64) (prev, chosen int64, ok bool) {
	prev, chosen = nilOff, nilOff

	var bestPrev, best int64 = nilOff, nilOff
	p := nilOff
	cur := a.head
	for cur != nilOff {
		sz := a.size(cur)
		if sz >= need {
			switch a.fitMode {
			case memres.First:
				return p, cur, true
			case memres.Best:
				if best == nilOff || sz < a.size(best) {
					bestPrev, best = p, cur
				}
			case memres.Worst:
				if best == nilOff || sz >= a.size(best) {
					bestPrev, best = p, cur
				}
			}
		}
		p = cur
		cur = a.next(cur)
	}
	if best == nilOff {
		return nilOff, nilOff, false
	}
	return bestPrev, best, true
}

// Deallocate returns a block to the free list in address order, merging it
// with either neighbor immediately if that neighbor is also free.
func (a *Allocator) Deallocate(p unsafe.Pointer, _ uintptr) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Log(logging.Trace, "sortedlist: deallocate enter")

	if len(a.arena) == 0 {
		return memres.ErrForeignBlock
	}
	base := uintptr(unsafe.Pointer(&a.arena[0]))
	ptr := uintptr(p)
	if ptr < base+headerSize || ptr >= base+uintptr(len(a.arena)) {
		a.log.Log(logging.Error, "sortedlist: foreign block")
		return memres.ErrForeignBlock
	}
	off := int64(ptr-base) - headerSize
	if !a.occupied(off) {
		a.log.Log(logging.Error, "sortedlist: foreign block")
		return memres.ErrForeignBlock
	}

	prev, next := nilOff, a.head
	for next != nilOff && next < off {
		prev = next
		next = a.next(next)
	}

	mergedOff := off
	mergedSize := a.size(off)

	if next != nilOff && mergedOff+headerSize+mergedSize == next {
		mergedSize += headerSize + a.size(next)
		next = a.next(next)
	}

	if prev != nilOff && prev+headerSize+a.size(prev) == mergedOff {
		a.setSize(prev, a.size(prev)+headerSize+mergedSize)
		a.setNext(prev, next)
	} else {
		a.setOccupied(mergedOff, false)
		a.setSize(mergedOff, mergedSize)
		a.setNext(mergedOff, next)
		if prev == nilOff {
			a.head = mergedOff
		} else {
			a.setNext(prev, mergedOff)
		}
	}

	a.log.Log(logging.Information, "sortedlist: deallocated", "free", a.availableMemoryLocked())
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
	off := int64(0)
	for off < int64(len(a.arena)) {
		out = append(out, memres.BlockInfo{Size: uintptr(a.size(off)), Occupied: a.occupied(off)})
		off += headerSize + a.size(off)
	}
	return out
}

// AvailableMemory returns the total free bytes currently in the arena.
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
