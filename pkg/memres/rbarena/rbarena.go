// Package rbarena implements the red-black allocator of §4.1.2: free blocks
// are indexed by size in an intrusive red-black tree, and an address-ordered
// doubly linked list threads every block (free or occupied) for coalescing.
package rbarena

import (
	"sync"
	"unsafe"

	"gengardb/internal/logging"
	"gengardb/pkg/memres"
)

const (
	// headerSize is the per-block header every block (free or occupied)
	// pays: tag byte + back offset + forward offset + parent-or-region.
	headerSize = 1 + 8 + 8 + 8
	// minFreePayload is the extra room a free block reserves for its
	// left/right child offsets in the size tree; those overlap what would
	// otherwise be user payload, exactly as the C++ free_block_metadata
	// overlays block_metadata's unused tail.
	minFreePayload = 8 + 8
	// minFreeBlockSize is the smallest block that can exist as a free-list
	// member, used as the "minimum_free" threshold when deciding whether to
	// carve off a remainder during allocation.
	minFreeBlockSize = headerSize + minFreePayload

	nilOff = int64(-1)

	tagOccupiedBit = byte(0x80)
	tagColorBit    = byte(0x40)
)

type color byte

const (
	red   color = 0
	black color = 1
)

// Allocator is the red-black free-list allocator. Treat values of this type
// as owned by a single *Allocator; copying would alias the same arena from
// two independent mutexes.
type Allocator struct {
	noCopy noCopy

	mu      sync.Mutex
	arena   []byte
	root    int64 // offset of the free-size tree root, nilOff if empty
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

// New constructs a red-black allocator over a fresh arena of the given size.
func New(size int, opts ...Option) (*Allocator, error) {
	if size < minFreeBlockSize {
		return nil, memres.WithContext(memres.ErrInvalidArgument, "region too small for rbarena header")
	}
	a := &Allocator{
		arena:   make([]byte, size),
		root:    nilOff,
		fitMode: memres.First,
		log:     logging.Nop,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.initBlock(0)
	a.setOccupied(0, false)
	a.setBack(0, nilOff)
	a.setForward(0, nilOff)
	a.treeInsert(0)
	return a, nil
}

func (a *Allocator) regionID() uintptr {
	return uintptr(unsafe.Pointer(&a.arena[0]))
}

// --- raw field access -------------------------------------------------

func (a *Allocator) initBlock(off int64) {
	a.arena[off] = 0
}

func (a *Allocator) occupied(off int64) bool {
	return a.arena[off]&tagOccupiedBit != 0
}

func (a *Allocator) setOccupied(off int64, v bool) {
	if v {
		a.arena[off] |= tagOccupiedBit
	} else {
		a.arena[off] &^= tagOccupiedBit
	}
}

func (a *Allocator) getColor(off int64) color {
	if off == nilOff {
		return black
	}
	if a.arena[off]&tagColorBit != 0 {
		return black
	}
	return red
}

func (a *Allocator) setColor(off int64, c color) {
	if c == black {
		a.arena[off] |= tagColorBit
	} else {
		a.arena[off] &^= tagColorBit
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

func (a *Allocator) back(off int64) int64       { return a.readInt64(off + 1) }
func (a *Allocator) setBack(off, v int64)        { a.writeInt64(off+1, v) }
func (a *Allocator) forward(off int64) int64    { return a.readInt64(off + 9) }
func (a *Allocator) setForward(off, v int64)     { a.writeInt64(off+9, v) }
func (a *Allocator) parentOrRegion(off int64) int64 {
	return a.readInt64(off + 17)
}
func (a *Allocator) setParentOrRegion(off, v int64) { a.writeInt64(off+17, v) }

// left/right overlay the start of a free block's payload; only valid while
// the block is free and linked into the size tree.
func (a *Allocator) left(off int64) int64  { return a.readInt64(off + headerSize) }
func (a *Allocator) setLeft(off, v int64)  { a.writeInt64(off+headerSize, v) }
func (a *Allocator) right(off int64) int64 { return a.readInt64(off + headerSize + 8) }
func (a *Allocator) setRight(off, v int64) { a.writeInt64(off+headerSize+8, v) }

// size returns the usable payload size of the block at off, derived from the
// address-order list exactly as the C++ get_size() does.
func (a *Allocator) size(off int64) int64 {
	if fwd := a.forward(off); fwd != nilOff {
		return fwd - off - headerSize
	}
	return int64(len(a.arena)) - off - headerSize
}

// --- allocate / deallocate ---------------------------------------------

// SetFitMode sets the block-selection policy used by future Allocate calls.
func (a *Allocator) SetFitMode(mode memres.FitMode) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch mode {
	case memres.First, memres.Best, memres.Worst:
		a.fitMode = mode
		return nil
	default:
		a.log.Log(logging.Error, "rbarena: invalid fit mode")
		return memres.WithContext(memres.ErrInvalidArgument, "unknown fit mode")
	}
}

// Allocate reserves a block of at least n bytes.
func (a *Allocator) Allocate(n uintptr) (unsafe.Pointer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Log(logging.Trace, "rbarena: allocate enter", "n", n)

	need := int64(n)
	if need == 0 {
		need = 1
	}

	block, ok := a.findFree(need)
	if !ok {
		a.log.Log(logging.Error, "rbarena: out of memory", "n", n)
		return nil, memres.ErrOutOfMemory
	}
	a.treeRemove(block)

	remaining := a.size(block) - need
	if remaining >= headerSize+minFreePayload {
		tailOff := block + headerSize + need
		a.initBlock(tailOff)
		succ := a.forward(block)
		a.setBack(tailOff, block)
		a.setForward(tailOff, succ)
		if succ != nilOff {
			a.setBack(succ, tailOff)
		}
		a.setForward(block, tailOff)
		a.setOccupied(tailOff, false)
		a.treeInsert(tailOff)
		a.log.Log(logging.Warning, "rbarena: carved free remainder", "size", remaining)
	}

	a.setOccupied(block, true)
	a.setParentOrRegion(block, int64(a.regionID()))

	a.log.Log(logging.Information, "rbarena: allocated", "free", a.availableMemoryLocked())
	return unsafe.Pointer(&a.arena[block+headerSize]), nil
}

func (a *Allocator) findFree(need int64) (int64, bool) {
	off := a.root
	if off == nilOff {
		return 0, false
	}
	switch a.fitMode {
	case memres.Best:
		var best int64 = nilOff
		for off != nilOff {
			sz := a.size(off)
			if sz >= need {
				best = off
				off = a.left(off)
			} else {
				off = a.right(off)
			}
		}
		return best, best != nilOff
	case memres.Worst:
		// Descend the right spine as far as size >= need, matching §4.1.2.
		var best int64 = nilOff
		off = a.root
		for off != nilOff {
			if a.size(off) >= need {
				best = off
			}
			off = a.right(off)
		}
		return best, best != nilOff
	default: // First
		var best int64 = nilOff
		var stack []int64
		cur := a.root
		for cur != nilOff || len(stack) > 0 {
			for cur != nilOff {
				stack = append(stack, cur)
				cur = a.left(cur)
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if a.size(cur) >= need {
				best = cur
				break
			}
			cur = a.right(cur)
		}
		return best, best != nilOff
	}
}

// Deallocate returns a block to the free list, coalescing it with its
// address-order neighbors when they are also free.
func (a *Allocator) Deallocate(p unsafe.Pointer, _ uintptr) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Log(logging.Trace, "rbarena: deallocate enter")

	if len(a.arena) == 0 {
		return memres.ErrForeignBlock
	}
	base := uintptr(unsafe.Pointer(&a.arena[0]))
	ptr := uintptr(p)
	if ptr < base+headerSize || ptr >= base+uintptr(len(a.arena)) {
		a.log.Log(logging.Error, "rbarena: foreign block")
		return memres.ErrForeignBlock
	}
	off := int64(ptr-base) - headerSize

	if !a.occupied(off) || uintptr(a.parentOrRegion(off)) != a.regionID() {
		a.log.Log(logging.Error, "rbarena: foreign block")
		return memres.ErrForeignBlock
	}

	work := off

	if pred := a.back(work); pred != nilOff && !a.occupied(pred) {
		a.treeRemove(pred)
		a.setForward(pred, a.forward(work))
		if succ := a.forward(work); succ != nilOff {
			a.setBack(succ, pred)
		}
		work = pred
	}

	if succ := a.forward(work); succ != nilOff && !a.occupied(succ) {
		a.treeRemove(succ)
		a.setForward(work, a.forward(succ))
		if next := a.forward(succ); next != nilOff {
			a.setBack(next, work)
		}
	}

	a.setOccupied(work, false)
	a.treeInsert(work)

	a.log.Log(logging.Information, "rbarena: deallocated", "free", a.availableMemoryLocked())
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
	for {
		out = append(out, memres.BlockInfo{
			Size:     uintptr(a.size(off)),
			Occupied: a.occupied(off),
		})
		fwd := a.forward(off)
		if fwd == nilOff {
			break
		}
		off = fwd
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
