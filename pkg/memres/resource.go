// Package memres defines the MemoryResource contract (§4.1) implemented by
// every allocator in this module. The containers and big_int types do not
// take a Resource; their memory comes from the Go runtime.
package memres

import "unsafe"

// FitMode selects which free block satisfies a request.
type FitMode int

const (
	// First picks the first free block whose size is >= the request.
	First FitMode = iota
	// Best picks the minimum-size free block >= the request, tie-broken by
	// first encountered.
	Best
	// Worst picks the maximum-size free block >= the request, tie-broken by
	// last encountered.
	Worst
)

func (m FitMode) String() string {
	switch m {
	case First:
		return "first"
	case Best:
		return "best"
	case Worst:
		return "worst"
	default:
		return "unknown"
	}
}

// ParseFitMode parses the recognized fit mode names from §6.
func ParseFitMode(s string) (FitMode, error) {
	switch s {
	case "FIRST", "first":
		return First, nil
	case "BEST", "best":
		return Best, nil
	case "WORST", "worst":
		return Worst, nil
	default:
		return 0, WithContext(ErrInvalidArgument, "unrecognized fit mode "+s)
	}
}

// BlockInfo describes a single block for introspection (§4.1 blocks_info).
type BlockInfo struct {
	Size     uintptr
	Occupied bool
}

// Resource is the MemoryResource contract: allocate/deallocate/is_equal.
// It is implemented by buddy, rbarena, sortedlist and Default.
type Resource interface {
	// Allocate returns a pointer to a block of at least n bytes. The in-arena
	// allocators return the address just past a packed block header, so the
	// pointer carries no alignment guarantee beyond one byte. It fails with
	// ErrOutOfMemory when no such block exists after any split attempts.
	Allocate(n uintptr) (unsafe.Pointer, error)

	// Deallocate returns a block previously returned by Allocate. nHint is
	// the size the caller believes the block to be; implementations that
	// can recover the true size ignore it. Fails with ErrForeignBlock if p
	// was not returned by this resource.
	Deallocate(p unsafe.Pointer, nHint uintptr) error

	// IsEqual reports whether other is the very same resource instance.
	IsEqual(other Resource) bool

	// BlocksInfo returns a snapshot of every block currently in the arena.
	BlocksInfo() []BlockInfo
}

// FitAware is implemented by the three in-arena allocators (buddy, rbarena,
// sortedlist), which support runtime fit-policy selection.
type FitAware interface {
	Resource
	SetFitMode(mode FitMode) error
}
