package memres

import (
	"sync"
	"unsafe"
)

// systemDefault wraps Go's runtime allocator behind the Resource contract.
// It is the "process-wide default" resource named in §6. The in-arena
// allocators take no parent resource and do not draw on it.
type systemDefault struct {
	mu    sync.Mutex
	owned map[unsafe.Pointer][]byte
}

// Default is the single process-wide system resource instance; it is
// IsEqual only to itself.
var Default Resource = &systemDefault{owned: make(map[unsafe.Pointer][]byte)}

func (d *systemDefault) Allocate(n uintptr) (unsafe.Pointer, error) {
	if n == 0 {
		n = 1
	}
	buf := make([]byte, n)
	p := unsafe.Pointer(&buf[0])

	d.mu.Lock()
	d.owned[p] = buf
	d.mu.Unlock()

	return p, nil
}

func (d *systemDefault) Deallocate(p unsafe.Pointer, _ uintptr) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.owned[p]; !ok {
		return ErrForeignBlock
	}
	delete(d.owned, p)
	return nil
}

func (d *systemDefault) IsEqual(other Resource) bool {
	o, ok := other.(*systemDefault)
	return ok && o == d
}

func (d *systemDefault) BlocksInfo() []BlockInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]BlockInfo, 0, len(d.owned))
	for _, buf := range d.owned {
		out = append(out, BlockInfo{Size: uintptr(len(buf)), Occupied: true})
	}
	return out
}
