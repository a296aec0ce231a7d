// Package btree implements the in-memory B-tree of §4.3.5: a generic
// (K, V) tree of minimum degree t, where every non-root node holds between
// t-1 and 2t-1 keys, split on overflow and merged/borrowed on underflow
// per the classic CLRS algorithm.
package btree

import (
	"sort"

	"gengardb/internal/logging"
)

// Less reports whether a orders strictly before b.
type Less[K any] func(a, b K) bool

type node[K any, V any] struct {
	leaf     bool
	keys     []K
	vals     []V
	children []*node[K, V]
}

// Tree is an in-memory B-tree of minimum degree t (t >= 2): nodes hold
// [t-1, 2t-1] keys, except the root which may hold fewer.
type Tree[K any, V any] struct {
	root   *node[K, V]
	degree int
	less   Less[K]
	size   int
	log    logging.Sink
}

// Option configures a Tree at construction.
type Option[K any, V any] func(*Tree[K, V])

// WithLogger attaches a logging sink. The default is logging.Nop.
func WithLogger[K any, V any](s logging.Sink) Option[K, V] {
	return func(t *Tree[K, V]) { t.log = s }
}

// New constructs an empty B-tree of the given minimum degree.
func New[K any, V any](degree int, less Less[K], opts ...Option[K, V]) *Tree[K, V] {
	if degree < 2 {
		degree = 2
	}
	t := &Tree[K, V]{degree: degree, less: less, log: logging.Nop}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of keys stored.
func (t *Tree[K, V]) Len() int { return t.size }

func (t *Tree[K, V]) maxKeys() int { return 2*t.degree - 1 }

// search returns the index of the first key in n not less than key, and
// whether that key is an exact match.
func (t *Tree[K, V]) search(n *node[K, V], key K) (int, bool) {
	i := sort.Search(len(n.keys), func(i int) bool { return !t.less(n.keys[i], key) })
	if i < len(n.keys) && !t.less(key, n.keys[i]) {
		return i, true
	}
	return i, false
}

// Get returns the value stored at key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	n := t.root
	for n != nil {
		i, found := t.search(n, key)
		if found {
			return n.vals[i], true
		}
		if n.leaf {
			break
		}
		n = n.children[i]
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Insert adds key/value, or overwrites the value if key is already
// present. Reports whether a new key was created.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	if t.root == nil {
		t.root = &node[K, V]{leaf: true}
	}
	if len(t.root.keys) == t.maxKeys() {
		newRoot := &node[K, V]{leaf: false, children: []*node[K, V]{t.root}}
		t.splitChild(newRoot, 0)
		t.root = newRoot
	}
	created := t.insertNonFull(t.root, key, value)
	if created {
		t.size++
		t.log.Log(logging.Trace, "btree: inserted", "size", t.size)
	}
	return created
}

func (t *Tree[K, V]) insertNonFull(n *node[K, V], key K, value V) bool {
	i, found := t.search(n, key)
	if found {
		n.vals[i] = value
		return false
	}
	if n.leaf {
		n.keys = insertAt(n.keys, i, key)
		n.vals = insertAt(n.vals, i, value)
		return true
	}
	if len(n.children[i].keys) == t.maxKeys() {
		t.splitChild(n, i)
		if t.less(n.keys[i], key) {
			i++
		}
	}
	return t.insertNonFull(n.children[i], key, value)
}

// splitChild splits the full child at index i of x into two nodes around
// its median key, which moves up into x.
func (t *Tree[K, V]) splitChild(x *node[K, V], i int) {
	y := x.children[i]
	mid := t.degree - 1

	z := &node[K, V]{leaf: y.leaf}
	z.keys = append(z.keys, y.keys[mid+1:]...)
	z.vals = append(z.vals, y.vals[mid+1:]...)
	if !y.leaf {
		z.children = append(z.children, y.children[mid+1:]...)
		y.children = y.children[:mid+1]
	}
	upKey, upVal := y.keys[mid], y.vals[mid]
	y.keys = y.keys[:mid]
	y.vals = y.vals[:mid]

	x.children = insertAt(x.children, i+1, z)
	x.keys = insertAt(x.keys, i, upKey)
	x.vals = insertAt(x.vals, i, upVal)
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) []T {
	copy(s[i:], s[i+1:])
	return s[:len(s)-1]
}

// Erase removes key if present, reporting whether it was found.
func (t *Tree[K, V]) Erase(key K) bool {
	if t.root == nil {
		return false
	}
	removed := t.delete(t.root, key)
	if removed {
		t.size--
		t.log.Log(logging.Trace, "btree: erased", "size", t.size)
	}
	if len(t.root.keys) == 0 {
		if !t.root.leaf {
			t.root = t.root.children[0]
		} else {
			t.root = nil
		}
	}
	return removed
}

func (t *Tree[K, V]) delete(n *node[K, V], key K) bool {
	i, found := t.search(n, key)

	if n.leaf {
		if !found {
			return false
		}
		n.keys = removeAt(n.keys, i)
		n.vals = removeAt(n.vals, i)
		return true
	}

	if found {
		t.deleteFromInternal(n, i)
		return true
	}

	if len(n.children[i].keys) < t.degree {
		i = t.fill(n, i)
	}
	return t.delete(n.children[i], key)
}

func (t *Tree[K, V]) deleteFromInternal(n *node[K, V], i int) {
	if len(n.children[i].keys) >= t.degree {
		predKey, predVal := t.maxOf(n.children[i])
		n.keys[i], n.vals[i] = predKey, predVal
		t.delete(n.children[i], predKey)
		return
	}
	if len(n.children[i+1].keys) >= t.degree {
		succKey, succVal := t.minOf(n.children[i+1])
		n.keys[i], n.vals[i] = succKey, succVal
		t.delete(n.children[i+1], succKey)
		return
	}
	key := n.keys[i]
	t.merge(n, i)
	t.delete(n.children[i], key)
}

func (t *Tree[K, V]) maxOf(n *node[K, V]) (K, V) {
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	return n.keys[len(n.keys)-1], n.vals[len(n.vals)-1]
}

func (t *Tree[K, V]) minOf(n *node[K, V]) (K, V) {
	for !n.leaf {
		n = n.children[0]
	}
	return n.keys[0], n.vals[0]
}

// fill ensures the child at index i has at least degree keys before the
// caller descends into it, borrowing from a sibling or merging as needed.
// Returns the (possibly shifted) index to descend into.
func (t *Tree[K, V]) fill(n *node[K, V], i int) int {
	switch {
	case i > 0 && len(n.children[i-1].keys) >= t.degree:
		t.borrowFromPrev(n, i)
	case i < len(n.children)-1 && len(n.children[i+1].keys) >= t.degree:
		t.borrowFromNext(n, i)
	case i < len(n.children)-1:
		t.merge(n, i)
	default:
		i--
		t.merge(n, i)
	}
	return i
}

func (t *Tree[K, V]) borrowFromPrev(n *node[K, V], i int) {
	child := n.children[i]
	sibling := n.children[i-1]

	child.keys = insertAt(child.keys, 0, n.keys[i-1])
	child.vals = insertAt(child.vals, 0, n.vals[i-1])
	if !child.leaf {
		lastChild := sibling.children[len(sibling.children)-1]
		child.children = insertAt(child.children, 0, lastChild)
		sibling.children = sibling.children[:len(sibling.children)-1]
	}

	n.keys[i-1] = sibling.keys[len(sibling.keys)-1]
	n.vals[i-1] = sibling.vals[len(sibling.vals)-1]
	sibling.keys = sibling.keys[:len(sibling.keys)-1]
	sibling.vals = sibling.vals[:len(sibling.vals)-1]
}

func (t *Tree[K, V]) borrowFromNext(n *node[K, V], i int) {
	child := n.children[i]
	sibling := n.children[i+1]

	child.keys = append(child.keys, n.keys[i])
	child.vals = append(child.vals, n.vals[i])
	if !child.leaf {
		child.children = append(child.children, sibling.children[0])
		sibling.children = removeAt(sibling.children, 0)
	}

	n.keys[i] = sibling.keys[0]
	n.vals[i] = sibling.vals[0]
	sibling.keys = removeAt(sibling.keys, 0)
	sibling.vals = removeAt(sibling.vals, 0)
}

// merge folds n.children[i+1] and the separator key n.keys[i] into
// n.children[i], removing both from n.
func (t *Tree[K, V]) merge(n *node[K, V], i int) {
	left := n.children[i]
	right := n.children[i+1]

	left.keys = append(left.keys, n.keys[i])
	left.vals = append(left.vals, n.vals[i])
	left.keys = append(left.keys, right.keys...)
	left.vals = append(left.vals, right.vals...)
	if !left.leaf {
		left.children = append(left.children, right.children...)
	}

	n.keys = removeAt(n.keys, i)
	n.vals = removeAt(n.vals, i)
	n.children = removeAt(n.children, i+1)
}
