package diskbtree

import "iter"

// Bound marks one end of a RangeSeq scan. The zero value is Unbounded.
type Bound[K any] struct {
	value     K
	present   bool
	inclusive bool
}

// Inclusive bounds a range at v, including v itself.
func Inclusive[K any](v K) Bound[K] { return Bound[K]{value: v, present: true, inclusive: true} }

// Exclusive bounds a range at v, excluding v itself.
func Exclusive[K any](v K) Bound[K] { return Bound[K]{value: v, present: true, inclusive: false} }

// Unbounded places no limit on this end of the range.
func Unbounded[K any]() Bound[K] { return Bound[K]{} }

func (b Bound[K]) belowStart(less Less[K], k K) bool {
	if !b.present {
		return false
	}
	if b.inclusive {
		return less(k, b.value)
	}
	return less(k, b.value) || !less(b.value, k)
}

func (b Bound[K]) pastEnd(less Less[K], k K) bool {
	if !b.present {
		return false
	}
	if b.inclusive {
		return less(b.value, k)
	}
	return !less(k, b.value)
}

// RangeSeq walks the keys between lo and hi (each end inclusive, exclusive
// or unbounded, as built) forward through the leaf chain. Unlike the
// in-memory container.Tree, this scan is forward-only: leaves are linked in
// a singly-threaded chain, so there is no way to walk backward without
// re-descending from the root.
func (t *Tree[K, V]) RangeSeq(lo, hi Bound[K]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		id, err := t.findLeafFor(lo)
		if err != nil {
			return
		}
		for id != nilPage {
			n, err := t.readNode(id)
			if err != nil {
				return
			}
			for i, k := range n.keys {
				if lo.belowStart(t.less, k) {
					continue
				}
				if hi.pastEnd(t.less, k) {
					return
				}
				raw, err := t.data.Get(n.rids[i])
				if err != nil {
					return
				}
				if !yield(k, t.codec.DecodeValue(raw)) {
					return
				}
			}
			id = n.next
		}
	}
}

// findLeafFor descends to the leftmost leaf that could hold lo (or the
// tree's first leaf if lo is unbounded).
func (t *Tree[K, V]) findLeafFor(lo Bound[K]) (int64, error) {
	id := t.root
	for {
		n, err := t.readNode(id)
		if err != nil {
			return nilPage, err
		}
		if n.leaf {
			return id, nil
		}
		if !lo.present {
			id = n.children[0]
			continue
		}
		i, found := t.search(n.keys, lo.value)
		if found {
			id = n.children[i+1]
		} else {
			id = n.children[i]
		}
	}
}

// Delete removes key if present. Unlike the in-memory B-tree, this does not
// rebalance via borrow/merge: an underflowed node is simply left sparse.
// Leaves remain correctly linked and searchable either way, at the cost of
// not reclaiming the resulting slack until the tree is rebuilt.
func (t *Tree[K, V]) Delete(key K) (bool, error) {
	id := t.root
	for {
		n, err := t.readNode(id)
		if err != nil {
			return false, err
		}
		i, found := t.search(n.keys, key)
		if n.leaf {
			if !found {
				return false, nil
			}
			rid := n.rids[i]
			n.keys = removeAt(n.keys, i)
			n.rids = removeAt(n.rids, i)
			if err := t.writeNode(id, n); err != nil {
				return false, err
			}
			if err := t.data.Delete(rid); err != nil {
				return false, err
			}
			t.size--
			if err := t.writeMeta(); err != nil {
				return false, err
			}
			return true, nil
		}
		if found {
			id = n.children[i+1]
		} else {
			id = n.children[i]
		}
	}
}

func removeAt[T any](s []T, i int) []T {
	copy(s[i:], s[i+1:])
	return s[:len(s)-1]
}
