package container

// Splay is the self-adjusting BalancingPolicy of §4.3.4: every access
// (insert, find, or the lookup preceding an erase) splays the touched node
// to the root via zig/zig-zig/zig-zag rotations, amortizing the cost of
// repeated access to the same keys.
type Splay[K any, V any] struct{}

// NewSplay constructs the splay policy.
func NewSplay[K any, V any]() *Splay[K, V] { return &Splay[K, V]{} }

func (*Splay[K, V]) Name() string { return "splay" }

func splayRotateUp[K any, V any](t *Tree[K, V], n *Node[K, V]) {
	p := n.Parent
	if n == p.Left {
		rotateRight(t, p)
	} else {
		rotateLeft(t, p)
	}
}

func splayToRoot[K any, V any](t *Tree[K, V], x *Node[K, V]) {
	for x.Parent != nil {
		p := x.Parent
		if p.Parent == nil {
			splayRotateUp(t, x)
			continue
		}
		gp := p.Parent
		sameSide := (x == p.Left) == (p == gp.Left)
		if sameSide {
			splayRotateUp(t, p)
			splayRotateUp(t, x)
		} else {
			splayRotateUp(t, x)
			splayRotateUp(t, x)
		}
	}
}

func (*Splay[K, V]) Insert(t *Tree[K, V], key K, value V) (*Node[K, V], bool) {
	n, created := bstInsert(t, key, value)
	splayToRoot(t, n)
	return n, created
}

func (*Splay[K, V]) Find(t *Tree[K, V], key K) (*Node[K, V], bool) {
	n, ok := bstFind(t, key)
	if ok {
		splayToRoot(t, n)
	}
	return n, ok
}

// Erase splays the target to the root, then joins its left and right
// subtrees: the largest key in the left subtree is splayed to the left
// subtree's root (it has no right child by definition), which can then
// adopt the original right subtree directly.
func (*Splay[K, V]) Erase(t *Tree[K, V], key K) bool {
	n, ok := bstFind(t, key)
	if !ok {
		return false
	}
	splayToRoot(t, n)
	// n is now the root; n.Parent == nil.
	left, right := n.Left, n.Right

	switch {
	case left == nil:
		t.root = right
		if right != nil {
			right.Parent = nil
		}
	case right == nil:
		t.root = left
		left.Parent = nil
	default:
		left.Parent = nil
		t.root = left
		m := bstMaximum(left)
		splayToRoot(t, m)
		m.Right = right
		right.Parent = m
	}
	return true
}
