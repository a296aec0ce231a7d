package rbarena

// Red-black tree on free blocks, keyed by a.size(offset). parentOrRegion
// doubles as the tree's parent pointer while a block is free (it is
// repurposed as the occupied-block region marker the moment the block
// leaves this tree), exactly mirroring the C++ original's reuse of
// block_metadata::parent_.

func (a *Allocator) parent(off int64) int64     { return a.parentOrRegion(off) }
func (a *Allocator) setParent(off, v int64)     { a.setParentOrRegion(off, v) }

func (a *Allocator) grandparent(off int64) int64 {
	if p := a.parent(off); p != nilOff {
		return a.parent(p)
	}
	return nilOff
}

func (a *Allocator) sibling(off int64) int64 {
	p := a.parent(off)
	if p == nilOff {
		return nilOff
	}
	if off == a.left(p) {
		return a.right(p)
	}
	return a.left(p)
}

func (a *Allocator) rotateLeft(x int64) {
	y := a.right(x)
	a.setRight(x, a.left(y))
	if a.left(y) != nilOff {
		a.setParent(a.left(y), x)
	}
	a.setParent(y, a.parent(x))
	if a.parent(x) == nilOff {
		a.root = y
	} else if x == a.left(a.parent(x)) {
		a.setLeft(a.parent(x), y)
	} else {
		a.setRight(a.parent(x), y)
	}
	a.setLeft(y, x)
	a.setParent(x, y)
}

func (a *Allocator) rotateRight(x int64) {
	y := a.left(x)
	a.setLeft(x, a.right(y))
	if a.right(y) != nilOff {
		a.setParent(a.right(y), x)
	}
	a.setParent(y, a.parent(x))
	if a.parent(x) == nilOff {
		a.root = y
	} else if x == a.right(a.parent(x)) {
		a.setRight(a.parent(x), y)
	} else {
		a.setLeft(a.parent(x), y)
	}
	a.setRight(y, x)
	a.setParent(x, y)
}

// treeInsert links a freshly-freed block into the size tree, first resetting
// its left/right overlay offsets to nilOff.
func (a *Allocator) treeInsert(z int64) {
	a.setLeft(z, nilOff)
	a.setRight(z, nilOff)
	a.setParent(z, nilOff)
	a.setColor(z, red)

	var y int64 = nilOff
	x := a.root
	zSize := a.size(z)
	for x != nilOff {
		y = x
		if zSize < a.size(x) {
			x = a.left(x)
		} else {
			x = a.right(x)
		}
	}
	a.setParent(z, y)
	if y == nilOff {
		a.root = z
	} else if zSize < a.size(y) {
		a.setLeft(y, z)
	} else {
		a.setRight(y, z)
	}
	a.insertFixup(z)
}

func (a *Allocator) insertFixup(z int64) {
	for a.getColor(a.parent(z)) == red {
		p := a.parent(z)
		gp := a.grandparent(z)
		if p == a.left(gp) {
			u := a.right(gp)
			if a.getColor(u) == red {
				a.setColor(p, black)
				a.setColor(u, black)
				a.setColor(gp, red)
				z = gp
				continue
			}
			if z == a.right(p) {
				z = p
				a.rotateLeft(z)
				p = a.parent(z)
				gp = a.grandparent(z)
			}
			a.setColor(p, black)
			a.setColor(gp, red)
			a.rotateRight(gp)
		} else {
			u := a.left(gp)
			if a.getColor(u) == red {
				a.setColor(p, black)
				a.setColor(u, black)
				a.setColor(gp, red)
				z = gp
				continue
			}
			if z == a.left(p) {
				z = p
				a.rotateRight(z)
				p = a.parent(z)
				gp = a.grandparent(z)
			}
			a.setColor(p, black)
			a.setColor(gp, red)
			a.rotateLeft(gp)
		}
	}
	a.setColor(a.root, black)
}

func (a *Allocator) transplant(u, v int64) {
	p := a.parent(u)
	if p == nilOff {
		a.root = v
	} else if u == a.left(p) {
		a.setLeft(p, v)
	} else {
		a.setRight(p, v)
	}
	if v != nilOff {
		a.setParent(v, p)
	}
}

func (a *Allocator) treeMinimum(x int64) int64 {
	for a.left(x) != nilOff {
		x = a.left(x)
	}
	return x
}

// treeRemove unlinks z from the size tree. z must currently be a member.
func (a *Allocator) treeRemove(z int64) {
	y := z
	yOriginalColor := a.getColor(y)
	var x, xParent int64

	if a.left(z) == nilOff {
		x = a.right(z)
		xParent = a.parent(z)
		a.transplant(z, a.right(z))
	} else if a.right(z) == nilOff {
		x = a.left(z)
		xParent = a.parent(z)
		a.transplant(z, a.left(z))
	} else {
		y = a.treeMinimum(a.right(z))
		yOriginalColor = a.getColor(y)
		x = a.right(y)
		if a.parent(y) == z {
			xParent = y
		} else {
			xParent = a.parent(y)
			a.transplant(y, a.right(y))
			a.setRight(y, a.right(z))
			a.setParent(a.right(y), y)
		}
		a.transplant(z, y)
		a.setLeft(y, a.left(z))
		a.setParent(a.left(y), y)
		a.setColor(y, a.getColor(z))
	}

	if yOriginalColor == black {
		a.deleteFixup(x, xParent)
	}
}

// deleteFixup restores red-black properties after treeRemove. Since there is
// no sentinel node, the "current" node is tracked as (x, xParent) so that a
// nilOff x can still be rebalanced relative to its former parent.
func (a *Allocator) deleteFixup(x, xParent int64) {
	for x != a.root && a.getColor(x) == black {
		if xParent == nilOff {
			break
		}
		if x == a.left(xParent) {
			w := a.right(xParent)
			if a.getColor(w) == red {
				a.setColor(w, black)
				a.setColor(xParent, red)
				a.rotateLeft(xParent)
				w = a.right(xParent)
			}
			if a.getColor(a.left(w)) == black && a.getColor(a.right(w)) == black {
				a.setColor(w, red)
				x = xParent
				xParent = a.parent(x)
				continue
			}
			if a.getColor(a.right(w)) == black {
				a.setColor(a.left(w), black)
				a.setColor(w, red)
				a.rotateRight(w)
				w = a.right(xParent)
			}
			a.setColor(w, a.getColor(xParent))
			a.setColor(xParent, black)
			a.setColor(a.right(w), black)
			a.rotateLeft(xParent)
			x = a.root
			xParent = nilOff
		} else {
			w := a.left(xParent)
			if a.getColor(w) == red {
				a.setColor(w, black)
				a.setColor(xParent, red)
				a.rotateRight(xParent)
				w = a.left(xParent)
			}
			if a.getColor(a.right(w)) == black && a.getColor(a.left(w)) == black {
				a.setColor(w, red)
				x = xParent
				xParent = a.parent(x)
				continue
			}
			if a.getColor(a.left(w)) == black {
				a.setColor(a.right(w), black)
				a.setColor(w, red)
				a.rotateLeft(w)
				w = a.left(xParent)
			}
			a.setColor(w, a.getColor(xParent))
			a.setColor(xParent, black)
			a.setColor(a.left(w), black)
			a.rotateRight(xParent)
			x = a.root
			xParent = nilOff
		}
	}
	if x != nilOff {
		a.setColor(x, black)
	}
}
