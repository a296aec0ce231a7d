package diskbtree

import "github.com/dolthub/maphash"

// nodeCacheCapacity bounds how many decoded node pages are kept in memory
// between disk reads.
const nodeCacheCapacity = 64

// nodeCache is a small fixed-capacity LRU over recently read node pages,
// keyed by page id. Lookups hash the page id with a seeded maphash.Hasher
// rather than relying on Go's randomized built-in map, so which entries
// collide and which get evicted on a full cache is reproducible within a
// process run instead of varying run to run.
type nodeCache[K any] struct {
	hasher   maphash.Hasher[int64]
	capacity int
	buckets  map[uint64]*cacheEntry[K]
	order    []int64 // front (index 0) is least recently used
}

type cacheEntry[K any] struct {
	id   int64
	node *diskNode[K]
}

func newNodeCache[K any](capacity int) *nodeCache[K] {
	return &nodeCache[K]{
		hasher:   maphash.NewHasher[int64](),
		capacity: capacity,
		buckets:  make(map[uint64]*cacheEntry[K], capacity),
	}
}

func (c *nodeCache[K]) get(id int64) (*diskNode[K], bool) {
	e, ok := c.buckets[c.hasher.Hash(id)]
	if !ok || e.id != id {
		return nil, false
	}
	c.touch(id)
	return e.node, true
}

func (c *nodeCache[K]) put(id int64, n *diskNode[K]) {
	h := c.hasher.Hash(id)
	if _, exists := c.buckets[h]; !exists {
		if len(c.buckets) >= c.capacity {
			c.evictOldest()
		}
		c.order = append(c.order, id)
	} else {
		c.touch(id)
	}
	c.buckets[h] = &cacheEntry[K]{id: id, node: n}
}

func (c *nodeCache[K]) invalidate(id int64) {
	delete(c.buckets, c.hasher.Hash(id))
	c.removeFromOrder(id)
}

func (c *nodeCache[K]) touch(id int64) {
	c.removeFromOrder(id)
	c.order = append(c.order, id)
}

func (c *nodeCache[K]) removeFromOrder(id int64) {
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *nodeCache[K]) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.buckets, c.hasher.Hash(oldest))
}
