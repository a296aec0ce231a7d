// Package diskbtree implements the on-disk paged B+ tree of §4.3.6/C9:
// node records live in one file (a sequence of gengardb/pkg/storage.Page
// values, read/written whole through readNode/writeNode), leaf values
// live in a second file (a gengardb/pkg/storage.HeapFile of slotted
// pages), and leaves are threaded into a forward chain for range scans.
// Callers supply a Codec for their key/value types since the node record
// layout needs a fixed per-key byte width.
package diskbtree

import (
	"encoding/binary"
	"os"
	"sort"

	"gengardb/internal/logging"
	"gengardb/pkg/storage"
)

// Codec supplies the fixed-width key encoding and variable-width value
// encoding the tree needs to serialize nodes and leaf records.
type Codec[K any, V any] interface {
	KeySize() int
	EncodeKey(K) []byte
	DecodeKey([]byte) K
	EncodeValue(V) []byte
	DecodeValue([]byte) V
}

// Less reports whether a orders strictly before b.
type Less[K any] func(a, b K) bool

const (
	metaPageID    = 0
	firstDataPage = 1
	nilPage       = int64(-1)

	nodeHeaderSize = 1 + 2 + 8 // leaf flag, keyCount, nextLeaf
	pointerSlot    = 8         // child page id, or packed RID
)

// Tree is an on-disk B+ tree over (K, V).
type Tree[K any, V any] struct {
	nodeFile *os.File
	data     *storage.HeapFile
	codec    Codec[K, V]
	less     Less[K]
	order    int // max keys per node
	minKeys  int // min keys per non-root node

	root     int64
	nextPage int64
	size     int64
	log      logging.Sink
	cache    *nodeCache[K]
}

// Option configures a Tree at Open time.
type Option[K any, V any] func(*Tree[K, V])

// WithLogger attaches a logging sink. The default is logging.Nop.
func WithLogger[K any, V any](s logging.Sink) Option[K, V] {
	return func(t *Tree[K, V]) { t.log = s }
}

func maxOrder(keySize int) int {
	order := (storage.PayloadSize - nodeHeaderSize - pointerSlot) / (keySize + pointerSlot)
	if order < 3 {
		order = 3
	}
	return order
}

// Open opens (creating if absent) the node file and data file pair backing
// a disk B+ tree.
func Open[K any, V any](nodePath, dataPath string, codec Codec[K, V], less Less[K], opts ...Option[K, V]) (*Tree[K, V], error) {
	nf, err := os.OpenFile(nodePath, os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, err
	}
	df, err := storage.OpenHeapFile(dataPath)
	if err != nil {
		nf.Close()
		return nil, err
	}

	t := &Tree[K, V]{
		nodeFile: nf,
		data:     df,
		codec:    codec,
		less:     less,
		order:    maxOrder(codec.KeySize()),
		log:      logging.Nop,
		cache:    newNodeCache[K](nodeCacheCapacity),
	}
	t.minKeys = (t.order+1)/2 - 1
	for _, opt := range opts {
		opt(t)
	}

	st, err := nf.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		t.root = firstDataPage
		t.nextPage = firstDataPage + 1
		t.size = 0
		leaf := &diskNode[K]{leaf: true, next: nilPage}
		if err := t.writeNode(t.root, leaf); err != nil {
			return nil, err
		}
		if err := t.writeMeta(); err != nil {
			return nil, err
		}
	} else {
		if err := t.readMeta(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Close releases the underlying files.
func (t *Tree[K, V]) Close() error {
	if err := t.data.Close(); err != nil {
		t.nodeFile.Close()
		return err
	}
	return t.nodeFile.Close()
}

// Len returns the number of keys stored.
func (t *Tree[K, V]) Len() int { return int(t.size) }

func (t *Tree[K, V]) writeMeta() error {
	p := &storage.Page{ID: metaPageID, Kind: storage.KindMeta}
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(t.root))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(t.nextPage))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(t.size))
	if err := p.SetData(buf); err != nil {
		return err
	}
	return storage.WritePage(t.nodeFile, p)
}

func (t *Tree[K, V]) readMeta() error {
	p, err := storage.ReadPageExpecting(t.nodeFile, metaPageID, storage.KindMeta)
	if err != nil {
		return err
	}
	buf := p.Data[:24]
	t.root = int64(binary.LittleEndian.Uint64(buf[0:8]))
	t.nextPage = int64(binary.LittleEndian.Uint64(buf[8:16]))
	t.size = int64(binary.LittleEndian.Uint64(buf[16:24]))
	return nil
}

func (t *Tree[K, V]) allocPage() int64 {
	id := t.nextPage
	t.nextPage++
	return id
}

// diskNode is the in-memory view of one node record.
type diskNode[K any] struct {
	leaf     bool
	next     int64 // leaf chain only
	keys     []K
	children []int64         // internal nodes: len(keys)+1
	rids     []storage.RID   // leaf nodes: len(keys)
}

func (t *Tree[K, V]) writeNode(id int64, n *diskNode[K]) error {
	buf := make([]byte, storage.PayloadSize)
	if n.leaf {
		buf[0] = 1
	}
	binary.LittleEndian.PutUint16(buf[1:3], uint16(len(n.keys)))
	binary.LittleEndian.PutUint64(buf[3:11], uint64(n.next))

	ks := t.codec.KeySize()
	off := nodeHeaderSize
	for _, k := range n.keys {
		copy(buf[off:off+ks], t.codec.EncodeKey(k))
		off += ks
	}

	off = nodeHeaderSize + t.order*ks
	if n.leaf {
		for _, r := range n.rids {
			binary.LittleEndian.PutUint32(buf[off:off+4], r.PageID)
			binary.LittleEndian.PutUint16(buf[off+4:off+6], r.SlotID)
			off += pointerSlot
		}
	} else {
		for _, c := range n.children {
			binary.LittleEndian.PutUint64(buf[off:off+8], uint64(c))
			off += pointerSlot
		}
	}

	p := &storage.Page{ID: uint32(id), Kind: storage.KindBTreeNode}
	if err := p.SetData(buf); err != nil {
		return err
	}
	if err := storage.WritePage(t.nodeFile, p); err != nil {
		return err
	}
	t.cache.put(id, n)
	return nil
}

func (t *Tree[K, V]) readNode(id int64) (*diskNode[K], error) {
	if n, ok := t.cache.get(id); ok {
		return n, nil
	}
	p, err := storage.ReadPageExpecting(t.nodeFile, uint32(id), storage.KindBTreeNode)
	if err != nil {
		return nil, err
	}
	buf := p.Data[:]
	n := &diskNode[K]{leaf: buf[0] == 1}
	count := int(binary.LittleEndian.Uint16(buf[1:3]))
	n.next = int64(binary.LittleEndian.Uint64(buf[3:11]))

	ks := t.codec.KeySize()
	off := nodeHeaderSize
	n.keys = make([]K, count)
	for i := 0; i < count; i++ {
		n.keys[i] = t.codec.DecodeKey(buf[off : off+ks])
		off += ks
	}

	off = nodeHeaderSize + t.order*ks
	if n.leaf {
		n.rids = make([]storage.RID, count)
		for i := 0; i < count; i++ {
			n.rids[i] = storage.RID{
				PageID: binary.LittleEndian.Uint32(buf[off : off+4]),
				SlotID: binary.LittleEndian.Uint16(buf[off+4 : off+6]),
			}
			off += pointerSlot
		}
	} else {
		n.children = make([]int64, count+1)
		for i := 0; i <= count; i++ {
			n.children[i] = int64(binary.LittleEndian.Uint64(buf[off : off+8]))
			off += pointerSlot
		}
	}
	t.cache.put(id, n)
	return n, nil
}

func (t *Tree[K, V]) search(keys []K, key K) (int, bool) {
	i := sort.Search(len(keys), func(i int) bool { return !t.less(keys[i], key) })
	if i < len(keys) && !t.less(key, keys[i]) {
		return i, true
	}
	return i, false
}
