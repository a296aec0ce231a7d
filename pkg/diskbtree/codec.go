package diskbtree

import "encoding/binary"

// Int64Codec is a ready-made Codec for int64 keys paired with an
// arbitrary string value, the common case for demos and tests.
type Int64Codec struct{}

func (Int64Codec) KeySize() int { return 8 }

func (Int64Codec) EncodeKey(k int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(k))
	return buf
}

func (Int64Codec) DecodeKey(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func (Int64Codec) EncodeValue(v string) []byte { return []byte(v) }

func (Int64Codec) DecodeValue(b []byte) string { return string(b) }
