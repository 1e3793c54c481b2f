package keyedhash

import (
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// StringKey encodes s the way C strings are stored: its bytes followed by a
// terminating NUL, so the key length is len(s)+1.
func StringKey(s string) []byte {
	key := make([]byte, len(s)+1)
	copy(key, s)
	return key
}

// IntKey encodes k as a little-endian key of the platform int width.
func IntKey(k int) []byte {
	return IntegerKey(k)
}

// IntegerKey encodes k as a little-endian key exactly as wide as K, so
// int32(7) and int64(7) are different keys.
func IntegerKey[K constraints.Integer](k K) []byte {
	width := int(unsafe.Sizeof(k))
	u := uint64(k)
	key := make([]byte, width)
	for i := 0; i < width; i++ {
		key[i] = byte(u >> (8 * i))
	}
	return key
}

// IntWidth is the byte length of keys produced by IntKey.
const IntWidth = strconv.IntSize / 8

// InsertString stores v under the NUL-terminated form of key.
func (t *Table[V]) InsertString(key string, v V) bool {
	return t.Insert(StringKey(key), v)
}

// SearchString looks up the NUL-terminated form of key.
func (t *Table[V]) SearchString(key string) (V, bool) {
	return t.Search(StringKey(key))
}

// EraseString removes the NUL-terminated form of key.
func (t *Table[V]) EraseString(key string) bool {
	return t.Erase(StringKey(key))
}

// UpdateString replaces the value stored under the NUL-terminated form of key.
func (t *Table[V]) UpdateString(key string, v V) bool {
	return t.Update(StringKey(key), v)
}

// InsertInt stores v under the IntKey encoding of key.
func (t *Table[V]) InsertInt(key int, v V) bool {
	return t.Insert(IntKey(key), v)
}

// SearchInt looks up the IntKey encoding of key.
func (t *Table[V]) SearchInt(key int) (V, bool) {
	return t.Search(IntKey(key))
}

// EraseInt removes the IntKey encoding of key.
func (t *Table[V]) EraseInt(key int) bool {
	return t.Erase(IntKey(key))
}

// UpdateInt replaces the value stored under the IntKey encoding of key.
func (t *Table[V]) UpdateInt(key int, v V) bool {
	return t.Update(IntKey(key), v)
}

// InsertInteger stores v under the IntegerKey encoding of key.
func InsertInteger[V any, K constraints.Integer](t *Table[V], key K, v V) bool {
	return t.Insert(IntegerKey(key), v)
}

// SearchInteger looks up the IntegerKey encoding of key.
func SearchInteger[V any, K constraints.Integer](t *Table[V], key K) (V, bool) {
	return t.Search(IntegerKey(key))
}

// EraseInteger removes the IntegerKey encoding of key.
func EraseInteger[V any, K constraints.Integer](t *Table[V], key K) bool {
	return t.Erase(IntegerKey(key))
}
