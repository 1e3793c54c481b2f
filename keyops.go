package keyedhash

import (
	"bytes"

	"github.com/theflywheel/keyedhash/hashfn"
)

// HashFunc hashes a raw key.
type HashFunc = hashfn.Func

// EqualFunc reports whether two raw keys are the same key.
type EqualFunc func(a, b []byte) bool

// KeyOps describes how a table treats its keys and values. It is copied into
// the table at creation and never changes afterwards.
type KeyOps[V any] struct {
	// Hash defaults to hashfn.FNV1a.
	Hash HashFunc
	// Equal defaults to bytes.Equal.
	Equal EqualFunc
	// DestroyKey, if set, receives the table's private copy of a key when the
	// entry is erased or the table is destroyed.
	DestroyKey func(key []byte)
	// DestroyValue, if set, makes the table the owner of every stored value:
	// each value is passed to it exactly once, on overwrite, erase or destroy.
	DestroyValue func(value V)
}

func (o KeyOps[V]) withDefaults() KeyOps[V] {
	if o.Hash == nil {
		o.Hash = hashfn.FNV1a
	}
	if o.Equal == nil {
		o.Equal = bytes.Equal
	}
	return o
}

// BytesKeyOps hashes keys with FNV-1a and compares them byte for byte.
func BytesKeyOps[V any]() KeyOps[V] {
	return KeyOps[V]{Hash: hashfn.FNV1a, Equal: bytes.Equal}
}

// StringKeyOps suits NUL-terminated keys produced by StringKey: hashing and
// comparison stop at the first NUL.
func StringKeyOps[V any]() KeyOps[V] {
	return KeyOps[V]{Hash: hashfn.FNV1aCString, Equal: cstringEqual}
}

func cstringEqual(a, b []byte) bool {
	return bytes.Equal(cstring(a), cstring(b))
}

func cstring(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}
