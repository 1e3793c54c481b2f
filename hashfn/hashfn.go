// Package hashfn holds the stateless hash functions a keyedhash table can be
// configured with. Every function is pure and safe to share between tables.
package hashfn

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const (
	offset32 = 2166136261
	prime32  = 16777619

	djb2Seed = 5381

	// 2^32 / golden ratio
	goldenRatio32 = 2654435769
)

// Func is the signature shared by every byte-oriented hash in this package.
type Func func(key []byte) uint64

// FNV1a computes FNV-1a over key using the 32-bit offset basis and prime
// carried in 64-bit arithmetic, so the result spans the full uint64 range.
func FNV1a(key []byte) uint64 {
	hash := uint64(offset32)
	for _, b := range key {
		hash ^= uint64(b)
		hash *= prime32
	}
	return hash
}

// FNV1a32 computes the classic 32-bit FNV-1a hash of key.
func FNV1a32(key []byte) uint32 {
	hash := uint32(offset32)
	for _, b := range key {
		hash ^= uint32(b)
		hash *= prime32
	}
	return hash
}

// Division maps key into [0, tableSize) by FNV1a modulo tableSize.
// It returns 0 for an empty table.
func Division(key []byte, tableSize uint64) uint64 {
	if tableSize == 0 {
		return 0
	}
	return FNV1a(key) % tableSize
}

// Multiplication maps key into [0, tableSize) with Knuth's multiplicative
// method: the top 32 bits of FNV1a times the golden ratio are scaled by
// tableSize, using integer arithmetic only.
func Multiplication(key []byte, tableSize uint64) uint64 {
	scaled := (FNV1a(key) * goldenRatio32) >> 32
	hi, lo := bits.Mul64(scaled, tableSize)
	return hi<<32 | lo>>32
}

// XXHash64 hashes key with xxHash64.
func XXHash64(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// Djb2 hashes key as a C string: bytes after the first NUL are ignored.
func Djb2(key []byte) uint64 {
	hash := uint64(djb2Seed)
	for _, c := range key {
		if c == 0 {
			break
		}
		hash = (hash << 5) + hash + uint64(c)
	}
	return hash
}

// Djb2String is Dan Bernstein's hash*33+c string hash.
func Djb2String(s string) uint64 {
	hash := uint64(djb2Seed)
	for i := 0; i < len(s); i++ {
		hash = (hash << 5) + hash + uint64(s[i])
	}
	return hash
}

// FNV1aString hashes s with FNV1a without allocating a byte slice.
func FNV1aString(s string) uint64 {
	hash := uint64(offset32)
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime32
	}
	return hash
}

// FNV1aCString hashes key as a C string: bytes after the first NUL are
// ignored, so "abc\x00" and "abc" hash the same.
func FNV1aCString(key []byte) uint64 {
	hash := uint64(offset32)
	for _, c := range key {
		if c == 0 {
			break
		}
		hash ^= uint64(c)
		hash *= prime32
	}
	return hash
}

// ByName resolves the names accepted in workload configuration files.
func ByName(name string) (Func, bool) {
	switch name {
	case "", "fnv1a":
		return FNV1a, true
	case "fnv1a-cstring":
		return FNV1aCString, true
	case "djb2":
		return Djb2, true
	case "xxhash":
		return XXHash64, true
	}
	return nil, false
}
