package keyedhash

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// identityHash maps an IntKey back to its integer, so small keys land in
// predictable buckets.
func identityHash(key []byte) uint64 {
	var buf [8]byte
	copy(buf[:], key)
	return binary.LittleEndian.Uint64(buf[:])
}

func constantHash([]byte) uint64 { return 0 }

func intOps(hash HashFunc) KeyOps[int] {
	ops := BytesKeyOps[int]()
	ops.Hash = hash
	return ops
}

func newTestChaining(t *testing.T, capacity int, lf float64, ops KeyOps[int], opts ...Option) (*Table[int], *chaining[int]) {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	tbl, err := NewChaining[int](capacity, lf, ops, opts...)
	require.NoError(t, err)
	return tbl, tbl.impl.(*chaining[int])
}

func newTestOpen(t *testing.T, capacity int, lf float64, ops KeyOps[int], probe ProbeStrategy, opts ...Option) (*Table[int], *openAddressing[int]) {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	var secondary HashFunc
	if probe == ProbeDoubleHash {
		secondary = func(key []byte) uint64 { return identityHash(key) * 7 }
	}
	tbl, err := NewOpenAddressing[int](capacity, lf, ops, probe, secondary, opts...)
	require.NoError(t, err)
	return tbl, tbl.impl.(*openAddressing[int])
}
