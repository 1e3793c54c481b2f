package promstats

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/keyedhash"
)

func TestTableStatsCollector(t *testing.T) {
	tbl, err := keyedhash.NewOpenAddressing[int](8, 0.5, keyedhash.BytesKeyOps[int](), keyedhash.ProbeLinear, nil)
	require.NoError(t, err)
	defer tbl.Destroy()

	for k := 0; k < 3; k++ {
		require.True(t, tbl.InsertInt(k, k))
	}
	require.True(t, tbl.EraseInt(1))

	c := NewTableStatsCollector(tbl, "users")
	require.Equal(t, 8, testutil.CollectAndCount(c))

	expected := `
# HELP keyedhash_buckets Number of buckets or slots.
# TYPE keyedhash_buckets gauge
keyedhash_buckets{table="users"} 8
# HELP keyedhash_entries Number of live entries.
# TYPE keyedhash_entries gauge
keyedhash_entries{table="users"} 2
# HELP keyedhash_tombstones Number of tombstone slots.
# TYPE keyedhash_tombstones gauge
keyedhash_tombstones{table="users"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"keyedhash_buckets", "keyedhash_entries", "keyedhash_tombstones"))
}

func TestGuardedSourceRegisters(t *testing.T) {
	tbl, err := keyedhash.NewChaining[string](8, 0.75, keyedhash.StringKeyOps[string]())
	require.NoError(t, err)
	defer tbl.Destroy()

	var mu sync.Mutex
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewTableStatsCollector(Guard(tbl, &mu), "sessions")))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			mu.Lock()
			tbl.InsertString(strings.Repeat("k", i%20+1), "v")
			mu.Unlock()
		}
	}()
	for i := 0; i < 20; i++ {
		_, err := reg.Gather()
		require.NoError(t, err)
	}
	wg.Wait()

	require.Equal(t, 20, tbl.Size())
	expected := `
# HELP keyedhash_entries Number of live entries.
# TYPE keyedhash_entries gauge
keyedhash_entries{table="sessions"} 20
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "keyedhash_entries"))
}
