// Package workload builds tables from an htbench config and drives them
// through an insert, search and erase run.
package workload

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theflywheel/keyedhash"
	"github.com/theflywheel/keyedhash/hashfn"
	"github.com/theflywheel/keyedhash/internal/benchfmt"
	"github.com/theflywheel/keyedhash/internal/config"
)

// ErrVerify is returned when a table loses or corrupts an entry during a run.
var ErrVerify = errors.New("workload verification failed")

// Build creates the table described by cfg. String workloads compare keys up
// to their terminating NUL.
func Build(cfg config.Config, log *zap.Logger) (*keyedhash.Table[uint64], error) {
	ops := keyedhash.BytesKeyOps[uint64]()
	if cfg.Workload.KeyKind == config.KeyString {
		ops = keyedhash.StringKeyOps[uint64]()
	}
	if cfg.Table.Hash != "" {
		h, ok := hashfn.ByName(cfg.Table.Hash)
		if !ok {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "table.hash %q", cfg.Table.Hash)
		}
		ops.Hash = h
	}

	opts := []keyedhash.Option{
		keyedhash.WithLogger(log),
		keyedhash.WithShrinkThreshold(cfg.Table.ShrinkThreshold),
	}
	if cfg.Table.Strategy == config.StrategyChaining {
		return keyedhash.NewChaining[uint64](cfg.Table.Capacity, cfg.Table.MaxLoadFactor, ops, opts...)
	}

	probe, err := keyedhash.ParseProbeStrategy(cfg.Table.Probe)
	if err != nil {
		return nil, err
	}
	var secondary keyedhash.HashFunc
	if probe == keyedhash.ProbeDoubleHash {
		h, ok := hashfn.ByName(cfg.Table.SecondaryHash)
		if !ok {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "table.secondary_hash %q", cfg.Table.SecondaryHash)
		}
		secondary = h
	}
	return keyedhash.NewOpenAddressing[uint64](cfg.Table.Capacity, cfg.Table.MaxLoadFactor, ops, probe, secondary, opts...)
}

// Keys generates the distinct keys of a workload. The same config always
// yields the same keys.
func Keys(w config.Workload) ([][]byte, error) {
	keys := make([][]byte, w.Keys)
	switch w.KeyKind {
	case config.KeyInt:
		for i := range keys {
			keys[i] = keyedhash.IntKey(i)
		}
	case config.KeyString:
		for i := range keys {
			keys[i] = keyedhash.StringKey(fmt.Sprintf("key-%08d", i))
		}
	case config.KeyUUID:
		rng := rand.New(rand.NewSource(w.Seed))
		seen := make(map[uuid.UUID]struct{}, w.Keys)
		for i := 0; i < len(keys); {
			id, err := uuid.NewRandomFromReader(rng)
			if err != nil {
				return nil, errors.Wrap(err, "generate uuid key")
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			keys[i] = append([]byte(nil), id[:]...)
			i++
		}
	default:
		return nil, errors.Wrapf(config.ErrInvalidConfig, "workload.key_kind %q", w.KeyKind)
	}
	return keys, nil
}

// Run inserts every key with its index as the value, looks every key up in
// random order, erases a seeded share of the keys and verifies the table
// afterwards. The result carries throughput and the final table stats.
func Run(tbl *keyedhash.Table[uint64], keys [][]byte, w config.Workload, log *zap.Logger) (benchfmt.Result, error) {
	rng := rand.New(rand.NewSource(w.Seed))
	n := len(keys)

	start := time.Now()
	for i, k := range keys {
		if !tbl.Insert(k, uint64(i)) {
			return benchfmt.Result{}, errors.Wrapf(ErrVerify, "insert of key %d failed", i)
		}
	}
	insertTime := time.Since(start)
	log.Info("inserted keys",
		zap.Int("keys", n),
		zap.Duration("elapsed", insertTime),
		zap.Int("capacity", tbl.Capacity()))

	order := rng.Perm(n)
	start = time.Now()
	for _, i := range order {
		v, ok := tbl.Search(keys[i])
		if !ok || v != uint64(i) {
			return benchfmt.Result{}, errors.Wrapf(ErrVerify, "key %d: got %d (found=%v)", i, v, ok)
		}
	}
	lookupTime := time.Since(start)

	erased := make([]bool, n)
	toErase := int(float64(n) * w.EraseRatio)
	start = time.Now()
	for _, i := range order[:toErase] {
		if !tbl.Erase(keys[i]) {
			return benchfmt.Result{}, errors.Wrapf(ErrVerify, "erase of key %d failed", i)
		}
		erased[i] = true
	}
	eraseTime := time.Since(start)

	if tbl.Size() != n-toErase {
		return benchfmt.Result{}, errors.Wrapf(ErrVerify, "size %d, want %d", tbl.Size(), n-toErase)
	}
	for i, k := range keys {
		if _, ok := tbl.Search(k); ok == erased[i] {
			return benchfmt.Result{}, errors.Wrapf(ErrVerify, "key %d present=%v after erase pass", i, ok)
		}
	}

	s := tbl.Stats()
	metrics := map[string]float64{
		"operations":           float64(n),
		"inserts_per_sec":      perSecond(n, insertTime),
		"lookups_per_sec":      perSecond(n, lookupTime),
		"ns_per_insert":        nsPer(insertTime, n),
		"ns_per_lookup":        nsPer(lookupTime, n),
		"entries":              float64(s.TotalElements),
		"capacity":             float64(s.Buckets),
		"load_factor":          tbl.LoadFactor(),
		"collisions":           float64(s.CollisionCount),
		"max_chain_or_probe":   float64(s.MaxChainOrProbe),
		"average_chain_length": s.AverageChainLength,
		"tombstones":           float64(s.Tombstones),
	}
	if toErase > 0 {
		metrics["erases_per_sec"] = perSecond(toErase, eraseTime)
	}

	log.Info("workload finished",
		zap.String("table", tbl.Kind()),
		zap.Int("entries", s.TotalElements),
		zap.Int("collisions", s.CollisionCount),
		zap.Float64("load_factor", tbl.LoadFactor()))

	return benchfmt.Result{
		Name:     w.Name + "/" + tbl.Kind(),
		Category: "workload",
		Metrics:  metrics,
	}, nil
}

func perSecond(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

func nsPer(d time.Duration, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(d.Nanoseconds()) / float64(n)
}
