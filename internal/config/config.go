// Package config loads htbench workload files.
//
// A workload file is TOML:
//
//	[table]
//	strategy = "open-addressing"   # or "chaining"
//	probe = "double"               # linear, quadratic, double
//	capacity = 64
//	max_load_factor = 0.5
//	shrink_threshold = 0.25
//	hash = "fnv1a"
//	secondary_hash = "xxhash"
//
//	[workload]
//	name = "uuid-100k"
//	keys = 100000
//	key_kind = "uuid"              # int, string, uuid
//	erase_ratio = 0.1
//	seed = 42
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/theflywheel/keyedhash"
	"github.com/theflywheel/keyedhash/hashfn"
)

// Strategy names accepted in table.strategy.
const (
	StrategyChaining       = "chaining"
	StrategyOpenAddressing = "open-addressing"
)

// Key kinds accepted in workload.key_kind.
const (
	KeyInt    = "int"
	KeyString = "string"
	KeyUUID   = "uuid"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Table selects the strategy and sizing of the table under test.
type Table struct {
	Strategy        string  `toml:"strategy"`
	Probe           string  `toml:"probe"`
	Capacity        int     `toml:"capacity"`
	MaxLoadFactor   float64 `toml:"max_load_factor"`
	ShrinkThreshold float64 `toml:"shrink_threshold"`
	Hash            string  `toml:"hash"`
	SecondaryHash   string  `toml:"secondary_hash"`
}

// Workload describes the keys a run inserts, searches and erases.
type Workload struct {
	Name       string  `toml:"name"`
	Keys       int     `toml:"keys"`
	KeyKind    string  `toml:"key_kind"`
	EraseRatio float64 `toml:"erase_ratio"`
	Seed       int64   `toml:"seed"`
}

// Config is the root of a workload TOML file.
type Config struct {
	Table    Table    `toml:"table"`
	Workload Workload `toml:"workload"`
}

// Default returns a chaining table over 10k integer keys.
func Default() Config {
	return Config{
		Table: Table{
			Strategy:        StrategyChaining,
			Probe:           "linear",
			Capacity:        8,
			MaxLoadFactor:   0.75,
			ShrinkThreshold: 0.25,
			Hash:            "fnv1a",
			SecondaryHash:   "xxhash",
		},
		Workload: Workload{
			Name:    "default",
			Keys:    10_000,
			KeyKind: KeyInt,
			Seed:    1,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks names and ranges and reports the first problem found.
func (c Config) Validate() error {
	switch c.Table.Strategy {
	case StrategyChaining, StrategyOpenAddressing:
	default:
		return errors.Wrapf(ErrInvalidConfig, "table.strategy %q", c.Table.Strategy)
	}
	probe, err := keyedhash.ParseProbeStrategy(c.Table.Probe)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if c.Table.Capacity < 0 {
		return errors.Wrapf(ErrInvalidConfig, "table.capacity %d", c.Table.Capacity)
	}
	if c.Table.MaxLoadFactor < 0 {
		return errors.Wrapf(ErrInvalidConfig, "table.max_load_factor %v", c.Table.MaxLoadFactor)
	}
	if c.Table.ShrinkThreshold < 0 {
		return errors.Wrapf(ErrInvalidConfig, "table.shrink_threshold %v", c.Table.ShrinkThreshold)
	}
	if _, ok := hashfn.ByName(c.Table.Hash); !ok {
		return errors.Wrapf(ErrInvalidConfig, "table.hash %q", c.Table.Hash)
	}
	if c.Table.Strategy == StrategyOpenAddressing && probe == keyedhash.ProbeDoubleHash {
		if c.Table.SecondaryHash == "" {
			return errors.Wrap(ErrInvalidConfig, "double hashing needs table.secondary_hash")
		}
		if _, ok := hashfn.ByName(c.Table.SecondaryHash); !ok {
			return errors.Wrapf(ErrInvalidConfig, "table.secondary_hash %q", c.Table.SecondaryHash)
		}
	}

	if c.Workload.Keys <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "workload.keys %d", c.Workload.Keys)
	}
	switch c.Workload.KeyKind {
	case KeyInt, KeyString, KeyUUID:
	default:
		return errors.Wrapf(ErrInvalidConfig, "workload.key_kind %q", c.Workload.KeyKind)
	}
	if c.Workload.EraseRatio < 0 || c.Workload.EraseRatio > 1 {
		return errors.Wrapf(ErrInvalidConfig, "workload.erase_ratio %v", c.Workload.EraseRatio)
	}
	return nil
}
