package keyedhash

import (
	"go.uber.org/zap"
)

// Strategy is a collision-resolution implementation a Table forwards to.
// Keys passed in are borrowed for the duration of the call only.
type Strategy[V any] interface {
	Name() string
	Insert(key []byte, v V) bool
	Search(key []byte) (V, bool)
	Erase(key []byte) bool
	Update(key []byte, v V) bool
	Size() int
	Capacity() int
	LoadFactor() float64
	Stats() Stats
	Destroy()
}

// Table is a hash table bound to one Strategy. Every method is safe to call
// on a nil or destroyed table and returns the failure value for its type.
//
// A Table is not safe for concurrent use; wrap it in a mutex when sharing it
// between goroutines.
type Table[V any] struct {
	impl Strategy[V]
	ops  KeyOps[V]
	log  *zap.Logger
}

// New wraps an existing strategy. Options are validated as for the built-in
// constructors, but only the logger applies to a foreign strategy.
func New[V any](s Strategy[V], ops KeyOps[V], opts ...Option) (*Table[V], error) {
	if s == nil {
		return nil, ErrNilStrategy
	}
	cfg, err := buildSettings(opts)
	if err != nil {
		return nil, err
	}
	return &Table[V]{impl: s, ops: ops.withDefaults(), log: cfg.logger}, nil
}

// NewChaining returns a table that resolves collisions with separate
// chaining. A capacity of 0 or less selects 8 buckets; a max load factor of
// 0 or less selects 0.75.
func NewChaining[V any](capacity int, maxLoadFactor float64, ops KeyOps[V], opts ...Option) (*Table[V], error) {
	cfg, err := buildSettings(opts)
	if err != nil {
		return nil, err
	}
	lf, err := normalizeLoadFactor(maxLoadFactor, defaultChainingLoadFactor)
	if err != nil {
		return nil, err
	}
	ops = ops.withDefaults()
	impl := newChaining(capacity, lf, ops, cfg)
	return &Table[V]{impl: impl, ops: ops, log: cfg.logger}, nil
}

// NewOpenAddressing returns a table that stores entries in a flat slot
// array probed with the given strategy. secondary is required for
// ProbeDoubleHash and ignored otherwise. Capacity is at least 8; a max load
// factor of 0 or less selects 0.5.
func NewOpenAddressing[V any](capacity int, maxLoadFactor float64, ops KeyOps[V], probe ProbeStrategy, secondary HashFunc, opts ...Option) (*Table[V], error) {
	cfg, err := buildSettings(opts)
	if err != nil {
		return nil, err
	}
	if !probe.valid() {
		return nil, ErrInvalidProbe
	}
	if probe == ProbeDoubleHash && secondary == nil {
		return nil, ErrSecondaryHashRequired
	}
	lf, err := normalizeLoadFactor(maxLoadFactor, defaultOpenLoadFactor)
	if err != nil {
		return nil, err
	}
	ops = ops.withDefaults()
	impl := newOpenAddressing(capacity, lf, ops, probe, secondary, cfg)
	return &Table[V]{impl: impl, ops: ops, log: cfg.logger}, nil
}

func (t *Table[V]) live() bool {
	return t != nil && t.impl != nil
}

// Kind names the bound strategy, or returns "" for a nil or destroyed table.
func (t *Table[V]) Kind() string {
	if !t.live() {
		return ""
	}
	return t.impl.Name()
}

// KeyOps returns the key operations the table was created with.
func (t *Table[V]) KeyOps() KeyOps[V] {
	if t == nil {
		return KeyOps[V]{}
	}
	return t.ops
}

// Insert stores v under a copy of key, replacing the value of an existing
// key.
func (t *Table[V]) Insert(key []byte, v V) bool {
	if !t.live() {
		return false
	}
	return t.impl.Insert(key, v)
}

// Search returns the value stored under key.
func (t *Table[V]) Search(key []byte) (V, bool) {
	if !t.live() {
		var zero V
		return zero, false
	}
	return t.impl.Search(key)
}

// Erase removes key and releases its entry.
func (t *Table[V]) Erase(key []byte) bool {
	if !t.live() {
		return false
	}
	return t.impl.Erase(key)
}

// Update replaces the value of an existing key. It never inserts.
func (t *Table[V]) Update(key []byte, v V) bool {
	if !t.live() {
		return false
	}
	return t.impl.Update(key, v)
}

// Size returns the number of live entries.
func (t *Table[V]) Size() int {
	if !t.live() {
		return 0
	}
	return t.impl.Size()
}

// Capacity returns the number of buckets or slots.
func (t *Table[V]) Capacity() int {
	if !t.live() {
		return 0
	}
	return t.impl.Capacity()
}

// LoadFactor returns the occupied fraction of the capacity, or -1 for a nil
// or destroyed table.
func (t *Table[V]) LoadFactor() float64 {
	if !t.live() {
		return -1.0
	}
	return t.impl.LoadFactor()
}

// IsEmpty reports whether the table holds no entries.
func (t *Table[V]) IsEmpty() bool {
	return t.Size() == 0
}

// Stats reports occupancy and collision figures.
func (t *Table[V]) Stats() Stats {
	if !t.live() {
		return Stats{}
	}
	return t.impl.Stats()
}

// Destroy releases every live entry through the registered destructors and
// detaches the strategy. Later calls are no-ops.
func (t *Table[V]) Destroy() {
	if !t.live() {
		return
	}
	t.log.Debug("hashtable destroyed",
		zap.String("strategy", t.impl.Name()),
		zap.Int("size", t.impl.Size()))
	t.impl.Destroy()
	t.impl = nil
}
