package keyedhash

import (
	"go.uber.org/zap"
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot[V any] struct {
	state slotState
	key   ownedKey
	val   valueCell[V]
}

// openAddressing keeps entries in a flat slot array. Erased slots become
// tombstones so probe sequences running through them stay intact.
type openAddressing[V any] struct {
	slots           []slot[V]
	size            int
	tombstones      int
	maxLoadFactor   float64
	shrinkThreshold float64
	probe           ProbeStrategy
	secondary       HashFunc
	growAttempts    int

	ops KeyOps[V]
	lc  lifecycle[V]
	log *zap.Logger
}

func newOpenAddressing[V any](capacity int, maxLoadFactor float64, ops KeyOps[V], probe ProbeStrategy, secondary HashFunc, cfg settings) *openAddressing[V] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &openAddressing[V]{
		slots:           make([]slot[V], capacity),
		maxLoadFactor:   maxLoadFactor,
		shrinkThreshold: cfg.shrinkThreshold,
		probe:           probe,
		secondary:       secondary,
		growAttempts:    maxGrowAttempts,
		ops:             ops,
		lc:              newLifecycle(ops),
		log:             cfg.logger,
	}
}

func (o *openAddressing[V]) Name() string { return "open-addressing/" + o.probe.String() }

func (o *openAddressing[V]) sequence(key []byte) probeSeq {
	var h2 uint64
	if o.probe == ProbeDoubleHash {
		h2 = o.secondary(key)
	}
	return newProbeSeq(o.probe, o.ops.Hash(key), h2, uint64(len(o.slots)))
}

// locate walks the probe sequence of key. On a hit it returns the occupied
// slot. Otherwise it returns the first tombstone seen, else the empty slot
// that ended the walk, else -1 when the whole cycle held neither.
func (o *openAddressing[V]) locate(key []byte) (int, bool) {
	seq := o.sequence(key)
	firstTomb := -1
	for step := uint64(0); step < seq.capacity; step++ {
		idx := int(seq.at(step))
		s := &o.slots[idx]
		switch s.state {
		case slotOccupied:
			if o.ops.Equal(s.key.bytes(), key) {
				return idx, true
			}
		case slotTombstone:
			if firstTomb < 0 {
				firstTomb = idx
			}
		default:
			if firstTomb >= 0 {
				return firstTomb, false
			}
			return idx, false
		}
	}
	return firstTomb, false
}

// probeLength returns how many slots a lookup of a stored key examines.
func (o *openAddressing[V]) probeLength(key []byte) int {
	seq := o.sequence(key)
	for step := uint64(0); step < seq.capacity; step++ {
		s := &o.slots[seq.at(step)]
		if s.state == slotOccupied && o.ops.Equal(s.key.bytes(), key) {
			return int(step) + 1
		}
	}
	return int(seq.capacity)
}

func (o *openAddressing[V]) overloaded(extra int) bool {
	return float64(o.size+o.tombstones+extra)/float64(len(o.slots)) > o.maxLoadFactor
}

func (o *openAddressing[V]) Insert(key []byte, v V) bool {
	idx, hit := o.locate(key)
	if hit {
		o.lc.replaceValue(&o.slots[idx].val, v)
		return true
	}

	if idx < 0 || (o.slots[idx].state == slotEmpty && o.overloaded(1)) {
		if idx = o.growFor(key); idx < 0 {
			o.log.Warn("hashtable insert failed",
				zap.String("strategy", o.Name()),
				zap.Int("capacity", len(o.slots)),
				zap.Int("size", o.size))
			return false
		}
	}

	s := &o.slots[idx]
	if s.state == slotTombstone {
		o.tombstones--
	}
	s.key = copyKey(key)
	s.val.store(v)
	s.state = slotOccupied
	o.size++

	o.shrinkIfSparse()
	return true
}

// growFor doubles the capacity until one more entry fits under the max load
// factor, then returns the slot key should take. A quadratic sequence only
// reaches part of the table, so when the rehash or the placement fails it
// keeps doubling, at most growAttempts times. When every attempt fails the
// original slots and tombstones are restored.
func (o *openAddressing[V]) growFor(key []byte) int {
	slots, tombstones := o.slots, o.tombstones
	target := nextCapacity(len(o.slots))
	for float64(o.size+1)/float64(target) > o.maxLoadFactor {
		target = nextCapacity(target)
	}
	for attempt := 0; attempt < o.growAttempts; attempt++ {
		if o.rehash(target) {
			if idx, _ := o.locate(key); idx >= 0 {
				return idx
			}
		}
		target = nextCapacity(target)
	}
	o.slots, o.tombstones = slots, tombstones
	return -1
}

func (o *openAddressing[V]) shrinkIfSparse() {
	capacity := len(o.slots)
	if float64(o.size)/float64(capacity) >= o.shrinkThreshold {
		return
	}
	target := prevCapacity(capacity)
	if target >= capacity || float64(o.size)/float64(target) > o.maxLoadFactor {
		return
	}
	o.rehash(target)
}

// rehash moves every occupied slot into a fresh array of the given
// capacity. On failure the table is left exactly as it was.
func (o *openAddressing[V]) rehash(capacity int) bool {
	old := o.slots
	o.slots = make([]slot[V], capacity)

	for i := range old {
		if old[i].state != slotOccupied {
			continue
		}
		idx, _ := o.locate(old[i].key.bytes())
		if idx < 0 {
			o.slots = old
			return false
		}
		o.slots[idx] = old[i]
	}

	o.log.Debug("hashtable resized",
		zap.String("strategy", o.Name()),
		zap.Int("from", len(old)),
		zap.Int("to", capacity),
		zap.Int("size", o.size),
		zap.Int("tombstones", o.tombstones))

	o.tombstones = 0
	return true
}

func (o *openAddressing[V]) Search(key []byte) (V, bool) {
	idx, hit := o.locate(key)
	if !hit {
		var zero V
		return zero, false
	}
	return o.slots[idx].val.v, true
}

func (o *openAddressing[V]) Update(key []byte, v V) bool {
	idx, hit := o.locate(key)
	if !hit {
		return false
	}
	o.lc.replaceValue(&o.slots[idx].val, v)
	return true
}

func (o *openAddressing[V]) Erase(key []byte) bool {
	idx, hit := o.locate(key)
	if !hit {
		return false
	}
	s := &o.slots[idx]
	o.lc.releaseKey(&s.key)
	o.lc.releaseValue(&s.val)
	s.state = slotTombstone
	o.size--
	o.tombstones++
	return true
}

func (o *openAddressing[V]) Size() int { return o.size }

func (o *openAddressing[V]) Capacity() int { return len(o.slots) }

// LoadFactor counts tombstones as occupied, matching the grow trigger.
func (o *openAddressing[V]) LoadFactor() float64 {
	return float64(o.size+o.tombstones) / float64(len(o.slots))
}

func (o *openAddressing[V]) Stats() Stats {
	s := Stats{
		TotalElements:  o.size,
		Buckets:        len(o.slots),
		Tombstones:     o.tombstones,
		CollisionCount: o.tombstones,
	}
	total := 0
	for i := range o.slots {
		if o.slots[i].state != slotOccupied {
			continue
		}
		s.UsedBuckets++
		n := o.probeLength(o.slots[i].key.bytes())
		total += n
		s.CollisionCount += n - 1
		if n > s.MaxChainOrProbe {
			s.MaxChainOrProbe = n
		}
	}
	if s.UsedBuckets > 0 {
		s.AverageChainLength = float64(total) / float64(s.UsedBuckets)
	}
	return s
}

func (o *openAddressing[V]) Destroy() {
	for i := range o.slots {
		s := &o.slots[i]
		if s.state == slotOccupied {
			o.lc.releaseKey(&s.key)
			o.lc.releaseValue(&s.val)
		}
	}
	o.slots = nil
	o.size = 0
	o.tombstones = 0
}
