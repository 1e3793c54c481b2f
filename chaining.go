package keyedhash

import (
	"go.uber.org/zap"

	"github.com/theflywheel/keyedhash/internal/container/dlist"
	"github.com/theflywheel/keyedhash/internal/container/dynarray"
)

type chainEntry[V any] struct {
	key ownedKey
	val valueCell[V]
}

// chaining resolves collisions by keeping every entry of a bucket in a list.
type chaining[V any] struct {
	buckets         *dynarray.Array[*dlist.List[*chainEntry[V]]]
	size            int
	capacity        int
	collisions      int
	maxLoadFactor   float64
	shrinkThreshold float64

	ops KeyOps[V]
	lc  lifecycle[V]
	log *zap.Logger
}

func newChaining[V any](capacity int, maxLoadFactor float64, ops KeyOps[V], cfg settings) *chaining[V] {
	if capacity <= 0 {
		capacity = minCapacity
	}
	c := &chaining[V]{
		capacity:        capacity,
		maxLoadFactor:   maxLoadFactor,
		shrinkThreshold: cfg.shrinkThreshold,
		ops:             ops,
		lc:              newLifecycle(ops),
		log:             cfg.logger,
	}
	c.buckets = c.newBuckets(capacity)
	return c
}

func (c *chaining[V]) Name() string { return "chaining" }

func (c *chaining[V]) equal(a, b *chainEntry[V]) bool {
	return c.ops.Equal(a.key.bytes(), b.key.bytes())
}

func (c *chaining[V]) newBuckets(n int) *dynarray.Array[*dlist.List[*chainEntry[V]]] {
	buckets := dynarray.New[*dlist.List[*chainEntry[V]]](n)
	for i := 0; i < n; i++ {
		buckets.Push(dlist.New(c.equal))
	}
	return buckets
}

func (c *chaining[V]) index(key []byte, capacity int) int {
	return int(c.ops.Hash(key) % uint64(capacity))
}

func (c *chaining[V]) bucketFor(key []byte) *dlist.List[*chainEntry[V]] {
	b, _ := c.buckets.At(c.index(key, c.capacity))
	return b
}

// find returns the node holding key in its bucket, or nil.
func (c *chaining[V]) find(key []byte) (*dlist.List[*chainEntry[V]], *dlist.Node[*chainEntry[V]]) {
	b := c.bucketFor(key)
	return b, b.Find(&chainEntry[V]{key: ownedKey{buf: key}})
}

func (c *chaining[V]) Insert(key []byte, v V) bool {
	b, n := c.find(key)
	if n != nil {
		c.lc.replaceValue(&n.Value.val, v)
		return true
	}

	if !b.IsEmpty() {
		c.collisions++
	}
	e := &chainEntry[V]{key: copyKey(key)}
	e.val.store(v)
	b.PushBack(e)
	c.size++

	c.resizeIfNeeded()
	return true
}

// resizeIfNeeded grows past the max load factor and shrinks below the
// shrink threshold. Only inserts call it.
func (c *chaining[V]) resizeIfNeeded() {
	alpha := float64(c.size) / float64(c.capacity)
	if alpha > c.maxLoadFactor {
		c.rehash(nextCapacity(c.capacity))
		return
	}
	if alpha < c.shrinkThreshold {
		target := prevCapacity(c.capacity)
		if target < c.capacity && float64(c.size)/float64(target) <= c.maxLoadFactor {
			c.rehash(target)
		}
	}
}

// rehash relinks every node into a fresh bucket array and recounts
// collisions as if the entries had been inserted in drain order.
func (c *chaining[V]) rehash(capacity int) {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	fresh := c.newBuckets(capacity)
	collisions := 0

	c.buckets.Each(func(_ int, old *dlist.List[*chainEntry[V]]) bool {
		for !old.IsEmpty() {
			n, _ := old.PopFront()
			dst, _ := fresh.At(c.index(n.Value.key.bytes(), capacity))
			if !dst.IsEmpty() {
				collisions++
			}
			dst.PushBackNode(n)
		}
		return true
	})
	c.buckets.Destroy(nil)

	c.log.Debug("hashtable resized",
		zap.String("strategy", c.Name()),
		zap.Int("from", c.capacity),
		zap.Int("to", capacity),
		zap.Int("size", c.size))

	c.buckets = fresh
	c.capacity = capacity
	c.collisions = collisions
}

func (c *chaining[V]) Search(key []byte) (V, bool) {
	_, n := c.find(key)
	if n == nil {
		var zero V
		return zero, false
	}
	return n.Value.val.v, true
}

func (c *chaining[V]) Update(key []byte, v V) bool {
	_, n := c.find(key)
	if n == nil {
		return false
	}
	c.lc.replaceValue(&n.Value.val, v)
	return true
}

// Erase never shrinks the table.
func (c *chaining[V]) Erase(key []byte) bool {
	b, n := c.find(key)
	if n == nil {
		return false
	}
	e := b.Remove(n)
	c.release(e)
	c.size--
	return true
}

func (c *chaining[V]) release(e *chainEntry[V]) {
	c.lc.releaseKey(&e.key)
	c.lc.releaseValue(&e.val)
}

func (c *chaining[V]) Size() int { return c.size }

func (c *chaining[V]) Capacity() int { return c.capacity }

func (c *chaining[V]) LoadFactor() float64 {
	return float64(c.size) / float64(c.capacity)
}

func (c *chaining[V]) Stats() Stats {
	s := Stats{
		TotalElements:  c.size,
		Buckets:        c.capacity,
		CollisionCount: c.collisions,
	}
	total := 0
	c.buckets.Each(func(_ int, b *dlist.List[*chainEntry[V]]) bool {
		n := b.Len()
		total += n
		if n > 0 {
			s.UsedBuckets++
		}
		if n > s.MaxChainOrProbe {
			s.MaxChainOrProbe = n
		}
		return true
	})
	if c.capacity > 0 {
		s.AverageChainLength = float64(total) / float64(c.capacity)
	}
	return s
}

func (c *chaining[V]) Destroy() {
	c.buckets.Each(func(_ int, b *dlist.List[*chainEntry[V]]) bool {
		b.Destroy(c.release)
		return true
	})
	c.buckets.Destroy(nil)
	c.size = 0
	c.collisions = 0
}
