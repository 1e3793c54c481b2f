package keyedhash

import "reflect"

// ownership is decided once per table: values are owned only when a value
// destructor was registered.
type ownership uint8

const (
	borrowed ownership = iota
	owned
)

func (o ownership) String() string {
	if o == owned {
		return "owned"
	}
	return "borrowed"
}

// ownedKey is the table's private copy of a key. A nil buffer marks a key
// that has already been released.
type ownedKey struct {
	buf []byte
}

func copyKey(key []byte) ownedKey {
	buf := make([]byte, len(key))
	copy(buf, key)
	return ownedKey{buf: buf}
}

func (k ownedKey) bytes() []byte { return k.buf }

// valueCell holds one stored value. Releasing a cell clears it, so a second
// release is a no-op.
type valueCell[V any] struct {
	v    V
	live bool
}

func (c *valueCell[V]) store(v V) {
	c.v = v
	c.live = true
}

// lifecycle applies the KeyOps destructors under the table's ownership mode.
type lifecycle[V any] struct {
	mode         ownership
	destroyKey   func([]byte)
	destroyValue func(V)
}

func newLifecycle[V any](ops KeyOps[V]) lifecycle[V] {
	lc := lifecycle[V]{destroyKey: ops.DestroyKey, destroyValue: ops.DestroyValue}
	if ops.DestroyValue != nil {
		lc.mode = owned
	}
	return lc
}

func (lc lifecycle[V]) releaseKey(k *ownedKey) {
	if k.buf == nil {
		return
	}
	if lc.destroyKey != nil {
		lc.destroyKey(k.buf)
	}
	k.buf = nil
}

func (lc lifecycle[V]) releaseValue(c *valueCell[V]) {
	if !c.live {
		return
	}
	if lc.mode == owned {
		lc.destroyValue(c.v)
	}
	var zero V
	c.v = zero
	c.live = false
}

// replaceValue releases the current value, unless it is the very value being
// stored again, and stores v.
func (lc lifecycle[V]) replaceValue(c *valueCell[V], v V) {
	if c.live && lc.mode == owned && !sameValue(c.v, v) {
		lc.destroyValue(c.v)
	}
	c.store(v)
}

// sameValue reports identity for comparable values. The check looks at the
// dynamic contents, so a struct whose interface field holds a slice is never
// considered the same as anything.
func sameValue[V any](a, b V) bool {
	x, y := any(a), any(b)
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	if vx.Type() != vy.Type() || !vx.Comparable() || !vy.Comparable() {
		return false
	}
	return x == y
}
