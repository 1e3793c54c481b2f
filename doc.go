/*
Package keyedhash provides a generic hash table keyed by raw byte strings,
backed by one of two interchangeable collision-resolution strategies.

A Table is created bound to exactly one strategy and forwards every call to
it. Separate chaining keeps colliding entries in per-bucket lists; open
addressing stores them in a flat slot array probed linearly, quadratically or
by double hashing.

Basic usage:

	import "github.com/theflywheel/keyedhash"

	// Chaining table, 16 buckets, grow past 0.75 occupancy
	t, err := keyedhash.NewChaining[string](16, 0.75, keyedhash.StringKeyOps[string]())
	if err != nil {
		log.Fatal(err)
	}
	defer t.Destroy()

	t.InsertString("Alice", "25")
	if age, ok := t.SearchString("Alice"); ok {
		fmt.Println("Alice:", age)
	}

	// Open addressing with double hashing
	oa, err := keyedhash.NewOpenAddressing[int](8, 0.5, keyedhash.BytesKeyOps[int](),
		keyedhash.ProbeDoubleHash, hashfn.XXHash64)

Features:

  - Keys are always copied into table-owned storage
  - Values are owned by the table only when KeyOps.DestroyValue is set, and
    are then released exactly once (overwrite, erase or destroy)
  - Chaining grows past the max load factor and shrinks below a quarter full
  - Open addressing counts tombstones toward the load factor, drops them on
    every rehash, and never exceeds the max load factor after an insert
  - Double hashing strides are kept coprime with the capacity so a probe
    sequence visits every slot
  - Resize events are logged through an optional zap logger

Implementation Details:

Chaining stores buckets in an index-addressed array of doubly linked lists.
A rehash drains every list node by node and relinks the nodes into the new
buckets, so entries are never copied. Its collision count is the number of
inserts that landed in a non-empty bucket, recomputed on every rehash.

Open addressing slots are Empty, Occupied or Tombstone. A lookup stops at
the first Empty slot; an insert reuses the first tombstone on its path. Erase
never rehashes; the next insert decides whether to grow or shrink.

Tables are not safe for concurrent use.
*/
package keyedhash
