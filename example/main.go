package main

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/theflywheel/keyedhash"
	"github.com/theflywheel/keyedhash/hashfn"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	chainingGrowth(logger)
	tombstoneReuse(logger)
	stringKeys(logger)
}

// chainingGrowth fills a four-bucket chaining table past its load factor.
func chainingGrowth(logger *zap.Logger) {
	fmt.Println("== Chaining ==")
	t, err := keyedhash.NewChaining[int](4, 0.75, keyedhash.BytesKeyOps[int](), keyedhash.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	defer t.Destroy()

	for k := 1; k <= 10; k++ {
		t.InsertInt(k, k*10)
	}
	fmt.Printf("Inserted 10 keys, capacity grew from 4 to %d\n", t.Capacity())

	for k := 1; k <= 12; k += 3 {
		if v, ok := t.SearchInt(k); ok {
			fmt.Printf("Key %d => Value %d\n", k, v)
		} else {
			fmt.Printf("Key %d not found\n", k)
		}
	}
	t.WriteStats(os.Stdout)
}

// tombstoneReuse shows an erased slot being taken by the next insert. All
// keys hash to slot 0, so they sit in consecutive slots.
func tombstoneReuse(logger *zap.Logger) {
	fmt.Println("== Open addressing ==")
	ops := keyedhash.BytesKeyOps[int]()
	ops.Hash = func([]byte) uint64 { return 0 }

	t, err := keyedhash.NewOpenAddressing[int](8, 0.5, ops, keyedhash.ProbeLinear, nil, keyedhash.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	defer t.Destroy()

	for _, k := range []int{10, 20, 30} {
		t.InsertInt(k, k)
	}
	t.EraseInt(20)
	fmt.Printf("After erasing 20: size=%d tombstones=%d\n", t.Size(), t.Stats().Tombstones)

	if v, ok := t.SearchInt(30); ok {
		fmt.Printf("30 is still reachable past the tombstone => %d\n", v)
	}

	t.InsertInt(25, 25)
	fmt.Printf("After inserting 25: size=%d tombstones=%d\n", t.Size(), t.Stats().Tombstones)
}

// stringKeys stores NUL-terminated string keys with double hashing.
func stringKeys(logger *zap.Logger) {
	fmt.Println("== String keys ==")
	t, err := keyedhash.NewOpenAddressing[string](8, 0.5, keyedhash.StringKeyOps[string](),
		keyedhash.ProbeDoubleHash, hashfn.XXHash64, keyedhash.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	defer t.Destroy()

	t.InsertString("Alice", "25")
	t.InsertString("Bob", "30")
	t.InsertString("Charlie", "35")

	if age, ok := t.SearchString("Alice"); ok {
		fmt.Println("Alice:", age)
	}
	t.UpdateString("Alice", "26")
	age, _ := t.SearchString("Alice")
	fmt.Println("Alice after update:", age)

	t.EraseString("Bob")
	if _, ok := t.SearchString("Bob"); !ok {
		fmt.Println("Bob erased")
	}
	fmt.Printf("Table %s holds %d entries (load factor %.3f)\n", t.Kind(), t.Size(), t.LoadFactor())
}
