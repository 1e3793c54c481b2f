package keyedhash

import (
	"fmt"
	"io"
)

// Stats is a point-in-time occupancy report. For chaining, a bucket is a
// chain; for open addressing, it is a slot and chain lengths are probe
// lengths.
type Stats struct {
	TotalElements      int
	UsedBuckets        int
	Buckets            int
	Tombstones         int
	MaxChainOrProbe    int
	AverageChainLength float64
	CollisionCount     int
}

func (s Stats) String() string {
	return fmt.Sprintf("Hash Table Stats:\n"+
		"    - Total elements: %d\n"+
		"    - Used buckets: %d/%d\n"+
		"    - Tombstones: %d\n"+
		"    - Max chain or probe: %d\n"+
		"    - Average chain length: %.2f\n"+
		"    - Collision count: %d\n",
		s.TotalElements,
		s.UsedBuckets, s.Buckets,
		s.Tombstones,
		s.MaxChainOrProbe,
		s.AverageChainLength,
		s.CollisionCount)
}

// WriteStats writes the stats report for t to w.
func (t *Table[V]) WriteStats(w io.Writer) error {
	_, err := io.WriteString(w, t.Stats().String())
	return err
}
