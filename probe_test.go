package keyedhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoprimeStride(t *testing.T) {
	for capacity := uint64(2); capacity <= 130; capacity++ {
		for h2 := uint64(0); h2 < 300; h2 += 7 {
			stride := coprimeStride(h2, capacity)
			require.GreaterOrEqual(t, stride, uint64(1))
			require.Less(t, stride, capacity)
			require.Equal(t, uint64(1), gcd(stride, capacity), "capacity=%d h2=%d stride=%d", capacity, h2, stride)
		}
	}
	assert.Equal(t, uint64(1), coprimeStride(12345, 1))
}

func TestProbeSequenceCoverage(t *testing.T) {
	for _, capacity := range []uint64{8, 12, 13, 16, 64, 100} {
		for _, strategy := range []ProbeStrategy{ProbeLinear, ProbeDoubleHash} {
			for h := uint64(0); h < 50; h += 3 {
				seq := newProbeSeq(strategy, h*31, h*17+5, capacity)
				seen := make(map[uint64]bool, capacity)
				for step := uint64(0); step < capacity; step++ {
					idx := seq.at(step)
					require.Less(t, idx, capacity)
					seen[idx] = true
				}
				require.Len(t, seen, int(capacity), "%s capacity=%d h=%d", strategy, capacity, h)
			}
		}
	}
}

func TestQuadraticSequence(t *testing.T) {
	seq := newProbeSeq(ProbeQuadratic, 13, 0, 16)
	got := make([]uint64, 5)
	for i := range got {
		got[i] = seq.at(uint64(i))
	}
	assert.Equal(t, []uint64{13, 14, 1, 6, 13}, got)
}

func TestLinearSequenceWraps(t *testing.T) {
	seq := newProbeSeq(ProbeLinear, 7, 0, 8)
	assert.Equal(t, uint64(7), seq.at(0))
	assert.Equal(t, uint64(0), seq.at(1))
	assert.Equal(t, uint64(6), seq.at(7))
}

func TestParseProbeStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want ProbeStrategy
	}{
		{"", ProbeLinear},
		{"linear", ProbeLinear},
		{"quadratic", ProbeQuadratic},
		{"double", ProbeDoubleHash},
		{"doublehash", ProbeDoubleHash},
	}
	for _, tt := range tests {
		got, err := ParseProbeStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseProbeStrategy("cuckoo")
	require.ErrorIs(t, err, ErrInvalidProbe)
	assert.Equal(t, "unknown", ProbeStrategy(7).String())
}
