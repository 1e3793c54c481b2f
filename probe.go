package keyedhash

import (
	"github.com/cockroachdb/errors"
)

// ProbeStrategy selects how open addressing walks the slot array after a
// collision.
type ProbeStrategy uint8

const (
	ProbeLinear ProbeStrategy = iota
	ProbeQuadratic
	ProbeDoubleHash
)

func (p ProbeStrategy) String() string {
	switch p {
	case ProbeLinear:
		return "linear"
	case ProbeQuadratic:
		return "quadratic"
	case ProbeDoubleHash:
		return "double"
	}
	return "unknown"
}

func (p ProbeStrategy) valid() bool {
	return p <= ProbeDoubleHash
}

// ParseProbeStrategy accepts the names printed by ProbeStrategy.String.
func ParseProbeStrategy(s string) (ProbeStrategy, error) {
	switch s {
	case "", "linear":
		return ProbeLinear, nil
	case "quadratic":
		return ProbeQuadratic, nil
	case "double", "doublehash":
		return ProbeDoubleHash, nil
	}
	return 0, errors.Wrapf(ErrInvalidProbe, "%q", s)
}

// probeSeq yields the candidate slots for one key.
type probeSeq struct {
	strategy ProbeStrategy
	start    uint64
	stride   uint64
	capacity uint64
}

func newProbeSeq(strategy ProbeStrategy, h1, h2, capacity uint64) probeSeq {
	p := probeSeq{strategy: strategy, start: h1 % capacity, capacity: capacity}
	if strategy == ProbeDoubleHash {
		p.stride = coprimeStride(h2, capacity)
	}
	return p
}

func (p probeSeq) at(step uint64) uint64 {
	s := step % p.capacity
	switch p.strategy {
	case ProbeQuadratic:
		return (p.start + (s*s)%p.capacity) % p.capacity
	case ProbeDoubleHash:
		return (p.start + (s*p.stride)%p.capacity) % p.capacity
	default:
		return (p.start + s) % p.capacity
	}
}

// coprimeStride derives a step in [1, capacity-1] from h2 and bumps it until
// it shares no factor with capacity, so the sequence covers every slot.
func coprimeStride(h2, capacity uint64) uint64 {
	if capacity < 2 {
		return 1
	}
	stride := 1 + h2%(capacity-1)
	for gcd(stride, capacity) != 1 {
		stride++
		if stride == capacity {
			stride = 1
		}
	}
	return stride
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
