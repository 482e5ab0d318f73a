package mock

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the randomness the payload builders draw from. *rand.Rand
// satisfies it; tests pass a seeded one to get reproducible payloads.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// LockedSource makes a Source safe for concurrent use by the gateway.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewSource returns a PCG-backed source. A zero seed means "seed from the
// clock".
func NewSource(seed uint64) *LockedSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedSource{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Wrap guards an existing Source with a mutex.
func Wrap(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

func (s *LockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.IntN(n)
}

// between returns a value in [lo, hi] rounded to two decimals.
func between(src Source, lo, hi float64) float64 {
	v := round2(lo + src.Float64()*(hi-lo))
	if v > hi {
		v = hi
	}
	return v
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func chance(src Source, p float64) bool {
	return src.Float64() < p
}
