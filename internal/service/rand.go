package service

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the randomness the play engine consumes: uniform floats for the
// prize draw and uniform ints for voucher code generation. *math/rand.Rand
// satisfies it, but is not safe for concurrent use; production wiring should
// use NewLockedRand.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// lockedRand serializes access to a shared *rand.Rand so concurrent request
// handlers can draw from one source.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand returns a goroutine-safe Rand seeded with the given seed.
func NewLockedRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRand returns a goroutine-safe Rand seeded from the wall clock.
func NewTimeSeededRand() Rand {
	return NewLockedRand(time.Now().UnixNano())
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}
