package channel

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness behind every channel decision.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// LockedSource serializes draws so one generator can serve concurrent
// transmissions.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSource(seed int64) *LockedSource {
	return &LockedSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewSeededSource uses seed, or the current time when seed is 0.
func NewSeededSource(seed int64) *LockedSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSource(seed)
}

func (self *LockedSource) Float64() float64 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.rng.Float64()
}

func (self *LockedSource) Intn(n int) int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.rng.Intn(n)
}
