package distance

import "sync"

// Breaker is the process-wide latch for the provider's referrer restriction.
// Once tripped, routed and geocoded tiers are skipped for the remainder of
// the process lifetime; Reset exists for tests and operational recovery.
type Breaker struct {
	mu      sync.Mutex
	tripped bool
}

func NewBreaker() *Breaker {
	return &Breaker{}
}

func (b *Breaker) Trip() {
	b.mu.Lock()
	b.tripped = true
	b.mu.Unlock()
}

func (b *Breaker) Tripped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripped
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	b.tripped = false
	b.mu.Unlock()
}
