package assistant

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Pacer inserts presentation delay before a response is produced.
// It never affects which response is chosen.
type Pacer interface {
	Pause(ctx context.Context) error
}

// NoDelay is a pacer that returns immediately
type NoDelay struct{}

// Pause returns ctx.Err() without waiting
func (NoDelay) Pause(ctx context.Context) error {
	return ctx.Err()
}

// RandomDelay waits a uniformly random duration in [Min, Max).
// The zero value never waits; a literal with only Min and Max set is usable.
type RandomDelay struct {
	Min time.Duration
	Max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDelay creates a pacer simulating thinking time
func NewRandomDelay(minDelay, maxDelay time.Duration) *RandomDelay {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &RandomDelay{
		Min: minDelay,
		Max: maxDelay,
		rng: newDelayRand(),
	}
}

func newDelayRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
}

// Duration draws the next delay
func (d *RandomDelay) Duration() time.Duration {
	span := d.Max - d.Min
	if span <= 0 {
		return d.Min
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rng == nil {
		d.rng = newDelayRand()
	}
	return d.Min + time.Duration(d.rng.Int64N(int64(span)))
}

// Pause sleeps for the next delay or until ctx is done
func (d *RandomDelay) Pause(ctx context.Context) error {
	delay := d.Duration()
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
