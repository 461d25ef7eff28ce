package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another request
	Wait()
	// Reset resets the rate limiter state
	Reset()
}

// TokenBucket implements a token bucket rate limiter. The orchestrator
// uses it to cap the overall request rate of a batch run.
type TokenBucket struct {
	capacity     int           // Maximum number of tokens
	tokens       int           // Current number of tokens
	refillPeriod time.Duration // Period after which bucket is refilled
	lastRefill   time.Time     // Last time the bucket was refilled
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter.
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if a request can proceed.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available.
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill > 0 {
			time.Sleep(timeUntilRefill)
		} else {
			// Small sleep to prevent busy waiting
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Reset resets the token bucket to full capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// refill adds tokens based on elapsed time.
func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

// Pacer enforces a fixed minimum interval between consecutive requests.
// The discovery engine uses it for the inter-search delays of the batch
// sizing policy; requests run strictly one at a time, so pacing is the
// only throttle discovery needs.
type Pacer struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
	// sleep is swappable so tests can run without real delays.
	sleep func(time.Duration)
}

// NewPacer creates a pacer with the given minimum interval.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, sleep: time.Sleep}
}

// SetSleepFunc replaces the sleep function. Used by tests.
func (p *Pacer) SetSleepFunc(sleep func(time.Duration)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sleep = sleep
}

// Interval returns the configured minimum interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Allow reports whether the interval since the last request has passed,
// consuming the slot when it has.
func (p *Pacer) Allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.last.IsZero() || now.Sub(p.last) >= p.interval {
		p.last = now
		return true
	}
	return false
}

// Wait blocks until the interval has passed, then consumes the slot.
func (p *Pacer) Wait() {
	p.mu.Lock()
	now := time.Now()
	var remaining time.Duration
	if !p.last.IsZero() {
		remaining = p.interval - now.Sub(p.last)
	}
	sleep := p.sleep
	p.mu.Unlock()

	if remaining > 0 {
		sleep(remaining)
	}

	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
}

// Reset clears the pacer so the next request proceeds immediately.
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = time.Time{}
}
