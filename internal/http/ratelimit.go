package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// writeLimitPerMinute caps form submissions per client IP. Reads are
	// never limited; only the mutating endpoints go through allow.
	writeLimitPerMinute = 60

	limiterSweepInterval = 5 * time.Minute
	limiterEntryMaxIdle  = 10 * time.Minute
)

// rateLimiter tracks per-IP request counts over a rolling one minute window.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientWindow struct {
	windowStart time.Time
	lastSeen    time.Time
	count       int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropIdleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) dropIdleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-limiterEntryMaxIdle)
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop shuts down the sweep goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether a write from the given IP fits in its current
// window. Exceeding the limit bumps the rate limit metric.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[clientIP]
	if !ok || now.Sub(c.windowStart) > time.Minute {
		rl.clients[clientIP] = &clientWindow{
			windowStart: now,
			lastSeen:    now,
			count:       1,
		}
		return true
	}

	c.count++
	c.lastSeen = now
	if c.count > writeLimitPerMinute {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
