package cache

import (
	"context"
	"time"
)

// Store is a generic cache for derived dashboard data. Implementations are
// safe for concurrent use; misses and backend failures both surface as a
// false second return so callers always fall back to recomputing.
type Store[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T)
	Delete(ctx context.Context, key string)
	Size() int
}

// Cleaner is implemented by in-process stores that hold expired entries
// until swept.
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps registered in-process caches on a fixed interval.
type Manager struct {
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins the periodic sweep. Call Stop to end it.
func (m *Manager) StartCleanup(interval time.Duration) {
	go func() {
		defer close(m.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for _, c := range m.caches {
					c.CleanExpired()
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop ends the sweep goroutine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.done
}
