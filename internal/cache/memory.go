package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process TTL cache with LRU eviction once maxSize
// entries are held.
type MemoryStore[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	byKey   map[string]*list.Element
	order   *list.List
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

func NewMemoryStore[T any](maxSize int, ttl time.Duration) *MemoryStore[T] {
	return &MemoryStore[T]{
		maxSize: maxSize,
		ttl:     ttl,
		byKey:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (s *MemoryStore[T]) Get(_ context.Context, key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	elem, ok := s.byKey[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		s.remove(elem)
		return zero, false
	}

	s.order.MoveToFront(elem)
	return e.value, true
}

func (s *MemoryStore[T]) Set(_ context.Context, key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry[T]{key: key, value: value, expiresAt: time.Now().Add(s.ttl)}
	if elem, ok := s.byKey[key]; ok {
		elem.Value = e
		s.order.MoveToFront(elem)
		return
	}

	s.byKey[key] = s.order.PushFront(e)
	if s.order.Len() > s.maxSize {
		if oldest := s.order.Back(); oldest != nil {
			s.remove(oldest)
		}
	}
}

func (s *MemoryStore[T]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.byKey[key]; ok {
		s.remove(elem)
	}
}

// CleanExpired drops every expired entry and reports how many were removed.
func (s *MemoryStore[T]) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var expired []*list.Element
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			expired = append(expired, elem)
		}
	}
	for _, elem := range expired {
		s.remove(elem)
	}
	return len(expired)
}

func (s *MemoryStore[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}

// remove expects s.mu held.
func (s *MemoryStore[T]) remove(elem *list.Element) {
	delete(s.byKey, elem.Value.(*entry[T]).key)
	s.order.Remove(elem)
}
