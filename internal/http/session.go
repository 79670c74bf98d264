package http

import (
	"net/http"
	"sync"
	"time"

	"dividas/internal/core"
)

const sessionCookie = "dividas_session"

// session holds per-browser UI state. Dismissals live here on purpose: a
// dismissed reminder stays hidden for the life of the session and does not
// re-arm when the day changes.
type session struct {
	mu        sync.Mutex
	dismissed map[string]struct{}
	sort      core.SortConfig
	lastSeen  time.Time
}

func (s *session) dismiss(debtID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[debtID] = struct{}{}
}

// dismissedSet returns a copy safe to hand to the reminder engine.
func (s *session) dismissedSet() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.dismissed))
	for id := range s.dismissed {
		out[id] = struct{}{}
	}
	return out
}

func (s *session) setSort(cfg core.SortConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = cfg
}

func (s *session) sortConfig() core.SortConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// sessionStore keeps sessions in memory, keyed by cookie. Stale sessions
// are swept the same way the rate limiter sweeps stale clients.
type sessionStore struct {
	mu           sync.Mutex
	sessions     map[string]*session
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func newSessionStore() *sessionStore {
	st := &sessionStore{
		sessions:    make(map[string]*session),
		stopCleanup: make(chan struct{}),
	}
	go st.startCleanup()
	return st
}

func (st *sessionStore) startCleanup() {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st.cleanupStaleSessions()
		case <-st.stopCleanup:
			return
		}
	}
}

// cleanupStaleSessions removes sessions idle for more than a day.
func (st *sessionStore) cleanupStaleSessions() {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := time.Now().Add(-24 * time.Hour)
	for key, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(st.sessions, key)
		}
	}
}

func (st *sessionStore) stop() {
	st.shutdownOnce.Do(func() {
		close(st.stopCleanup)
	})
}

// ensure returns the session for the request, creating one and setting the
// cookie when the browser has none yet.
func (st *sessionStore) ensure(w http.ResponseWriter, r *http.Request) *session {
	var key string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		key = c.Value
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if key != "" {
		if s, ok := st.sessions[key]; ok {
			s.lastSeen = time.Now()
			return s
		}
	}

	key = generateRequestID()
	s := &session{
		dismissed: make(map[string]struct{}),
		sort:      core.SortConfig{Field: core.SortByDueDate, Direction: core.Ascending},
		lastSeen:  time.Now(),
	}
	st.sessions[key] = s

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}
