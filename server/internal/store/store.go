package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("store: session not found")

// Entry is one form session. Assessment is nil until the first accepted
// submission and again after a reset.
type Entry struct {
	ID         string
	Assessment *fiber.Assessment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store is a thread-safe in-memory session store keyed by session ID.
// A background goroutine (Run) periodically evicts sessions that have not
// been touched within the configured TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the idle lifetime of a session.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create opens an empty session and returns its ID (a random UUID).
func (s *Store) Create() string {
	id := uuid.NewString()
	now := s.now()
	s.mu.Lock()
	s.data[id] = &Entry{ID: id, CreatedAt: now, UpdatedAt: now}
	s.mu.Unlock()
	return id
}

// Put replaces the session's current assessment with a. The previous one,
// if any, is dropped.
func (s *Store) Put(id string, a fiber.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return ErrNotFound
	}
	e.Assessment = &a
	e.UpdatedAt = s.now()
	return nil
}

// Reset clears the session's assessment, as when the form is reset.
func (s *Store) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return ErrNotFound
	}
	e.Assessment = nil
	e.UpdatedAt = s.now()
	return nil
}

// Get returns a copy of the live session with the given ID.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.live(id)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Delete removes the session. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
}

// Count returns the total number of sessions currently held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes sessions whose UpdatedAt is older than now minus TTL.
// It returns the number of sessions removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for id, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL interval
// (minimum 1 second) so sessions are evicted promptly. Run blocks until ctx is
// cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted idle sessions", "count", n)
			}
		}
	}
}

// live returns the entry for id if it exists and has not expired.
// Callers must hold s.mu.
func (s *Store) live(id string) (*Entry, bool) {
	e, ok := s.data[id]
	if !ok || !e.UpdatedAt.After(s.now().Add(-s.ttl)) {
		return nil, false
	}
	return e, true
}
