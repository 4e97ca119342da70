package server

import (
	"sync"
	"time"

	"github.com/finopskit/master-budget/internal/budget"
	"github.com/google/uuid"
)

// session holds one caller's workspace: the tables uploaded so far, the
// statement if one was uploaded, and the policy to apply. Sessions live in
// memory only and expire after sitting idle.
type session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Policy    budget.Policy
	Inputs    budget.Inputs
	Statement []budget.StatementRow
}

// sessionStore tracks sessions by ID. Expired sessions are swept lazily on
// the next store access rather than by a background goroutine.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session preloaded with the default policy and
// returns a copy of it.
func (s *sessionStore) Create() session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	now := s.now()
	sess := &session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Policy:    budget.DefaultPolicy(),
	}
	s.sessions[sess.ID] = sess
	return *sess
}

// Update applies fn to a live session under the store lock and refreshes its
// idle timer. It reports whether the session existed.
func (s *sessionStore) Update(id string, fn func(*session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	fn(sess)
	sess.UpdatedAt = s.now()
	return true
}

// Snapshot returns a copy of a live session and refreshes its idle timer.
// Upload handlers replace whole slices, so the copied slice headers stay
// consistent for a concurrent compute.
func (s *sessionStore) Snapshot(id string) (session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return session{}, false
	}
	sess.UpdatedAt = s.now()
	return *sess, true
}

// Len reports the number of live sessions.
func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *sessionStore) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
