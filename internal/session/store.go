package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps sessions in process memory. Sessions idle for longer than
// ttl are dropped on access and by Sweep. Sessions nobody has logged into
// use anonTTL instead, so cookieless traffic does not pile up.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	anonTTL  time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, anonTTL: ttl, now: time.Now, sessions: make(map[string]*Session)}
}

// SetAnonymousTTL sets the idle limit for sessions without a logged-in
// user. Zero keeps them as long as ttl.
func (st *Store) SetAnonymousTTL(d time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if d <= 0 {
		d = st.ttl
	}
	st.anonTTL = d
}

// New creates and registers an anonymous session.
func (st *Store) New() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := newSession(uuid.NewString(), st.now())
	st.sessions[s.ID] = s
	return s
}

// Get returns a live session and refreshes its activity time.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.sessions, id)
		return nil, false
	}
	s.LastActivity = now
	return s, true
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Sweep drops expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	n := 0
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session, now time.Time) bool {
	ttl := st.ttl
	if !s.authenticated.Load() {
		ttl = st.anonTTL
	}
	return ttl > 0 && now.Sub(s.LastActivity) > ttl
}
