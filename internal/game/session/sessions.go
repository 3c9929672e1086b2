// Package session tracks what each connected user still needs to be told:
// queued notifications, a dirty flag and whether the stat catalog was sent.
package session

import "sync"

type userState struct {
	anyChanges    bool
	notifications []string
	catalogSent   bool
}

// Sessions holds per-user delivery state. It is safe for concurrent use.
type Sessions struct {
	mu    sync.Mutex
	users map[string]*userState
}

// New creates sessions for the given users. Every user starts dirty so the
// first poll renders the map.
func New(users []string) *Sessions {
	s := &Sessions{users: make(map[string]*userState, len(users))}
	for _, u := range users {
		s.users[u] = &userState{anyChanges: true}
	}
	return s
}

func (s *Sessions) get(user string) *userState {
	st, ok := s.users[user]
	if !ok {
		st = &userState{anyChanges: true}
		s.users[user] = st
	}
	return st
}

// MarkAllChanged raises the dirty flag for every user, whether or not the
// change concerns them.
func (s *Sessions) MarkAllChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.users {
		st.anyChanges = true
	}
}

// Notify queues a message for one user.
func (s *Sessions) Notify(user, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(user)
	st.notifications = append(st.notifications, msg)
}

// NotifyAll queues a message for every known user.
func (s *Sessions) NotifyAll(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.users {
		st.notifications = append(st.notifications, msg)
	}
}

// Drain returns and clears the user's queued notifications, and reports and
// clears their dirty flag. Call it while building the response, after all
// mutations of the request have been committed.
func (s *Sessions) Drain(user string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(user)
	notes := st.notifications
	st.notifications = nil
	changed := st.anyChanges
	st.anyChanges = false
	if notes == nil {
		notes = []string{}
	}
	return notes, changed
}

// ConsumeFirstSync reports true exactly once per user, on the first request
// that should carry the full stat catalog.
func (s *Sessions) ConsumeFirstSync(user string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(user)
	if st.catalogSent {
		return false
	}
	st.catalogSent = true
	return true
}

// Reset forgets what was delivered and marks everyone dirty, e.g. after the
// map was reloaded.
func (s *Sessions) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for user := range s.users {
		s.users[user] = &userState{anyChanges: true}
	}
}
