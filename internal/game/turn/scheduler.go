// Package turn implements the round-robin turn schedule.
//
// The schedule is purely declarative: every scheduled user has a deadline
// stored in the world state, and the turn owner is the user whose deadline
// comes first. Nothing in here runs on a timer; stalled players are caught up
// lazily through Overdue.
package turn

import (
	"time"

	"github.com/nfrund/fogwar/internal/game/world"
)

// DefaultGrace is how long past a deadline the owner may take before the
// referee's next sync skips their turn.
const DefaultGrace = 2000 * time.Millisecond

// Scheduler orders the non-admin users. It holds no mutable state of its own;
// deadlines live in world.State so they are persisted with the map.
type Scheduler struct {
	users []string
	grace time.Duration
}

// NewScheduler creates a scheduler over users in turn order.
func NewScheduler(users []string, grace time.Duration) *Scheduler {
	if grace <= 0 {
		grace = DefaultGrace
	}
	ordered := make([]string, len(users))
	copy(ordered, users)
	return &Scheduler{users: ordered, grace: grace}
}

// Users returns the schedule order.
func (sc *Scheduler) Users() []string {
	out := make([]string, len(sc.users))
	copy(out, sc.users)
	return out
}

// Advance describes a completed turn.
type Advance struct {
	User          string
	Next          string
	NextDeadline  int64
	RoundComplete bool
}

// NextTurnUser returns the user whose turn it is, or "" during deployment.
func (sc *Scheduler) NextTurnUser(s *world.State) string {
	if !s.GameStarted {
		return ""
	}
	owner := ""
	var best int64
	for _, u := range sc.users {
		d, ok := s.TurnChangeTime[u]
		if !ok {
			continue
		}
		if owner == "" || d < best {
			owner, best = u, d
		}
	}
	return owner
}

// Deadline returns the user's next deadline in ms since epoch, or 0 when none
// is scheduled.
func (sc *Scheduler) Deadline(s *world.State, user string) int64 {
	if !s.GameStarted {
		return 0
	}
	return s.TurnChangeTime[user]
}

// IsTurnOf reports whether user currently owns the turn.
func (sc *Scheduler) IsTurnOf(s *world.State, user string) bool {
	owner := sc.NextTurnUser(s)
	return owner != "" && owner == user
}

// Start ends the deployment phase. Users are given consecutive deadlines one
// turn apart, beginning one turn from now.
func (sc *Scheduler) Start(s *world.State, now time.Time) {
	s.GameStarted = true
	if s.TurnChangeTime == nil {
		s.TurnChangeTime = make(map[string]int64, len(sc.users))
	}
	base := now.UnixMilli()
	for i, u := range sc.users {
		s.TurnChangeTime[u] = base + int64(i+1)*s.TurnTime
	}
}

// Complete closes user's turn and shifts the whole ring forward. The next
// user's deadline is now + turn time + offset; each user after that follows
// one turn later. When the last user in order finishes, the game clock moves
// on by one.
func (sc *Scheduler) Complete(s *world.State, user string, now time.Time, offset time.Duration) Advance {
	idx := sc.index(user)
	if idx < 0 {
		return Advance{User: user}
	}
	n := len(sc.users)
	adv := Advance{User: user}
	if idx == n-1 {
		s.CurrentTime++
		adv.RoundComplete = true
	}

	deadline := now.UnixMilli() + s.TurnTime + offset.Milliseconds()
	for k := 1; k <= n; k++ {
		u := sc.users[(idx+k)%n]
		s.TurnChangeTime[u] = deadline
		if k == 1 {
			adv.Next, adv.NextDeadline = u, deadline
		}
		deadline += s.TurnTime
	}
	return adv
}

// Overdue reports a turn owner who is more than the grace window past their
// deadline. The returned offset backdates the rescheduling to the missed
// deadline.
func (sc *Scheduler) Overdue(s *world.State, now time.Time) (string, time.Duration, bool) {
	owner := sc.NextTurnUser(s)
	if owner == "" {
		return "", 0, false
	}
	deadline := s.TurnChangeTime[owner]
	late := now.UnixMilli() - deadline
	if late <= sc.grace.Milliseconds() {
		return "", 0, false
	}
	return owner, -time.Duration(late) * time.Millisecond, true
}

// Reset clears every deadline, e.g. after the map is reloaded.
func (sc *Scheduler) Reset(s *world.State) {
	s.TurnChangeTime = make(map[string]int64, len(sc.users))
}

func (sc *Scheduler) index(user string) int {
	for i, u := range sc.users {
		if u == user {
			return i
		}
	}
	return -1
}
