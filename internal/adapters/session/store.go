// Package session holds the single source of truth for current session
// metrics, exposed as atomic snapshots.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aquametrics/strokecore/internal/domain/model"
	"github.com/aquametrics/strokecore/internal/domain/types"
)

// State is the externally visible session record. Mutated exclusively by the
// pipeline orchestrator; readers always receive copies.
type State struct {
	SessionID    string
	Active       bool
	StartedAt    time.Time
	EndedAt      time.Time
	StrokeCount  int
	StrokeRate   float64
	RateHistory  []model.RateSample
	LastStrokeAt time.Time
	PoseDetected bool
	IsSwimming   bool
}

// Update is a partial state change. Nil fields are left unchanged; the merge
// is all-or-nothing with respect to any concurrent reader.
type Update struct {
	StrokeCount  *int
	StrokeRate   *float64
	RateHistory  []model.RateSample
	LastStrokeAt *time.Time
	PoseDetected *bool
	IsSwimming   *bool
}

// Store guards the session record with a snapshot-on-write discipline: every
// write replaces the whole record under a short critical section, so a reader
// never observes a half-applied update.
type Store struct {
	mu    sync.RWMutex
	state *State
	clock func() time.Time
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithClock overrides the store's time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewStore creates a session store. The initial state is inactive.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state: &State{},
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a complete, internally consistent copy of the state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()
	return st.copy()
}

// Apply merges the partial update atomically.
func (s *Store) Apply(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.copy()
	if u.StrokeCount != nil {
		next.StrokeCount = *u.StrokeCount
	}
	if u.StrokeRate != nil {
		next.StrokeRate = *u.StrokeRate
	}
	if u.RateHistory != nil {
		next.RateHistory = u.RateHistory
	}
	if u.LastStrokeAt != nil {
		next.LastStrokeAt = *u.LastStrokeAt
	}
	if u.PoseDetected != nil {
		next.PoseDetected = *u.PoseDetected
	}
	if u.IsSwimming != nil {
		next.IsSwimming = *u.IsSwimming
	}
	s.state = &next
}

// StartSession resets all counters and marks the session active. Calling it
// on an already active session starts a fresh one.
func (s *Store) StartSession() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := State{
		SessionID: uuid.NewString(),
		Active:    true,
		StartedAt: s.clock(),
	}
	s.state = &next
	return next.copy()
}

// EndSession deactivates the session and returns the final snapshot. Ending
// an inactive session is a no-op returning the last known snapshot.
func (s *Store) EndSession() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active {
		return s.state.copy()
	}
	next := s.state.copy()
	next.Active = false
	next.EndedAt = s.clock()
	s.state = &next
	return next.copy()
}

// Reset discards the session record entirely.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &State{}
}

// Wire converts the current state to the snapshot schema consumed by the
// display client.
func (s *Store) Wire() types.Snapshot {
	return s.Snapshot().Wire(s.clock())
}

// Wire converts the state to the external snapshot schema. Elapsed time runs
// against now while active and freezes at EndedAt afterwards.
func (st State) Wire(now time.Time) types.Snapshot {
	elapsed := 0
	if !st.StartedAt.IsZero() {
		end := now
		if !st.Active && !st.EndedAt.IsZero() {
			end = st.EndedAt
		}
		if d := end.Sub(st.StartedAt); d > 0 {
			elapsed = int(d.Seconds())
		}
	}
	history := make([]types.RatePoint, len(st.RateHistory))
	for i, rs := range st.RateHistory {
		history[i] = types.RatePoint{
			Timestamp: float64(rs.Timestamp.UnixNano()) / float64(time.Second),
			Rate:      rs.Rate,
		}
	}
	return types.Snapshot{
		SessionID:      st.SessionID,
		Active:         st.Active,
		ElapsedSeconds: elapsed,
		StrokeCount:    st.StrokeCount,
		StrokeRate:     st.StrokeRate,
		RateHistory:    history,
		PoseDetected:   st.PoseDetected,
		IsSwimming:     st.IsSwimming,
	}
}

// copy returns a value copy with its own rate-history backing array.
func (st *State) copy() State {
	out := *st
	if st.RateHistory != nil {
		out.RateHistory = make([]model.RateSample, len(st.RateHistory))
		copy(out.RateHistory, st.RateHistory)
	}
	return out
}
