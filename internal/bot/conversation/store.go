// Package conversation keeps the per-user dialogue state of multi-step
// interactions such as text generation and feedback.
package conversation

import (
	"sync"
	"time"
)

// DefaultTTL bounds how long the bot waits for the next step.
const DefaultTTL = 30 * time.Minute

// State is the step a user is expected to complete next.
type State int

const (
	StateIdle State = iota
	StateSpellCheck
	StateTextTopic
	StateTextTone
	StateTextDetails
	StateFeedback
	StateAdminReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpellCheck:
		return "spell_check"
	case StateTextTopic:
		return "text_topic"
	case StateTextTone:
		return "text_tone"
	case StateTextDetails:
		return "text_details"
	case StateFeedback:
		return "feedback"
	case StateAdminReply:
		return "admin_reply"
	default:
		return "unknown"
	}
}

// Session carries the state and whatever earlier steps collected.
type Session struct {
	State State

	Topic string
	Tone  string

	// Admin reply target.
	TargetID   int64
	TargetName string

	ExpiresAt time.Time
}

// Store is an in-memory session map keyed by user id.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a Store. ttl <= 0 selects DefaultTTL; nil now selects
// time.Now.
func NewStore(ttl time.Duration, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[int64]Session),
		ttl:      ttl,
		now:      now,
	}
}

// Set replaces the user's session and restarts its timer.
func (s *Store) Set(userID int64, sess Session) {
	if userID == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ExpiresAt = s.now().Add(s.ttl)
	s.sessions[userID] = sess
}

// Get returns the user's live session. Expired sessions are dropped.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, userID)
		return Session{}, false
	}
	return sess, true
}

// Clear forgets the user's session.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// SweepExpired drops expired sessions and returns how many were removed.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for userID, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, live or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
