package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewStore(10*time.Minute, clock.now), clock
}

func TestSetGetOverwrite(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	s.Set(1, Session{State: StateTextTopic})
	s.Set(1, Session{State: StateTextTone, Topic: "letter"})

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, StateTextTone, got.State)
	assert.Equal(t, "letter", got.Topic)
	assert.Equal(t, 1, s.Len())
}

func TestGetDropsExpired(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	s.Set(1, Session{State: StateFeedback})
	clock.t = clock.t.Add(10 * time.Minute)

	_, ok := s.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSweepExpired(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	s.Set(1, Session{State: StateSpellCheck})
	clock.t = clock.t.Add(5 * time.Minute)
	s.Set(2, Session{State: StateSpellCheck})
	clock.t = clock.t.Add(6 * time.Minute)

	assert.Equal(t, 1, s.SweepExpired())
	_, ok := s.Get(2)
	assert.True(t, ok)
}

func TestZeroUserIgnored(t *testing.T) {
	t.Parallel()
	s := NewStore(0, nil)
	s.Set(0, Session{State: StateFeedback})
	assert.Equal(t, 0, s.Len())
}
