// Package ratelimit enforces the per-user daily quota of model-backed requests.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Counter persists per-user request counts keyed by calendar day.
type Counter interface {
	// Count returns the user's count for day, zero when the stored day differs.
	Count(ctx context.Context, userID int64, day string) (int, error)
	// Increment adds one request for day and returns the new count.
	Increment(ctx context.Context, userID int64, day string) (int, error)
}

// Messages holds the texts returned by Check. Remaining is a fmt template
// receiving the number of requests left.
type Messages struct {
	Remaining string
	Exhausted string
}

// Limiter enforces a daily quota per user. Attempted calls are counted: the
// counter is incremented before the model call is made.
type Limiter struct {
	counter  Counter
	limit    int
	messages Messages
	location *time.Location
	now      func() time.Time

	mu sync.Mutex
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithLocation sets the timezone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(l *Limiter) {
		if loc != nil {
			l.location = loc
		}
	}
}

// New creates a Limiter allowing limit requests per user per day.
func New(counter Counter, limit int, messages Messages, opts ...Option) *Limiter {
	l := &Limiter{
		counter:  counter,
		limit:    limit,
		messages: messages,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Day returns the current calendar day key.
func (l *Limiter) Day() string {
	return l.now().In(l.location).Format(time.DateOnly)
}

// Remaining returns how many requests the user has left today.
func (l *Limiter) Remaining(ctx context.Context, userID int64) (int, error) {
	used, err := l.counter.Count(ctx, userID, l.Day())
	if err != nil {
		return 0, fmt.Errorf("failed to read request count: %w", err)
	}
	return max(l.limit-used, 0), nil
}

// Check reports whether the user may issue another request today, along with
// the message to show. It never mutates the counter.
func (l *Limiter) Check(ctx context.Context, userID int64) (string, bool, error) {
	remaining, err := l.Remaining(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if remaining <= 0 {
		return l.messages.Exhausted, false, nil
	}
	return fmt.Sprintf(l.messages.Remaining, remaining), true, nil
}

// Record counts one request for the user today.
func (l *Limiter) Record(ctx context.Context, userID int64) error {
	if _, err := l.counter.Increment(ctx, userID, l.Day()); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}

// Acquire checks and records in one step, so concurrent requests from the same
// user cannot both pass on the last unit of quota. When the quota is
// exhausted it returns the exhausted message and false.
func (l *Limiter) Acquire(ctx context.Context, userID int64) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg, allowed, err := l.Check(ctx, userID)
	if err != nil || !allowed {
		return msg, allowed, err
	}
	if err := l.Record(ctx, userID); err != nil {
		return "", false, err
	}
	return msg, true, nil
}

// RemainingMessage renders the quota message shown after a model answer.
func (l *Limiter) RemainingMessage(ctx context.Context, userID int64) (string, error) {
	msg, _, err := l.Check(ctx, userID)
	return msg, err
}
