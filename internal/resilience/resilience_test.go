package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "images",
		MaxFailures: 2,
		OpenPeriod:  time.Hour,
	})

	boom := errors.New("boom")
	calls := 0
	op := func(context.Context) error {
		calls++
		return boom
	}

	assert.ErrorIs(t, cb.Execute(context.Background(), op), boom)
	assert.ErrorIs(t, cb.Execute(context.Background(), op), boom)
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(context.Background(), op)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, calls, "open circuit must not call through")
}

func TestExecuteAppliesTimeout(t *testing.T) {
	t.Parallel()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "slow", Timeout: 10 * time.Millisecond})

	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCancellationDoesNotTrip(t *testing.T) {
	t.Parallel()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "cancel", MaxFailures: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := cb.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, "OPEN", StateOpen.String())
}
