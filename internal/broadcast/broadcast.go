// Package broadcast fans one piece of content out to many recipients.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrAbort marks a delivery error that no other recipient can recover from,
// such as a storage failure. Wrap it to stop the run.
var ErrAbort = errors.New("broadcast aborted")

// DeliverFunc delivers to a single recipient.
type DeliverFunc func(ctx context.Context, userID int64) error

// Report summarizes a run. Err holds the first error wrapping ErrAbort.
type Report struct {
	Total     int
	Delivered int
	Failed    int
	Err       error
}

// Broadcaster runs deliveries through a bounded worker pool. A failed
// delivery is logged and skipped and is not retried. Only an error wrapping
// ErrAbort stops the remaining deliveries.
type Broadcaster struct {
	concurrency int
	sendTimeout time.Duration
	log         *slog.Logger
}

// New creates a Broadcaster. concurrency 1 delivers sequentially.
func New(concurrency int, sendTimeout time.Duration, log *slog.Logger) *Broadcaster {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Broadcaster{
		concurrency: concurrency,
		sendTimeout: sendTimeout,
		log:         log.With("component", "broadcast"),
	}
}

// Run attempts exactly one delivery per recipient, in order of the slice
// when sequential. Cancelling ctx stops scheduling further deliveries.
func (b *Broadcaster) Run(ctx context.Context, name string, recipients []int64, deliver DeliverFunc) Report {
	log := b.log.With("broadcast", name)
	start := time.Now()

	runCtx, cancelRun := context.WithCancelCause(ctx)
	defer cancelRun(nil)

	var delivered, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)

	for _, userID := range recipients {
		if runCtx.Err() != nil {
			log.WarnContext(ctx, "Broadcast cancelled", "error", context.Cause(runCtx))
			break
		}

		g.Go(func() error {
			if runCtx.Err() != nil {
				return nil
			}
			sendCtx := runCtx
			if b.sendTimeout > 0 {
				var cancel context.CancelFunc
				sendCtx, cancel = context.WithTimeout(runCtx, b.sendTimeout)
				defer cancel()
			}

			if err := b.safeDeliver(sendCtx, deliver, userID); err != nil {
				failed.Add(1)
				if errors.Is(err, ErrAbort) {
					cancelRun(err)
					return nil
				}
				log.WarnContext(ctx, "Delivery failed", "user_id", userID, "error", err)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	report := Report{
		Total:     len(recipients),
		Delivered: int(delivered.Load()),
		Failed:    int(failed.Load()),
	}
	if cause := context.Cause(runCtx); errors.Is(cause, ErrAbort) {
		report.Err = cause
		log.ErrorContext(ctx, "Broadcast aborted", "error", cause)
	}
	log.InfoContext(ctx, "Broadcast finished",
		"total", report.Total,
		"delivered", report.Delivered,
		"failed", report.Failed,
		"duration", time.Since(start),
	)
	return report
}

func (b *Broadcaster) safeDeliver(ctx context.Context, deliver DeliverFunc, userID int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return deliver(ctx, userID)
}

// PanicError wraps a panic raised by a delivery.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("delivery panicked: %v", e.Value)
}
