package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a Task returns.
type Next struct {
	// not nil: stop with this error.
	err error

	// stop without error.
	quit bool

	// otherwise, run the Task again after interval.
	interval time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.quit {
		return "[break] without error"
	}
	return fmt.Sprintf("[continue] interval: %s", n.interval)
}

// Continue runs the Task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break stops the loop. Pass nil to stop without error.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task is a unit of work run repeatedly by Start.
//
// It receives the value the previous round returned (or the initial value),
// and returns a new value with what to do next.
// The zero Next means Continue(0).
type Task[T any] func(context.Context, T) (T, Next)

// Start runs task repeatedly until it returns Break or ctx is done.
//
// The first round receives init. Each following round receives the value
// returned by the previous round.
//
// For example, sweeping ended schedules every minute until it fails:
//
//	Start(ctx, 0, func(ctx context.Context, swept int) (int, Next) {
//		ids, err := schedules.AutoComplete(ctx, time.Now())
//		if err != nil {
//			return swept, Break(err)
//		}
//		return swept + len(ids), Continue(time.Minute)
//	})
//
// Returns the last value and the error passed to Break.
// When ctx is done, the error is ctx.Err().
func Start[T any](ctx context.Context, init T, task Task[T], options ...LoopOption) (T, error) {
	select {
	case <-ctx.Done():
		return init, ctx.Err()
	default:
	}

	value := init
	for {
		lc := &loopConfig{ctx: ctx}
		for _, opt := range options {
			lc = opt(lc)
		}

		v, n := func() (T, Next) {
			if lc.deferred != nil {
				defer lc.deferred()
			}
			return task(lc.ctx, value)
		}()

		if n.err != nil {
			return v, n.err
		}
		if n.quit {
			return v, nil
		}
		value = v

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			// cancellation wins over an expired timer.
			if !timer.Stop() {
				<-timer.C
			}
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

type loopConfig struct {
	ctx      context.Context
	deferred func()
}

// LoopOption modifies how each round of Start runs.
type LoopOption func(*loopConfig) *loopConfig

// WithTimeout sets a timeout on the context passed to each round.
func WithTimeout(d time.Duration) LoopOption {
	return func(lc *loopConfig) *loopConfig {
		ctx, cancel := context.WithTimeout(lc.ctx, d)
		return &loopConfig{
			ctx: ctx,
			deferred: func() {
				if lc.deferred != nil {
					defer lc.deferred()
				}
				cancel()
			},
		}
	}
}
