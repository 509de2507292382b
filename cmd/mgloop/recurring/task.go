package recurring

import (
	"context"

	"github.com/mindgarden/consultation/pkg/loop"
)

// Task is a round of a recurring job.
//
// It returns the value for the next round, whether it did some work
// (so more may remain), and an error.
type Task[T any] func(context.Context, T) (T, bool, error)

// Applied makes a loop.Task which lets p decide what follows each round.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, value T) (T, loop.Next) {
		next, updated, err := rt(ctx, value)
		return next, p.Next(updated, err)
	}
}
