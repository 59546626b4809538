package restaurant

import (
	"context"
	"time"
)

// pause models a bounded-duration task as a cancellable cooperative delay.
// It returns an interrupted error if the context is cancelled before the
// duration elapses; the caller runs its compensation on that path.
func pause(ctx context.Context, operation string, d time.Duration) error {
	if d <= 0 {
		// Still honor an already-cancelled context.
		select {
		case <-ctx.Done():
			return interrupted(operation, ctx.Err())
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return interrupted(operation, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// tickInterval clamps a scaled interval to something a ticker accepts.
func tickInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Millisecond
	}
	return d
}

func interrupted(operation string, cause error) *KitchenError {
	return NewTransientError("task interrupted", cause).
		WithCode(ErrCodeInterrupted).
		WithOperation(operation)
}
