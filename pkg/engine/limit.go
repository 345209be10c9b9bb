package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

type limited struct {
	next Engine
	sem  *semaphore.Weighted
}

// Limit bounds the number of concurrent calls to next. Waiting for a slot
// honours ctx, so a request whose deadline passes while queued fails with
// ErrTimeout and one whose caller cancels fails with ErrCanceled. A
// non-positive n leaves next unbounded.
func Limit(next Engine, n int) Engine {
	if n <= 0 {
		return next
	}
	return &limited{next: next, sem: semaphore.NewWeighted(int64(n))}
}

func (l *limited) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", Classify(fmt.Errorf("waiting for engine slot: %w", err))
	}
	defer l.sem.Release(1)

	return l.next.Generate(ctx, prompt, params)
}
