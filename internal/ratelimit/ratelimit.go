// Package ratelimit spaces outbound requests process-wide.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits one caller at a time and keeps at least Delay between the
// end of one admission and the next. It holds no queue: waiting callers
// contend on the mutex, so admission order is not guaranteed FIFO.
type Limiter struct {
	delay time.Duration

	mu   sync.Mutex
	last time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(delay time.Duration) *Limiter {
	if delay < 0 {
		delay = 0
	}
	return &Limiter{delay: delay, now: time.Now, sleep: sleepCtx}
}

func (l *Limiter) Delay() time.Duration { return l.delay }

// WaitTurn blocks until the caller may issue its request. The only error is
// ctx's, returned when ctx ends while waiting; in that case no admission is
// recorded.
func (l *Limiter) WaitTurn(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if wait := l.delay - l.now().Sub(l.last); wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	l.last = l.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
