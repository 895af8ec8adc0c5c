package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock advances only when the limiter sleeps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

func (c *fakeClock) Advance(d time.Duration) { _ = c.Sleep(context.Background(), d) }

func newFake(delay time.Duration) (*Limiter, *fakeClock) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := New(delay)
	l.now = clk.Now
	l.sleep = clk.Sleep
	return l, clk
}

func TestFirstCallIsImmediate(t *testing.T) {
	l, clk := newFake(time.Second)
	start := clk.Now()
	if err := l.WaitTurn(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := clk.Now().Sub(start); got != 0 {
		t.Fatalf("first admission waited %v", got)
	}
}

func TestWaitsOnlyRemainder(t *testing.T) {
	l, clk := newFake(time.Second)
	_ = l.WaitTurn(context.Background())
	clk.Advance(300 * time.Millisecond)
	before := clk.Now()
	_ = l.WaitTurn(context.Background())
	if got := clk.Now().Sub(before); got != 700*time.Millisecond {
		t.Fatalf("want 700ms wait, got %v", got)
	}
	clk.Advance(5 * time.Second)
	before = clk.Now()
	_ = l.WaitTurn(context.Background())
	if got := clk.Now().Sub(before); got != 0 {
		t.Fatalf("stale last request should not wait, waited %v", got)
	}
}

func TestConcurrentAdmissionsAreSpaced(t *testing.T) {
	const n = 25
	delay := 250 * time.Millisecond
	l, clk := newFake(delay)
	start := clk.Now()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.WaitTurn(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	// The fake clock only moves while the limiter sleeps and no single wait
	// exceeds delay, so n-1 full delays means every gap was exactly delay.
	if got, want := clk.Now().Sub(start), time.Duration(n-1)*delay; got != want {
		t.Fatalf("clock advanced %v, want %v", got, want)
	}
	if !l.last.Equal(clk.Now()) {
		t.Fatalf("last admission %v, clock %v", l.last, clk.Now())
	}
}

func TestRealClockSpacing(t *testing.T) {
	const n = 5
	delay := 20 * time.Millisecond
	l := New(delay)
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WaitTurn(context.Background())
		}()
	}
	wg.Wait()
	if el := time.Since(start); el < time.Duration(n-1)*delay {
		t.Fatalf("%d admissions finished in %v, want at least %v", n, el, time.Duration(n-1)*delay)
	}
}

func TestCancelledWaitDoesNotAdmit(t *testing.T) {
	l := New(time.Hour)
	if err := l.WaitTurn(context.Background()); err != nil {
		t.Fatal(err)
	}
	last := l.last
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.WaitTurn(ctx); err == nil {
		t.Fatal("expected context error")
	}
	if !l.last.Equal(last) {
		t.Fatal("cancelled wait must not move the last request time")
	}
}

func TestZeroDelay(t *testing.T) {
	l := New(-time.Second)
	if l.Delay() != 0 {
		t.Fatalf("negative delay should clamp to 0, got %v", l.Delay())
	}
	for i := 0; i < 3; i++ {
		if err := l.WaitTurn(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
}
