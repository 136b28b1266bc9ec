package infra

import (
	"sync"
	"testing"
	"time"
)

// fakeClock permite mover o tempo manualmente nos testes.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFixedWindow_AdmitsAtMostLimitPerWindow(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(5, time.Second, WithClock(clock.Now))

	admitted := 0
	for i := 0; i < 20; i++ {
		if fw.Allow() {
			admitted++
		}
	}
	if admitted != 5 {
		t.Fatalf("expected 5 admitted in one window, got %d", admitted)
	}
}

func TestFixedWindow_ResetRestoresAllowance(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(5, time.Second, WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		if !fw.Allow() {
			t.Fatalf("expected call %d to be admitted", i)
		}
	}
	if fw.Allow() {
		t.Fatalf("expected 6th call to be rejected")
	}

	clock.Advance(1100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if !fw.Allow() {
			t.Fatalf("expected call %d after reset to be admitted", i)
		}
	}
	if fw.Allow() {
		t.Fatalf("expected new window to be exhausted after 5 calls")
	}
}

func TestFixedWindow_ExactBoundaryBelongsToNewWindow(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(1, time.Second, WithClock(clock.Now))

	if !fw.Allow() {
		t.Fatalf("expected first call to be admitted")
	}
	if fw.Allow() {
		t.Fatalf("expected window to be exhausted")
	}

	// exatamente start+window: já é janela nova
	clock.Advance(time.Second)
	if !fw.Allow() {
		t.Fatalf("expected call at exact boundary to be admitted")
	}
}

func TestFixedWindow_BackwardClockKeepsCurrentWindow(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(2, time.Second, WithClock(clock.Now))

	if !fw.Allow() || !fw.Allow() {
		t.Fatalf("expected both calls to be admitted")
	}

	clock.Advance(-10 * time.Second)
	if fw.Allow() {
		t.Fatalf("expected no reset when clock goes backward")
	}
}

func TestFixedWindow_ConcurrentCallersNeverOverAdmit(t *testing.T) {
	const workers = 1000

	clock := newFakeClock()
	fw := NewFixedWindow(5, time.Minute, WithClock(clock.Now))

	var wg sync.WaitGroup
	start := make(chan struct{})
	var mu sync.Mutex
	admitted := 0

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if fw.Allow() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}

	close(start)
	wg.Wait()

	if admitted != 5 {
		t.Fatalf("expected exactly 5 admitted out of %d concurrent callers, got %d", workers, admitted)
	}
}

func TestFixedWindow_ConcurrentUnderCapacityAdmitsAll(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(5, time.Minute, WithClock(clock.Now))

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			if fw.Allow() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 3 {
		t.Fatalf("expected min(N, limit)=3 admitted, got %d", admitted)
	}
}
