package infra

import (
	"sync"
	"testing"
)

func TestRequestCounter_IncReturnsPostIncrement(t *testing.T) {
	c := NewRequestCounter()
	if got := c.Inc(); got != 1 {
		t.Fatalf("expected first Inc to return 1, got %d", got)
	}
	if got := c.Inc(); got != 2 {
		t.Fatalf("expected second Inc to return 2, got %d", got)
	}
	if got := c.Value(); got != 2 {
		t.Fatalf("expected Value=2, got %d", got)
	}
}

func TestRequestCounter_NoLostUpdatesUnderConcurrency(t *testing.T) {
	const (
		workers = 100
		perGo   = 100
	)

	c := NewRequestCounter()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGo; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	if got := c.Value(); got != workers*perGo {
		t.Fatalf("expected %d, got %d (lost updates)", workers*perGo, got)
	}
}
