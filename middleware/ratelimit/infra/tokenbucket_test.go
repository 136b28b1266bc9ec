package infra

import (
	"testing"
	"time"
)

func TestTokenBucket_LowRateBurstOneRejectsSecondImmediateAllow(t *testing.T) {
	b := NewTokenBucket(1, 50*time.Second, 1)

	if !b.Allow() {
		t.Fatalf("expected first Allow to be true")
	}
	if b.Allow() {
		t.Fatalf("expected second immediate Allow to be false (burst=1)")
	}
}

func TestTokenBucket_DefaultBurstEqualsLimit(t *testing.T) {
	b := NewTokenBucket(5, 50*time.Second, 0)

	admitted := 0
	for i := 0; i < 10; i++ {
		if b.Allow() {
			admitted++
		}
	}
	if admitted != 5 {
		t.Fatalf("expected 5 admitted on the initial burst, got %d", admitted)
	}
}
