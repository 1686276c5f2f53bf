package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(5, time.Minute, 5)
	defer l.Close()
	for i := range 5 {
		res := l.Allow("k")
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if res.Limit != 5 {
			t.Errorf("Limit = %d, want 5", res.Limit)
		}
		if res.Remaining != 4-i {
			t.Errorf("request %d: Remaining = %d, want %d", i+1, res.Remaining, 4-i)
		}
	}
	res := l.Allow("k")
	if res.Allowed {
		t.Fatal("6th request should be rate limited")
	}
	if res.RetryAfter < time.Second {
		t.Errorf("RetryAfter = %v, want >= 1s", res.RetryAfter)
	}
	if !res.ResetAt.After(time.Now()) {
		t.Errorf("ResetAt = %v, want in the future", res.ResetAt)
	}
}

func TestLimiter_DifferentKeys(t *testing.T) {
	l := NewLimiter(2, time.Minute, 2)
	defer l.Close()
	l.Allow("a")
	l.Allow("a")
	if l.Allow("a").Allowed {
		t.Error("a should be rate limited")
	}
	if !l.Allow("b").Allowed {
		t.Error("b should not be affected by a")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(50, time.Minute, 50)
	defer l.Close()
	var mu sync.Mutex
	allowed := 0
	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			if l.Allow("k").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l := NewLimiter(60, time.Minute, 10)
	defer l.Close()
	for i := range 3 {
		l.Allow(fmt.Sprintf("k%d", i))
	}
	l.cleanup(time.Now())
	if n := len(l.buckets); n != 3 {
		t.Fatalf("recent buckets removed: %d left", n)
	}
	l.cleanup(time.Now().Add(2 * staleAfter))
	if n := len(l.buckets); n != 0 {
		t.Errorf("stale buckets kept: %d left", n)
	}
}

func TestLimiter_CloseTwice(t *testing.T) {
	l := NewLimiter(1, time.Minute, 1)
	l.Close()
	l.Close()
}
