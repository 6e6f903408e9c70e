package resolver

import (
	"testing"
	"time"
)

func TestRateLimiter_Remaining(t *testing.T) {
	rl := NewRateLimiter(10)
	if got := rl.Remaining(); got != 10 {
		t.Errorf("Remaining = %d, want 10", got)
	}

	rl.Wait()
	rl.Wait()
	rl.Wait()

	if got := rl.Remaining(); got != 7 {
		t.Errorf("Remaining = %d, want 7", got)
	}
}

func TestRateLimiter_WaitDoesNotBlockUnderBudget(t *testing.T) {
	rl := NewRateLimiter(100)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			rl.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked while under the per-minute budget")
	}
}
