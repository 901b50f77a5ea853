package rain

import (
	"context"
	"testing"
	"time"
)

func TestNextDeadline(t *testing.T) {
	base := time.Now()
	interval := 10 * time.Millisecond

	if got := nextDeadline(base, interval, base.Add(5*time.Millisecond)); !got.Equal(base.Add(interval)) {
		t.Errorf("on time: got %v after base", got.Sub(base))
	}
	if got := nextDeadline(base, interval, base.Add(15*time.Millisecond)); !got.Equal(base.Add(interval)) {
		t.Errorf("slightly late should keep the schedule, got %v after base", got.Sub(base))
	}
	late := base.Add(35 * time.Millisecond)
	if got := nextDeadline(base, interval, late); !got.Equal(late) {
		t.Errorf("far behind should re-anchor on now, got %v after base", got.Sub(base))
	}
}

func TestSleepUntil_PastDeadline(t *testing.T) {
	past := time.Now().Add(-time.Second)

	t.Run("live run keeps going", func(t *testing.T) {
		r := newRun()
		if !sleepUntil(context.Background(), r, past) {
			t.Error("expected true for a live run")
		}
	})

	t.Run("cancelled context halts the run", func(t *testing.T) {
		r := newRun()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if sleepUntil(ctx, r, past) {
			t.Error("expected false after ctx cancellation")
		}
		select {
		case <-r.done:
		default:
			t.Error("run should be halted")
		}
	})

	t.Run("halted run stops", func(t *testing.T) {
		r := newRun()
		r.halt()
		if sleepUntil(context.Background(), r, past) {
			t.Error("expected false for a halted run")
		}
	})
}

func TestSleepUntil_WakesOnHalt(t *testing.T) {
	r := newRun()
	go func() {
		time.Sleep(5 * time.Millisecond)
		r.halt()
	}()
	start := time.Now()
	if sleepUntil(context.Background(), r, start.Add(time.Minute)) {
		t.Error("expected false after halt")
	}
	if waited := time.Since(start); waited > 5*time.Second {
		t.Errorf("halt did not wake the sleeper, waited %v", waited)
	}
}
