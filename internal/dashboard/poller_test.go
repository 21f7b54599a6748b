package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller_FiresImmediatelyAndOnTicks(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller("test", 10*time.Millisecond, func(context.Context) Result {
		calls.Add(1)
		return Result{Outcome: OutcomeApplied}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 75*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	if n := calls.Load(); n < 3 {
		t.Errorf("cycles: got %d, want at least 3", n)
	}
}

func TestPoller_SlowCycleDoesNotBlockTicks(t *testing.T) {
	var started atomic.Int32
	block := make(chan struct{})
	p := NewPoller("slow", 10*time.Millisecond, func(ctx context.Context) Result {
		started.Add(1)
		select {
		case <-block:
		case <-ctx.Done():
		}
		return Result{Outcome: OutcomeFailed}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for started.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d cycles started while the first was blocked", started.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	close(block)
	<-done
}

func TestPoller_OnResult(t *testing.T) {
	results := make(chan Result, 8)
	p := NewPoller("results", time.Hour, func(context.Context) Result {
		return Result{Poll: "results", Seq: 1, Outcome: OutcomeStale}
	})
	p.OnResult = func(r Result) { results <- r }

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)
	defer cancel()

	select {
	case r := <-results:
		if r.Outcome != OutcomeStale || r.Poll != "results" {
			t.Errorf("result: %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}

func TestPoller_SetInterval(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller("reset", time.Hour, func(context.Context) Result {
		calls.Add(1)
		return Result{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	p.SetInterval(5 * time.Millisecond)
	if p.Interval() != 5*time.Millisecond {
		t.Errorf("interval: got %v", p.Interval())
	}

	deadline := time.After(2 * time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("interval change not applied, %d cycles", calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	p.SetInterval(0)
	if p.Interval() != 5*time.Millisecond {
		t.Errorf("non-positive interval accepted: %v", p.Interval())
	}
}
