package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CycleFunc is one fetch-and-render pass.
type CycleFunc func(ctx context.Context) Result

// Poller runs a CycleFunc immediately and then on every tick. Each cycle gets
// its own goroutine, so a slow request never holds back the next tick; the
// Dashboard's sequence tokens sort out responses that arrive out of order.
type Poller struct {
	name  string
	cycle CycleFunc

	// OnResult, when set, is called from the cycle goroutine after every cycle.
	OnResult func(Result)

	mu       sync.Mutex
	interval time.Duration
	reset    chan time.Duration
	wg       sync.WaitGroup
}

func NewPoller(name string, interval time.Duration, cycle CycleFunc) *Poller {
	return &Poller{
		name:     name,
		cycle:    cycle,
		interval: interval,
		reset:    make(chan time.Duration, 1),
	}
}

func (p *Poller) Name() string { return p.name }

func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// SetInterval changes the period. It takes effect on the running loop
// without waiting for the current tick.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	if p.interval == d {
		p.mu.Unlock()
		return
	}
	p.interval = d
	p.mu.Unlock()

	// Keep only the newest pending value.
	select {
	case <-p.reset:
	default:
	}
	p.reset <- d
}

// Run blocks until ctx is cancelled and every in-flight cycle has returned.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()
	defer p.wg.Wait()

	p.fire(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-p.reset:
			slog.Info("dashboard: poll interval updated", "poll", p.name, "interval", d)
			ticker.Reset(d)
		case <-ticker.C:
			p.fire(ctx)
		}
	}
}

func (p *Poller) fire(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		res := p.cycle(ctx)
		if p.OnResult != nil {
			p.OnResult(res)
		}
	}()
}
