package rain

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// run is the shared cancellation state of one Start/Stop cycle.
type run struct {
	cancelled atomic.Bool
	done      chan struct{}
	once      sync.Once
}

func newRun() *run {
	return &run{done: make(chan struct{})}
}

// halt sets the cancel flag and wakes any sleeping worker.
func (r *run) halt() {
	r.cancelled.Store(true)
	r.once.Do(func() { close(r.done) })
}

// nextDeadline returns the wake time after prev. Deadlines advance from the
// previous deadline rather than the actual wake so sleeps do not accumulate
// drift; a loop more than one interval late re-anchors on now instead of
// firing a burst of catch-up ticks.
func nextDeadline(prev time.Time, interval time.Duration, now time.Time) time.Time {
	next := prev.Add(interval)
	if now.Sub(next) > interval {
		return now
	}
	return next
}

// sleepUntil blocks until deadline, halt, or ctx cancellation. It reports
// whether the loop should keep running.
func sleepUntil(ctx context.Context, r *run, deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		select {
		case <-r.done:
		case <-ctx.Done():
			r.halt()
		default:
		}
		return !r.cancelled.Load()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.done:
	case <-ctx.Done():
		r.halt()
	}
	return !r.cancelled.Load()
}

// worker describes one of the two engine loops.
type worker struct {
	name     string
	interval time.Duration
	stats    *tickStats
	init     func() error // optional; runs on the worker goroutine before the first tick
	tick     func()
}

// spawn starts w and returns a channel that receives the result of its
// startup exactly once.
func (e *Engine) spawn(ctx context.Context, r *run, w worker) <-chan error {
	ready := make(chan error, 1)
	e.wg.Add(1)
	e.alive.Add(1)
	go e.loop(ctx, r, w, ready)
	return ready
}

// loop is the body shared by both workers. A panic inside a tick is
// recovered, recorded, and halts the run so the sibling exits too.
func (e *Engine) loop(ctx context.Context, r *run, w worker, ready chan<- error) {
	defer e.wg.Done()
	defer e.alive.Add(-1)

	var (
		n       uint64
		started bool
	)
	defer func() {
		if v := recover(); v != nil {
			werr := &WorkerError{Worker: w.name, Tick: n, Cause: v}
			if !started {
				ready <- werr
				return
			}
			e.fail(r, werr)
		}
	}()

	if w.init != nil {
		if err := w.init(); err != nil {
			ready <- err
			return
		}
	}
	started = true
	ready <- nil

	deadline := time.Now()
	for !r.cancelled.Load() {
		w.stats.Observe(time.Now())
		w.tick()
		n++
		deadline = nextDeadline(deadline, w.interval, time.Now())
		if !sleepUntil(ctx, r, deadline) {
			return
		}
	}
}

// renderPass writes one snapshot of the front grid to the terminal. Blank
// cells are skipped.
func (e *Engine) renderPass(pair *BufferPair, scratch *Grid) {
	if _, err := pair.FrontSnapshotInto(scratch); err != nil {
		panic(fmt.Errorf("snapshot: %w", err))
	}
	if c, ok := e.term.(clearer); ok {
		c.Clear()
	}
	scratch.Each(func(row, col int, p Pixel) {
		if p.Attr == Blank {
			return
		}
		e.term.WriteCell(row, col, p.Glyph, p.Attr)
	})
	if f, ok := e.term.(flusher); ok {
		f.Flush()
	}
}
