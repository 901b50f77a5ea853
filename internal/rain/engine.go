package rain

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Engine owns the simulation, the buffer pair and the two workers: an update
// worker that advances every column and swaps, and a render worker that
// snapshots the front grid and writes it to the Terminal.
//
// Start and Stop move the engine between idle and running. Stop is also the
// release path; Close is an alias for defer-style use.
type Engine struct {
	opts   Options
	term   Terminal
	logger *slog.Logger

	mu      sync.Mutex // guards sim, running and cur
	sim     *Simulation
	running bool
	cur     *run

	wg    sync.WaitGroup
	alive atomic.Int32

	errMu sync.Mutex
	err   error

	update tickStats
	render tickStats
}

// New validates opts and builds an idle engine writing to term.
func New(opts Options, term Terminal) (*Engine, error) {
	if term == nil {
		return nil, &ConfigurationError{Field: "terminal", Reason: "must not be nil"}
	}
	sim, err := NewSimulation(opts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Charset = append([]rune(nil), opts.Charset...)

	return &Engine{
		opts:   opts,
		term:   term,
		logger: logger,
		sim:    sim,
	}, nil
}

// Start spawns both workers. It returns ErrAlreadyRunning if the engine is
// running. When a worker fails to start, any worker already started by this
// call is halted and joined, and the engine is left idle.
//
// The workers also stop when ctx is cancelled; Stop must still be called to
// join them and restore the cursor.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}

	sim := e.sim
	pair := sim.Buffers()
	scratch, err := NewGrid(pair.Rows(), pair.Cols())
	if err != nil {
		return err
	}

	r := newRun()
	e.setErr(nil)
	e.update.Reset()
	e.render.Reset()

	e.term.SetCursorVisible(false)

	updateReady := e.spawn(ctx, r, worker{
		name:     "update",
		interval: e.opts.UpdateInterval,
		stats:    &e.update,
		tick:     sim.Tick,
	})
	if err := <-updateReady; err != nil {
		return e.abortStart(r, "update", err)
	}

	renderReady := e.spawn(ctx, r, worker{
		name:     "render",
		interval: e.opts.RenderInterval,
		stats:    &e.render,
		init:     e.initTerminal,
		tick:     func() { e.renderPass(pair, scratch) },
	})
	if err := <-renderReady; err != nil {
		return e.abortStart(r, "render", err)
	}

	e.cur = r
	e.running = true
	e.logger.Info("rain: engine started",
		"rows", pair.Rows(),
		"cols", pair.Cols(),
		"update_interval", e.opts.UpdateInterval,
		"render_interval", e.opts.RenderInterval,
	)
	return nil
}

// abortStart unwinds a failed Start. Called with e.mu held.
func (e *Engine) abortStart(r *run, name string, err error) error {
	r.halt()
	e.wg.Wait()
	e.term.SetCursorVisible(true)
	e.logger.Error("rain: worker failed to start", "worker", name, "error", err)
	return &StartError{Worker: name, Wrapped: err}
}

func (e *Engine) initTerminal() error {
	if in, ok := e.term.(initializer); ok {
		return in.Init()
	}
	return nil
}

// Stop halts both workers and blocks until they have exited, then shows the
// cursor again. It is safe to call on an idle engine. The returned error is
// the worker fault that ended the run, if any.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}

	e.cur.halt()
	e.wg.Wait()
	e.cur = nil
	e.running = false
	e.term.SetCursorVisible(true)

	err := e.Err()
	e.logger.Info("rain: engine stopped",
		"frames", e.sim.Buffers().Seq(),
		"update_ticks", e.update.Value().Ticks,
		"render_ticks", e.render.Value().Ticks,
	)
	return err
}

// Close stops the engine.
func (e *Engine) Close() error {
	return e.Stop()
}

// Done is closed once the current run has been halted, by Stop, by a worker
// fault, or by the context passed to Start. It returns nil when idle.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil {
		return nil
	}
	return e.cur.done
}

// fail records a worker fault and halts the run.
func (e *Engine) fail(r *run, err *WorkerError) {
	e.setErr(err)
	e.logger.Error("rain: worker failed", "worker", err.Worker, "tick", err.Tick, "error", err)
	r.halt()
}

func (e *Engine) setErr(err error) {
	e.errMu.Lock()
	e.err = err
	e.errMu.Unlock()
}

// Err returns the fault that ended the last run, or nil.
func (e *Engine) Err() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

// Running reports whether Start succeeded and Stop has not been called yet.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Alive returns the number of worker goroutines that have not exited.
func (e *Engine) Alive() int {
	return int(e.alive.Load())
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options {
	opts := e.opts
	opts.Charset = append([]rune(nil), e.opts.Charset...)
	return opts
}

// Snapshot copies the current front frame.
func (e *Engine) Snapshot() (Frame, error) {
	e.mu.Lock()
	pair := e.sim.Buffers()
	e.mu.Unlock()
	return pair.FrontSnapshot()
}

// Columns returns a copy of the column states. Columns belong to the update
// worker while running, so this requires an idle engine.
func (e *Engine) Columns() ([]Column, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil, ErrRunning
	}
	return e.sim.Columns(), nil
}

// Step runs one update pass on an idle engine.
func (e *Engine) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	e.sim.Tick()
	return nil
}

// Stats reports worker pacing and the completed frame count.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	pair := e.sim.Buffers()
	e.mu.Unlock()
	return Stats{
		Update: e.update.Value(),
		Render: e.render.Value(),
		Frames: pair.Seq(),
	}
}

// Clone deep-copies an idle engine: buffers, columns and the glyph stream.
// The copy shares the Terminal and starts idle.
func (e *Engine) Clone() (*Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil, ErrRunning
	}
	sim, err := e.sim.Clone()
	if err != nil {
		return nil, err
	}
	opts := e.opts
	opts.Charset = append([]rune(nil), e.opts.Charset...)
	return &Engine{
		opts:   opts,
		term:   e.term,
		logger: e.logger,
		sim:    sim,
	}, nil
}

// Assign replaces e's simulation state with a deep copy of src's. The copy is
// built completely before anything in e changes, so on error e is untouched.
// Both engines must be idle. e keeps its own Terminal.
func (e *Engine) Assign(src *Engine) error {
	if src == e {
		return nil
	}
	tmp, err := src.Clone()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	e.opts = tmp.opts
	e.sim = tmp.sim
	e.update.Reset()
	e.render.Reset()
	return nil
}
