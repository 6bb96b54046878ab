// Package loader runs at most one logical background operation at a time.
// Starting a new task aborts the one in flight, and a superseded task can no
// longer change the runner's busy state when it eventually finishes.
package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Func is the body of a task. It must pass ctx to every blocking call so that
// supersession aborts it.
type Func func(ctx context.Context) error

// Task is the handle of one Run call.
type Task struct {
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Seq is the task's position in the runner's strictly increasing sequence.
func (t *Task) Seq() uint64 { return t.seq }

// Done is closed once the task body has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Cancel aborts this task only.
func (t *Task) Cancel() { t.cancel() }

// Options configures a Runner.
type Options struct {
	Logger *zerolog.Logger
	// OnError receives failures of the latest task other than cancellation.
	OnError func(error)
}

// Runner is the single-flight task slot.
type Runner struct {
	mu      sync.Mutex
	seq     uint64
	active  *Task
	busy    bool
	subs    map[int]chan bool
	nextSub int
	onError func(error)
	log     zerolog.Logger
}

// NewRunner returns an idle runner.
func NewRunner(opts Options) *Runner {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "loader").Logger()
	}
	return &Runner{
		subs:    make(map[int]chan bool),
		onError: opts.OnError,
		log:     log,
	}
}

// Run aborts the active task, if any, and starts fn under a fresh context
// derived from parent.
func (r *Runner) Run(parent context.Context, fn Func) *Task {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	if r.active != nil {
		r.log.Debug().Uint64("seq", r.active.seq).Msg("superseding task")
		r.active.cancel()
	}
	r.seq++
	t := &Task{seq: r.seq, cancel: cancel, done: make(chan struct{})}
	r.active = t
	r.setBusyLocked(true)
	r.mu.Unlock()

	go r.exec(ctx, t, fn)
	return t
}

func (r *Runner) exec(ctx context.Context, t *Task, fn Func) {
	err := fn(ctx)
	t.cancel()

	r.mu.Lock()
	t.err = err
	latest := r.active == t
	if latest {
		r.active = nil
		r.setBusyLocked(false)
	}
	onError := r.onError
	r.mu.Unlock()
	close(t.done)

	switch {
	case !latest:
		r.log.Debug().Uint64("seq", t.seq).Msg("discarding stale completion")
	case err != nil && !IsCanceled(err):
		r.log.Error().Err(err).Uint64("seq", t.seq).Msg("task failed")
		if onError != nil {
			onError(err)
		}
	}
}

// Busy reports whether the latest task is still running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Subscribe returns a channel that receives the current busy state and then
// every change. Slow readers only see the most recent value. The returned
// func unsubscribes.
func (r *Runner) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- r.busy
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// Cancel aborts the active task. Busy clears when its body returns.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		r.active.cancel()
	}
}

// Wait blocks until the task active at call time finishes.
func (r *Runner) Wait() error {
	r.mu.Lock()
	t := r.active
	r.mu.Unlock()
	if t == nil {
		return nil
	}
	return t.Wait()
}

func (r *Runner) setBusyLocked(v bool) {
	if r.busy == v {
		return
	}
	r.busy = v
	for _, ch := range r.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// IsCanceled reports whether err is the result of an aborted task.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
