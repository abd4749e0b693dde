package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is the deferred work. Errors are logged, never retried.
type Task func(ctx context.Context) error

// Debouncer runs its task once, delay after the most recent Schedule call.
// At most one run is pending at any time.
type Debouncer struct {
	name   string
	clock  clockwork.Clock
	delay  time.Duration
	task   Task
	logger *slog.Logger

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

type Option func(*Debouncer)

// WithClock injects the time source; tests pass a clockwork.FakeClock.
func WithClock(c clockwork.Clock) Option { return func(d *Debouncer) { d.clock = c } }

func WithLogger(l *slog.Logger) Option { return func(d *Debouncer) { d.logger = l } }

func WithName(name string) Option { return func(d *Debouncer) { d.name = name } }

func NewDebouncer(delay time.Duration, task Task, opts ...Option) *Debouncer {
	d := &Debouncer{
		name:   "debounce",
		clock:  clockwork.NewRealClock(),
		delay:  delay,
		task:   task,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Schedule cancels any pending run and arms a new one delay from now.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.logger.Debug("pending run cancelled", "task", d.name)
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
	d.logger.Info("run scheduled", "task", d.name, "delay", d.delay.String())
}

// Stop cancels the pending run, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a run is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost the race with Stop/Schedule must not run.
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("scheduled task panicked", "task", d.name, "panic", r)
		}
	}()
	start := d.clock.Now()
	if err := d.task(context.Background()); err != nil {
		d.logger.Error("scheduled task failed", "task", d.name, "error", err)
		return
	}
	d.logger.Info("scheduled task done", "task", d.name, "duration_ms", d.clock.Since(start).Milliseconds())
}
