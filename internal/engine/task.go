package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Collector produces one fresh value for a task.
type Collector[T any] func(ctx context.Context) (T, error)

// Job is the type-erased view of a Task used by the Manager.
type Job interface {
	Name() string
	Run()
	Stop()
	Trigger() bool
	Info() TaskInfo
	Subscribe() <-chan Event
}

// Task runs a collector on its own ticker and publishes the result. Runs of
// the same task never overlap: a tick or trigger that arrives while a run is
// in flight is skipped. The published value is replaced only after the
// collector returns.
type Task[T any] struct {
	name     string
	interval time.Duration
	collect  Collector[T]
	log      zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	stopped atomic.Bool

	mu          sync.RWMutex
	value       T
	hasValue    bool
	lastRun     time.Time
	lastErr     error
	runCount    int
	errorCount  int
	skipCount   int
	subscribers []chan Event
}

// NewTask creates a Task that calls collect every interval once Run is called.
func NewTask[T any](name string, interval time.Duration, collect Collector[T], log zerolog.Logger) *Task[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task[T]{
		name:     name,
		interval: interval,
		collect:  collect,
		log:      log.With().Str("task", name).Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Name returns the task's name.
func (t *Task[T]) Name() string {
	return t.name
}

// Run starts the scheduling loop. It kicks off the first run immediately
// and blocks until Stop is called.
func (t *Task[T]) Run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	go t.Trigger()

	for {
		select {
		case <-ticker.C:
			t.Trigger()
		case <-t.ctx.Done():
			return
		}
	}
}

// Trigger performs one run in the calling goroutine. It returns false
// without running when another run is in flight or the task is stopped.
func (t *Task[T]) Trigger() bool {
	if t.stopped.Load() {
		return false
	}
	if !t.running.CompareAndSwap(false, true) {
		t.mu.Lock()
		t.skipCount++
		t.mu.Unlock()
		t.log.Debug().Msg("run skipped, previous run still in flight")
		return false
	}
	defer t.running.Store(false)

	value, err := t.collect(t.ctx)

	t.mu.Lock()
	t.runCount++
	t.lastRun = time.Now()
	t.lastErr = err
	if err != nil {
		t.errorCount++
		t.log.Warn().Err(err).Msg("collection failed")
	} else {
		t.value = value
		t.hasValue = true
	}
	t.notify(Event{Source: t.name, At: t.lastRun, Err: err})
	t.mu.Unlock()
	return true
}

// Latest returns the most recently published value and whether any run has
// succeeded yet.
func (t *Task[T]) Latest() (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value, t.hasValue
}

// Subscribe returns a channel that receives an event after each run.
func (t *Task[T]) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, ch)
	return ch
}

// notify sends an event to all subscribers (non-blocking).
// Must be called while holding the write lock on t.mu.
func (t *Task[T]) notify(ev Event) {
	for _, ch := range t.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Info returns summary information about this task.
func (t *Task[T]) Info() TaskInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	state := TaskRunning
	switch {
	case t.stopped.Load():
		state = TaskStopped
	case t.lastErr != nil:
		state = TaskError
	}
	return TaskInfo{
		Name:       t.name,
		State:      state,
		Interval:   t.interval,
		LastRun:    t.lastRun,
		RunCount:   t.runCount,
		ErrorCount: t.errorCount,
		SkipCount:  t.skipCount,
		LastError:  t.lastErr,
	}
}

// Stop ends the scheduling loop and cancels an in-flight collection.
func (t *Task[T]) Stop() {
	t.stopped.Store(true)
	t.cancel()
}
