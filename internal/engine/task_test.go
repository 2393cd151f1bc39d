package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTaskTriggerPublishes(t *testing.T) {
	var n atomic.Int32
	task := NewTask("counter", time.Hour, func(ctx context.Context) (int, error) {
		return int(n.Add(1)), nil
	}, zerolog.Nop())

	if _, ok := task.Latest(); ok {
		t.Fatal("Latest() should report no value before the first run")
	}
	if !task.Trigger() {
		t.Fatal("Trigger() should run an idle task")
	}
	v, ok := task.Latest()
	if !ok || v != 1 {
		t.Errorf("expected 1, got %d (ok=%v)", v, ok)
	}
	if info := task.Info(); info.RunCount != 1 || info.State != TaskRunning {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestTaskErrorKeepsPreviousValue(t *testing.T) {
	fail := false
	task := NewTask("flaky", time.Hour, func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "good", nil
	}, zerolog.Nop())

	task.Trigger()
	fail = true
	task.Trigger()

	v, _ := task.Latest()
	if v != "good" {
		t.Errorf("expected previous value to survive, got %q", v)
	}
	info := task.Info()
	if info.ErrorCount != 1 || info.State != TaskError || info.LastError == nil {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestTaskSkipsOverlappingRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs atomic.Int32
	task := NewTask("slow", time.Hour, func(ctx context.Context) (int, error) {
		if runs.Add(1) == 1 {
			close(started)
			<-release
		}
		return 0, nil
	}, zerolog.Nop())

	done := make(chan bool)
	go func() { done <- task.Trigger() }()
	<-started

	if task.Trigger() {
		t.Error("Trigger() should skip while a run is in flight")
	}
	close(release)
	if !<-done {
		t.Error("first Trigger() should have run")
	}
	if runs.Load() != 1 {
		t.Errorf("expected 1 run, got %d", runs.Load())
	}
	if info := task.Info(); info.SkipCount != 1 {
		t.Errorf("expected 1 skip, got %d", info.SkipCount)
	}
}

func TestTaskSubscribe(t *testing.T) {
	task := NewTask("sub", time.Hour, func(ctx context.Context) (int, error) {
		return 42, nil
	}, zerolog.Nop())
	ch := task.Subscribe()
	task.Trigger()

	select {
	case ev := <-ch:
		if ev.Source != "sub" || ev.Err != nil {
			t.Errorf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("expected an event after a run")
	}
}

func TestTaskRunAndStop(t *testing.T) {
	task := NewTask("loop", 10*time.Millisecond, func(ctx context.Context) (int, error) {
		return 1, nil
	}, zerolog.Nop())
	ch := task.Subscribe()

	exited := make(chan struct{})
	go func() {
		task.Run()
		close(exited)
	}()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no run within a second")
	}

	task.Stop()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after Stop()")
	}
	if task.Trigger() {
		t.Error("Trigger() should refuse a stopped task")
	}
	if task.Info().State != TaskStopped {
		t.Error("expected stopped state")
	}
}
