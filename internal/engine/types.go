package engine

import "time"

// TaskState represents the lifecycle state of a scheduled task.
type TaskState int

const (
	TaskStopped TaskState = iota
	TaskRunning
	TaskError
)

func (s TaskState) String() string {
	switch s {
	case TaskRunning:
		return "running"
	case TaskError:
		return "error"
	}
	return "stopped"
}

// TaskInfo provides summary information about a task.
type TaskInfo struct {
	Name       string
	State      TaskState
	Interval   time.Duration
	LastRun    time.Time
	RunCount   int
	ErrorCount int
	SkipCount  int
	LastError  error
}

// Event is emitted to subscribers after each completed run.
type Event struct {
	Source string
	At     time.Time
	Err    error
}
