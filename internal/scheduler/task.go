package scheduler

import "time"

// TaskFunc is a unit of work. A returned error marks the task as failed.
type TaskFunc = func() error

// Task is a scheduled unit of work. It has no identity beyond its enqueue
// order and is owned by the queue until it runs.
type Task struct {
	fn         TaskFunc
	priority   Priority
	enqueuedAt time.Time
	seqNo      uint64
}

// Priority returns the tier the task was queued in.
func (t *Task) Priority() Priority { return t.priority }

// EnqueuedAt returns when the task was scheduled.
func (t *Task) EnqueuedAt() time.Time { return t.enqueuedAt }

// Wait returns how long the task has been queued as of now.
func (t *Task) Wait(now time.Time) time.Duration {
	return now.Sub(t.enqueuedAt)
}
