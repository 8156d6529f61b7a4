/*
Package scheduler implements the cooperative, priority-tiered frame scheduler.

# Overview

Work is posted as a TaskFunc together with a Priority. Tasks are held in three
FIFO tiers (high, normal, low) and drained once per display refresh by the
frame driver. Each drain pass is bounded by per-tier ceilings derived from the
frame budget:

	high   < 80% of frame time
	normal < 60% of frame time
	low    < 40% of frame time

All three ceilings are measured from the start of the pass. A tier is only
entered while the elapsed time is below its ceiling, so a slow high-priority
task can push normal and low work into the next frame. The ceilings bound how
many tasks start in a pass, never how long one task runs.

A zero frame time removes the ceilings. Such a pass runs exactly the tasks
that were queued when it started; anything scheduled while it runs is left
for the next pass, so chunked work that reschedules itself still yields.

# Failure Semantics

A task that returns an error or panics is logged and dropped. Draining then
continues with the next task. Tasks are never retried and cannot be cancelled
once scheduled.

# Usage

	s := scheduler.New(
		scheduler.WithLogger(logger),
		scheduler.WithFrameTime(scheduler.DefaultFrameTime),
	)

	go s.Run(ctx)

	s.Schedule(func() error {
		return repaintTabStrip()
	}, scheduler.PriorityHigh)

Hosts that already own a refresh callback can skip Run and call OnFrame from
that callback directly.
*/
package scheduler
