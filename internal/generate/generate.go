// Package generate implements the per-track generation services the
// scheduler dispatches to. Each generator walks its track's chunk list
// in order, calls the configured provider, reports chunk status through
// the scheduler's progress callback, and checks the pause predicate and
// cancellation signal between chunks, never within one.
//
// Generators must be idempotent: a resumed attempt re-receives the full
// chunk list and skips chunks already marked completed.
package generate

import (
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// completedCount returns how many chunks in the local view are done.
func completedCount(chunks []tasks.Chunk) int {
	n := 0
	for _, c := range chunks {
		if c.Status == tasks.ChunkCompleted {
			n++
		}
	}
	return n
}

// ratio returns done/total, guarding the empty list.
func ratio(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// stopRequested reports whether the attempt should stop submitting work.
func stopRequested(signal *tasks.Signal, isPaused tasks.PausedFunc) bool {
	return signal.Canceled() || isPaused()
}
