package tasks

import (
	"fmt"
	"time"
)

// Recover loads the persisted catalog into the state store and demotes
// every running or queued track to paused. A prior process exit cannot
// guarantee in-flight chunk state was flushed, so nothing is re-queued
// automatically; the user restarts batches through ResumeAll.
//
// Called once at process start, before the scheduler accepts work.
// Running it again with no intervening mutation changes nothing and
// writes nothing.
func (s *Scheduler) Recover() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.LoadAll()
	if err != nil {
		// Treat unreadable catalogs as empty rather than refusing to start.
		s.logger.Error("task catalog load failed, starting empty", "error", err)
		entries = []Entry{}
	}

	demoted := 0
	now := time.Now().UTC()
	for i := range entries {
		for _, trackType := range trackPriority {
			tr := entries[i].Track(trackType)
			if !tr.Status.Active() {
				continue
			}
			tr.Status = StatusPaused
			tr.UpdatedAt = now
			demoted++
		}
	}

	s.state.Set(entries)

	if demoted > 0 {
		s.logger.Info("demoted interrupted tracks to paused", "count", demoted)
		if err := s.store.SaveAll(s.state.Entries()); err != nil {
			return fmt.Errorf("failed to persist recovered catalog: %w", err)
		}
	}

	return nil
}
