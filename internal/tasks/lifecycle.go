package tasks

import "time"

// Lifecycle operations. All are no-ops against an unknown entry id, and
// each persists the full entry list before returning.

// Enqueue moves a notStarted track to queued with the given chunk plan
// and kicks the queue. Tracks in any other state are left alone; a
// completed track must be cleared first, a failed or canceled one goes
// through Retry.
func (s *Scheduler) Enqueue(entryID string, trackType TrackType, chunks []Chunk) {
	s.mu.Lock()
	changed := false
	now := time.Now().UTC()
	s.state.Update(entryID, func(e *Entry) {
		tr := e.Track(trackType)
		if tr.Status != StatusNotStarted {
			return
		}
		tr.Status = StatusQueued
		tr.Chunks = cloneChunks(chunks)
		tr.ErrorMessage = ""
		tr.CreatedAt = now
		tr.UpdatedAt = now
		changed = true
	})
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if changed {
		s.logger.Info("track enqueued", "book_id", entryID, "track", trackType, "chunks", len(chunks))
		s.ProcessQueue()
	}
}

// Pause moves a running track to paused. The in-flight attempt keeps
// going until the generator observes the pause predicate; its further
// progress updates are dropped and its outcome is discarded.
func (s *Scheduler) Pause(entryID string, trackType TrackType) {
	s.mu.Lock()
	changed := false
	now := time.Now().UTC()
	s.state.Update(entryID, func(e *Entry) {
		tr := e.Track(trackType)
		if tr.Status != StatusRunning {
			return
		}
		tr.Status = StatusPaused
		tr.UpdatedAt = now
		changed = true
	})
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if changed {
		s.logger.Info("track paused", "book_id", entryID, "track", trackType)
	}
}

// Resume moves a paused track back to queued and kicks the queue.
func (s *Scheduler) Resume(entryID string, trackType TrackType) {
	s.mu.Lock()
	changed := false
	now := time.Now().UTC()
	s.state.Update(entryID, func(e *Entry) {
		tr := e.Track(trackType)
		if tr.Status != StatusPaused {
			return
		}
		tr.Status = StatusQueued
		tr.UpdatedAt = now
		changed = true
	})
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if changed {
		s.logger.Info("track resumed", "book_id", entryID, "track", trackType)
		s.ProcessQueue()
	}
}

// ResumeAll moves every paused track of every entry to queued and kicks
// the queue once.
func (s *Scheduler) ResumeAll() {
	s.mu.Lock()
	resumed := 0
	now := time.Now().UTC()
	for _, e := range s.state.Entries() {
		for _, trackType := range trackPriority {
			if e.Track(trackType).Status != StatusPaused {
				continue
			}
			s.state.Update(e.ID, func(e *Entry) {
				tr := e.Track(trackType)
				tr.Status = StatusQueued
				tr.UpdatedAt = now
			})
			resumed++
		}
	}
	if resumed > 0 {
		s.persistLocked()
	}
	s.mu.Unlock()

	if resumed > 0 {
		s.logger.Info("resumed all paused tracks", "count", resumed)
		s.ProcessQueue()
	}
}

// Cancel signals the entry's active attempt, if any, and immediately
// cancels every queued track of the entry. The running track finalizes
// as canceled once its generator returns; queued tracks have no attempt
// to signal and flip directly.
func (s *Scheduler) Cancel(entryID string) {
	s.mu.Lock()
	if signal, ok := s.signals[entryID]; ok {
		signal.Cancel()
	}
	changed := false
	now := time.Now().UTC()
	s.state.Update(entryID, func(e *Entry) {
		for _, trackType := range trackPriority {
			tr := e.Track(trackType)
			if tr.Status != StatusQueued {
				continue
			}
			tr.Status = StatusCanceled
			tr.UpdatedAt = now
			changed = true
		}
	})
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()

	s.logger.Info("entry canceled", "book_id", entryID)
}

// Retry requeues every failed or canceled track of the entry, clearing
// error text but keeping chunk state, then kicks the queue.
func (s *Scheduler) Retry(entryID string) {
	s.mu.Lock()
	changed := false
	now := time.Now().UTC()
	s.state.Update(entryID, func(e *Entry) {
		for _, trackType := range trackPriority {
			tr := e.Track(trackType)
			if tr.Status != StatusFailed && tr.Status != StatusCanceled {
				continue
			}
			tr.Status = StatusQueued
			tr.ErrorMessage = ""
			tr.UpdatedAt = now
			changed = true
		}
	})
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if changed {
		s.logger.Info("entry retried", "book_id", entryID)
		s.ProcessQueue()
	}
}

// ClearCompleted resets every completed track of every entry back to
// notStarted with an empty chunk list.
func (s *Scheduler) ClearCompleted() {
	s.mu.Lock()
	cleared := 0
	now := time.Now().UTC()
	for _, e := range s.state.Entries() {
		for _, trackType := range trackPriority {
			if e.Track(trackType).Status != StatusCompleted {
				continue
			}
			s.state.Update(e.ID, func(e *Entry) {
				e.Track(trackType).reset(now)
			})
			cleared++
		}
	}
	if cleared > 0 {
		s.persistLocked()
	}
	s.mu.Unlock()

	if cleared > 0 {
		s.logger.Info("cleared completed tracks", "count", cleared)
	}
}

// Delete cancels the entry's active work and unconditionally resets all
// three tracks to notStarted with empty chunks. Deletion is whole-entry:
// the record itself survives until the book leaves the library.
func (s *Scheduler) Delete(entryID string) {
	s.Cancel(entryID)

	s.mu.Lock()
	now := time.Now().UTC()
	found := s.state.Update(entryID, func(e *Entry) {
		for _, trackType := range trackPriority {
			e.Track(trackType).reset(now)
		}
	})
	if found {
		s.persistLocked()
	}
	s.mu.Unlock()

	if found {
		s.logger.Info("entry task history deleted", "book_id", entryID)
	}
}

// AddEntry registers the task record for a newly imported book.
func (s *Scheduler) AddEntry(e Entry) {
	s.mu.Lock()
	s.state.Add(e)
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("entry added", "book_id", e.ID, "title", e.Title)
}

// RemoveEntry destroys the task record when a book leaves the library.
// Any active attempt is signaled first.
func (s *Scheduler) RemoveEntry(entryID string) {
	s.Cancel(entryID)

	s.mu.Lock()
	removed := s.state.Remove(entryID)
	if removed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if removed {
		s.logger.Info("entry removed", "book_id", entryID)
	}
}
