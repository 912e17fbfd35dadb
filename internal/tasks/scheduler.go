package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrBookDetailNotFound is recorded on a track whose book detail could
// not be loaded when the scheduler tried to start it.
var ErrBookDetailNotFound = errors.New("book detail not found")

// Scheduler owns the task catalog: it selects the next eligible queued
// track under the global concurrency limit, dispatches it to the track's
// Generator, applies chunk progress, finalizes outcomes, and persists
// the entry list after every mutation.
//
// All entry mutation and persistence happens under one mutex; the only
// long-running operation (the Generator call) runs on its own goroutine
// outside the lock.
type Scheduler struct {
	mu         sync.Mutex
	store      Store
	state      *StateStore
	books      BookLoader
	generators map[TrackType]Generator
	limit      int
	logger     *slog.Logger

	signals map[string]*Signal // active attempt signal by entry id
	running int
}

// SchedulerConfig configures a new scheduler.
type SchedulerConfig struct {
	Store      Store
	State      *StateStore
	Books      BookLoader
	Generators map[TrackType]Generator

	// ConcurrencyLimit caps tracks executing at once (default 1).
	ConcurrencyLimit int

	Logger *slog.Logger
}

// NewScheduler creates a scheduler. Store, State and Books are required.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("scheduler requires a store")
	}
	if cfg.State == nil {
		return nil, fmt.Errorf("scheduler requires a state store")
	}
	if cfg.Books == nil {
		return nil, fmt.Errorf("scheduler requires a book loader")
	}
	limit := cfg.ConcurrencyLimit
	if limit <= 0 {
		limit = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	generators := cfg.Generators
	if generators == nil {
		generators = make(map[TrackType]Generator)
	}

	return &Scheduler{
		store:      cfg.Store,
		state:      cfg.State,
		books:      cfg.Books,
		generators: generators,
		limit:      limit,
		logger:     logger,
		signals:    make(map[string]*Signal),
	}, nil
}

// State returns the observable state store backing this scheduler.
func (s *Scheduler) State() *StateStore {
	return s.state
}

// ProcessQueue starts queued tracks until the concurrency limit is
// reached or nothing is eligible. It is idempotent and safe to call
// from any goroutine; every finalized track calls it again to pick up
// the next eligible one.
func (s *Scheduler) ProcessQueue() {
	for s.dispatchNext() {
	}
}

// dispatchNext promotes at most one queued track to running and hands it
// to its generator on a new goroutine. Returns false when the limit is
// reached or no track is eligible.
func (s *Scheduler) dispatchNext() bool {
	s.mu.Lock()

	if s.running >= s.limit {
		s.mu.Unlock()
		return false
	}

	entryID, trackType, ok := s.nextQueuedLocked()
	if !ok {
		s.mu.Unlock()
		return false
	}

	now := time.Now().UTC()
	s.state.Update(entryID, func(e *Entry) {
		tr := e.Track(trackType)
		tr.Status = StatusRunning
		tr.ErrorMessage = ""
		tr.UpdatedAt = now
	})

	signal := NewSignal()
	s.signals[entryID] = signal
	s.running++
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("track started", "book_id", entryID, "track", trackType)

	go s.run(entryID, trackType, signal)
	return true
}

// nextQueuedLocked scans entries in current list order, one full pass per
// track type in priority order, and returns the first queued track.
// Entries with an attempt already in flight are skipped so a single
// entry never runs two tracks at once.
func (s *Scheduler) nextQueuedLocked() (string, TrackType, bool) {
	entries := s.state.Entries()
	for _, trackType := range trackPriority {
		for i := range entries {
			if _, busy := s.signals[entries[i].ID]; busy {
				continue
			}
			if entries[i].Track(trackType).Status == StatusQueued {
				return entries[i].ID, trackType, true
			}
		}
	}
	return "", "", false
}

// run executes one generation attempt and finalizes the outcome.
func (s *Scheduler) run(entryID string, trackType TrackType, signal *Signal) {
	ctx := context.Background()

	detail, err := s.books.Detail(ctx, entryID)
	if err != nil {
		s.logger.Warn("book detail load failed", "book_id", entryID, "track", trackType, "error", err)
		s.finalize(entryID, trackType, signal, ErrBookDetailNotFound)
		return
	}

	generator, ok := s.generators[trackType]
	if !ok {
		s.finalize(entryID, trackType, signal, fmt.Errorf("no generator registered for track %s", trackType))
		return
	}

	var chunks []Chunk
	if e, found := s.state.Entry(entryID); found {
		chunks = e.Track(trackType).Chunks
	}

	err = generator.Generate(ctx, detail, chunks, signal,
		s.progressFunc(entryID, trackType),
		s.pausedFunc(entryID, trackType),
	)
	s.finalize(entryID, trackType, signal, err)
}

// finalize applies the outcome of one generation attempt. Chunk statuses
// already written by the progress callback are left untouched. A track
// the user paused mid-attempt stays paused; the attempt's outcome is
// discarded and the pause wins.
func (s *Scheduler) finalize(entryID string, trackType TrackType, signal *Signal, genErr error) {
	s.mu.Lock()
	now := time.Now().UTC()
	final := TrackStatus("")
	s.state.Update(entryID, func(e *Entry) {
		tr := e.Track(trackType)
		switch {
		case tr.Status == StatusPaused:
		case genErr != nil:
			tr.Status = StatusFailed
			tr.ErrorMessage = genErr.Error()
		case signal.Canceled():
			tr.Status = StatusCanceled
		case tr.Status == StatusRunning:
			tr.Status = StatusCompleted
		}
		tr.UpdatedAt = now
		final = tr.Status
	})
	delete(s.signals, entryID)
	s.running--
	s.persistLocked()
	s.mu.Unlock()

	if genErr != nil {
		s.logger.Warn("track failed", "book_id", entryID, "track", trackType, "error", genErr)
	} else {
		s.logger.Info("track finished", "book_id", entryID, "track", trackType, "status", final)
	}

	s.ProcessQueue()
}

// progressFunc builds the per-attempt progress callback. Updates are
// dropped when the entry no longer exists or the track is paused.
func (s *Scheduler) progressFunc(entryID string, trackType TrackType) ProgressFunc {
	return func(ratio float64, chunkID string, status ChunkStatus) {
		s.mu.Lock()
		defer s.mu.Unlock()

		e, ok := s.state.Entry(entryID)
		if !ok {
			return
		}
		if e.Track(trackType).Status == StatusPaused {
			return
		}

		now := time.Now().UTC()
		s.state.Update(entryID, func(e *Entry) {
			tr := e.Track(trackType)
			for i := range tr.Chunks {
				if tr.Chunks[i].ID == chunkID {
					tr.Chunks[i].Status = status
					break
				}
			}
			tr.UpdatedAt = now
		})
		s.persistLocked()

		s.logger.Debug("chunk progress",
			"book_id", entryID,
			"track", trackType,
			"chunk_id", chunkID,
			"status", status,
			"ratio", ratio,
		)
	}
}

// pausedFunc builds the live pause predicate for one attempt. A deleted
// entry reads as paused so the generator stops submitting work.
func (s *Scheduler) pausedFunc(entryID string, trackType TrackType) PausedFunc {
	return func() bool {
		e, ok := s.state.Entry(entryID)
		if !ok {
			return true
		}
		return e.Track(trackType).Status == StatusPaused
	}
}

// persistLocked writes the whole entry list through the store. Save
// failures are logged and dropped; the in-memory state stays ahead of
// disk and startup recovery covers the gap.
func (s *Scheduler) persistLocked() {
	if err := s.store.SaveAll(s.state.Entries()); err != nil {
		s.logger.Error("task catalog save failed", "error", err)
	}
}

// RunningCount returns the number of tracks currently executing.
func (s *Scheduler) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
