package tasks

import (
	"errors"
	"testing"
)

func seededEntry(id string) Entry {
	e := NewEntry(id, "Book "+id, "", "epub", "", "")
	return e
}

func TestRecover_DemotesInterruptedTracks(t *testing.T) {
	running := seededEntry("b1")
	running.Illustration.Status = StatusRunning
	running.Illustration.Chunks = pendingChunks(3)
	running.Translation.Status = StatusQueued
	running.VideoGeneration.Status = StatusCompleted

	store := &memStore{entries: []Entry{running}}
	s := newTestScheduler(t, store, nil, 1)

	if err := s.Recover(); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}

	e, ok := s.State().Entry("b1")
	if !ok {
		t.Fatal("entry missing after recovery")
	}
	if got := e.Illustration.Status; got != StatusPaused {
		t.Errorf("running track recovered as %s, want %s", got, StatusPaused)
	}
	if got := e.Translation.Status; got != StatusPaused {
		t.Errorf("queued track recovered as %s, want %s", got, StatusPaused)
	}
	if got := e.VideoGeneration.Status; got != StatusCompleted {
		t.Errorf("completed track recovered as %s, want %s", got, StatusCompleted)
	}
	if got := len(e.Illustration.Chunks); got != 3 {
		t.Errorf("chunk plan lost in recovery: %d chunks, want 3", got)
	}

	// Demotion is persisted so a crash before the first resume does not
	// resurrect running state.
	if store.saveCount() != 1 {
		t.Errorf("saves = %d, want 1", store.saveCount())
	}
}

func TestRecover_IsIdempotent(t *testing.T) {
	running := seededEntry("b1")
	running.Illustration.Status = StatusRunning

	store := &memStore{entries: []Entry{running}}
	s := newTestScheduler(t, store, nil, 1)

	if err := s.Recover(); err != nil {
		t.Fatalf("first Recover() error = %v", err)
	}
	saves := store.saveCount()

	if err := s.Recover(); err != nil {
		t.Fatalf("second Recover() error = %v", err)
	}
	if got := store.saveCount(); got != saves {
		t.Errorf("second recovery wrote %d extra saves, want 0", got-saves)
	}
}

func TestRecover_UnreadableCatalogStartsEmpty(t *testing.T) {
	store := &memStore{loadErr: errors.New("corrupt json")}
	s := newTestScheduler(t, store, nil, 1)

	if err := s.Recover(); err != nil {
		t.Fatalf("Recover() error = %v, want nil for unreadable catalog", err)
	}
	if got := len(s.State().Entries()); got != 0 {
		t.Errorf("entries = %d, want 0", got)
	}
}

func TestRecover_CleanCatalogWritesNothing(t *testing.T) {
	done := seededEntry("b1")
	done.Illustration.Status = StatusCompleted

	store := &memStore{entries: []Entry{done, seededEntry("b2")}}
	s := newTestScheduler(t, store, nil, 1)

	if err := s.Recover(); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got := store.saveCount(); got != 0 {
		t.Errorf("saves = %d, want 0 when nothing was demoted", got)
	}
	if got := len(s.State().Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}
