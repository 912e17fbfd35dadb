package tasks

import "testing"

func TestStateStore_AddUpdateRemove(t *testing.T) {
	s := NewStateStore()

	s.Add(NewEntry("b1", "First", "", "epub", "", ""))
	s.Add(NewEntry("b2", "Second", "", "txt", "", ""))

	if got := len(s.Entries()); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}

	if ok := s.Update("b1", func(e *Entry) {
		e.Illustration.Status = StatusQueued
	}); !ok {
		t.Fatal("Update() = false for known id")
	}
	e, ok := s.Entry("b1")
	if !ok {
		t.Fatal("Entry() not found")
	}
	if e.Illustration.Status != StatusQueued {
		t.Errorf("status = %s, want %s", e.Illustration.Status, StatusQueued)
	}

	if ok := s.Update("nope", func(e *Entry) {}); ok {
		t.Error("Update() = true for unknown id")
	}

	if !s.Remove("b2") {
		t.Error("Remove() = false for known id")
	}
	if s.Remove("b2") {
		t.Error("Remove() = true for already-removed id")
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1 after remove", got)
	}
}

func TestStateStore_AddReplacesSameID(t *testing.T) {
	s := NewStateStore()

	s.Add(NewEntry("b1", "First", "", "epub", "", ""))
	s.Add(NewEntry("b1", "Renamed", "", "epub", "", ""))

	if got := len(s.Entries()); got != 1 {
		t.Fatalf("entries = %d, want 1", got)
	}
	e, _ := s.Entry("b1")
	if e.Title != "Renamed" {
		t.Errorf("title = %q, want %q", e.Title, "Renamed")
	}
}

func TestStateStore_SnapshotsAreIsolated(t *testing.T) {
	s := NewStateStore()
	e := NewEntry("b1", "First", "", "epub", "", "")
	e.Illustration.Chunks = pendingChunks(2)
	s.Add(e)

	snap := s.Entries()
	snap[0].Illustration.Chunks[0].Status = ChunkCompleted
	snap[0].Title = "Mutated"

	fresh, _ := s.Entry("b1")
	if fresh.Illustration.Chunks[0].Status != ChunkPending {
		t.Error("mutating a snapshot chunk leaked into the store")
	}
	if fresh.Title != "First" {
		t.Error("mutating a snapshot field leaked into the store")
	}
}

func TestStateStore_SubscribersSeeEveryMutation(t *testing.T) {
	s := NewStateStore()

	var notifications [][]Entry
	s.Subscribe(func(entries []Entry) {
		notifications = append(notifications, entries)
	})

	s.Add(NewEntry("b1", "First", "", "epub", "", ""))
	s.Update("b1", func(e *Entry) { e.Illustration.Status = StatusQueued })
	s.Remove("b1")
	s.Update("b1", func(e *Entry) {}) // unknown id, no notification

	if got := len(notifications); got != 3 {
		t.Fatalf("notifications = %d, want 3", got)
	}
	if got := notifications[1][0].Illustration.Status; got != StatusQueued {
		t.Errorf("second notification status = %s, want %s", got, StatusQueued)
	}
	if got := len(notifications[2]); got != 0 {
		t.Errorf("final notification entries = %d, want 0", got)
	}
}

func TestStateStore_SetReplacesEverything(t *testing.T) {
	s := NewStateStore()
	s.Add(NewEntry("old", "Old", "", "epub", "", ""))

	s.Set([]Entry{
		NewEntry("b1", "First", "", "epub", "", ""),
		NewEntry("b2", "Second", "", "epub", "", ""),
	})

	if _, ok := s.Entry("old"); ok {
		t.Error("Set() kept a stale entry")
	}
	if got := len(s.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}
