package tasks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONStore_MissingFileIsEmptyCatalog(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "tasks.json"))

	entries, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestJSONStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "tasks.json"))

	e := NewEntry("b1", "First", "/books/first.epub", "epub", "/cache/b1", "/covers/b1.png")
	e.Illustration.Status = StatusFailed
	e.Illustration.ErrorMessage = "net error"
	e.Illustration.Chunks = pendingChunks(2)
	e.Illustration.Chunks[0].Status = ChunkCompleted
	e.Translation.Status = StatusCompleted

	if err := store.SaveAll([]Entry{e}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d entries, want 1", len(loaded))
	}
	got := loaded[0]
	if got.ID != "b1" || got.Title != "First" || got.FileType != "epub" {
		t.Errorf("identity fields lost: %+v", got)
	}
	if got.Illustration.Status != StatusFailed {
		t.Errorf("status = %s, want %s", got.Illustration.Status, StatusFailed)
	}
	if got.Illustration.ErrorMessage != "net error" {
		t.Errorf("errorMessage = %q, want %q", got.Illustration.ErrorMessage, "net error")
	}
	if got.Illustration.Chunks[0].Status != ChunkCompleted {
		t.Errorf("chunk status = %s, want %s", got.Illustration.Chunks[0].Status, ChunkCompleted)
	}
	if got.Translation.Status != StatusCompleted {
		t.Errorf("translation status = %s, want %s", got.Translation.Status, StatusCompleted)
	}
	if got.VideoGeneration.Status != StatusNotStarted {
		t.Errorf("video status = %s, want %s", got.VideoGeneration.Status, StatusNotStarted)
	}
}

func TestJSONStore_NilSavesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := NewJSONStore(path)

	if err := store.SaveAll(nil); err != nil {
		t.Fatalf("SaveAll(nil) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted document is not a JSON array: %v", err)
	}
}

func TestJSONStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewJSONStore(path)
	if _, err := store.LoadAll(); err == nil {
		t.Error("LoadAll() = nil error for corrupt catalog")
	}
}

func TestJSONStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "tasks.json")
	store := NewJSONStore(path)

	if err := store.SaveAll([]Entry{NewEntry("b1", "First", "", "epub", "", "")}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("catalog file missing: %v", err)
	}
}
