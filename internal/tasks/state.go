package tasks

import "sync"

// StateStore holds the current entry list and notifies subscribers on
// every change, so presentation layers can observe without polling.
// Notifications are synchronous and carry a snapshot copy; subscribers
// must not call back into the store from the callback.
type StateStore struct {
	mu      sync.RWMutex
	entries []Entry
	subs    []func([]Entry)
}

// NewStateStore creates an empty state store.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// Subscribe registers a callback invoked with a snapshot after every
// mutation. Subscriptions cannot be removed; they live as long as the
// process.
func (s *StateStore) Subscribe(fn func([]Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Entries returns a snapshot of the current entry list.
func (s *StateStore) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.entries)
}

// Entry returns a copy of the entry with the given id.
func (s *StateStore) Entry(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			return cloneEntry(s.entries[i]), true
		}
	}
	return Entry{}, false
}

// Set replaces the whole entry list and notifies subscribers.
func (s *StateStore) Set(entries []Entry) {
	s.mu.Lock()
	s.entries = snapshot(entries)
	snap := snapshot(s.entries)
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Update mutates the entry with the given id in place and notifies
// subscribers. Returns false (and notifies nobody) if the id is unknown.
func (s *StateStore) Update(id string, fn func(*Entry)) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	fn(&s.entries[idx])
	snap := snapshot(s.entries)
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

// Add appends a new entry and notifies subscribers. An entry with the
// same id is replaced (last writer wins at entry granularity).
func (s *StateStore) Add(e Entry) {
	s.mu.Lock()
	replaced := false
	for i := range s.entries {
		if s.entries[i].ID == e.ID {
			s.entries[i] = cloneEntry(e)
			replaced = true
			break
		}
	}
	if !replaced {
		s.entries = append(s.entries, cloneEntry(e))
	}
	snap := snapshot(s.entries)
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Remove deletes the entry with the given id and notifies subscribers.
// Unknown ids are a no-op.
func (s *StateStore) Remove(id string) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	snap := snapshot(s.entries)
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

// snapshot deep-copies an entry list so callers can't mutate shared chunk
// slices through a returned or delivered copy.
func snapshot(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = cloneEntry(entries[i])
	}
	return out
}

func cloneEntry(e Entry) Entry {
	e.Illustration.Chunks = cloneChunks(e.Illustration.Chunks)
	e.Translation.Chunks = cloneChunks(e.Translation.Chunks)
	e.VideoGeneration.Chunks = cloneChunks(e.VideoGeneration.Chunks)
	return e
}

func cloneChunks(chunks []Chunk) []Chunk {
	if chunks == nil {
		return nil
	}
	out := make([]Chunk, len(chunks))
	copy(out, chunks)
	return out
}
