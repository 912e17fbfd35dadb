package tasks

import (
	"context"
	"sync"

	"github.com/inkwell-app/inkwell/internal/book"
)

// MockGenerator is a scriptable Generator for tests. It walks the chunk
// list in order, marking chunks completed through the progress callback,
// and can be told to fail after N chunks, block until released, or stop
// on pause/cancel like a well-behaved gateway.
type MockGenerator struct {
	mu sync.Mutex

	// FailAfter, when >= 0, returns Err after completing that many chunks.
	FailAfter int
	// Err is the error returned when FailAfter triggers (required then).
	Err error

	// Started is closed (if non-nil) when Generate begins.
	Started chan struct{}
	// Release, when non-nil, blocks Generate before each chunk until a
	// value is received. Lets tests observe the running state.
	Release chan struct{}

	calls int
}

// NewMockGenerator creates a generator that completes every chunk.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{FailAfter: -1}
}

// Calls returns how many times Generate has been invoked.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, detail *book.Detail, chunks []Chunk, signal *Signal, onProgress ProgressFunc, isPaused PausedFunc) error {
	m.mu.Lock()
	m.calls++
	started := m.Started
	release := m.Release
	failAfter := m.FailAfter
	failErr := m.Err
	m.mu.Unlock()

	if started != nil {
		close(started)
		m.mu.Lock()
		m.Started = nil
		m.mu.Unlock()
	}

	done := 0
	total := len(chunks)
	for _, c := range chunks {
		if signal.Canceled() || isPaused() {
			return nil
		}
		if failAfter >= 0 && done >= failAfter {
			return failErr
		}
		if release != nil {
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if c.Status == ChunkCompleted {
			done++
			continue
		}
		done++
		onProgress(float64(done)/float64(total), c.ID, ChunkCompleted)
	}

	if failAfter >= 0 && done >= failAfter {
		return failErr
	}
	return nil
}
