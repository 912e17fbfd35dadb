package tasks

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/book"
)

// ProgressFunc reports one chunk status change plus the overall completed
// ratio for the track. It is invoked by the Generator after each chunk.
// Implementations must tolerate being called for entries that no longer
// exist (the update is dropped).
type ProgressFunc func(ratio float64, chunkID string, status ChunkStatus)

// PausedFunc reports whether the user has paused the track. Generators
// must stop submitting new chunk work once it returns true; updates
// reported after that point are dropped rather than buffered.
type PausedFunc func() bool

// Generator performs the actual chunk-by-chunk generation work for one
// track type. Implementations live in internal/generate; the scheduler
// only depends on this contract.
//
// Generate must iterate the given chunks, invoke onProgress after each,
// check signal and isPaused between chunks (not within one), and return
// an error only for unrecoverable failures. Returning normally with the
// signal set finalizes the track as canceled, not completed.
type Generator interface {
	Generate(ctx context.Context, detail *book.Detail, chunks []Chunk, signal *Signal, onProgress ProgressFunc, isPaused PausedFunc) error
}

// BookLoader resolves an entry's book detail from the book cache.
type BookLoader interface {
	Detail(ctx context.Context, bookID string) (*book.Detail, error)
}
