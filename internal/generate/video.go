package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inkwell-app/inkwell/internal/book"
	"github.com/inkwell-app/inkwell/internal/providers"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// Animator turns previously generated illustrations into short clips,
// one per video chunk.
type Animator struct {
	video   providers.VideoClient
	library *book.Library
	logger  *slog.Logger
}

// NewAnimator creates the video generation service.
func NewAnimator(video providers.VideoClient, library *book.Library, logger *slog.Logger) *Animator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Animator{video: video, library: library, logger: logger}
}

// Generate implements tasks.Generator for the video track.
func (g *Animator) Generate(ctx context.Context, detail *book.Detail, chunks []tasks.Chunk, signal *tasks.Signal, onProgress tasks.ProgressFunc, isPaused tasks.PausedFunc) error {
	done := completedCount(chunks)
	total := len(chunks)

	outDir := filepath.Join(g.library.Dir(detail.ID), "videos")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create video dir: %w", err)
	}

	for _, chunk := range chunks {
		if stopRequested(signal, isPaused) {
			return nil
		}
		if chunk.Status == tasks.ChunkCompleted {
			continue
		}

		onProgress(ratio(done, total), chunk.ID, tasks.ChunkRunning)

		result, err := g.video.AnimateImage(ctx, &providers.VideoRequest{
			SourceImagePath: chunk.SourceImagePath,
			RequestID:       chunk.ID,
		})
		if err != nil {
			onProgress(ratio(done, total), chunk.ID, tasks.ChunkFailed)
			return fmt.Errorf("animation failed for line %s: %w", chunk.LineID, err)
		}

		path := filepath.Join(outDir, fmt.Sprintf("%s.%s", chunk.ID, result.Format))
		if err := os.WriteFile(path, result.VideoData, 0o644); err != nil {
			onProgress(ratio(done, total), chunk.ID, tasks.ChunkFailed)
			return fmt.Errorf("failed to write video: %w", err)
		}

		done++
		onProgress(ratio(done, total), chunk.ID, tasks.ChunkCompleted)
	}

	return nil
}
