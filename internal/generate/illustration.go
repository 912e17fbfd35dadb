package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkwell-app/inkwell/internal/book"
	"github.com/inkwell-app/inkwell/internal/providers"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// Illustrator generates one or more scene illustrations per chunk and
// records the image paths back onto the book's lines.
type Illustrator struct {
	images  providers.ImageClient
	library *book.Library
	logger  *slog.Logger
}

// NewIllustrator creates the illustration generation service.
func NewIllustrator(images providers.ImageClient, library *book.Library, logger *slog.Logger) *Illustrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Illustrator{images: images, library: library, logger: logger}
}

// Generate implements tasks.Generator for the illustration track.
func (g *Illustrator) Generate(ctx context.Context, detail *book.Detail, chunks []tasks.Chunk, signal *tasks.Signal, onProgress tasks.ProgressFunc, isPaused tasks.PausedFunc) error {
	done := completedCount(chunks)
	total := len(chunks)

	outDir := filepath.Join(g.library.Dir(detail.ID), "illustrations")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create illustration dir: %w", err)
	}

	for _, chunk := range chunks {
		if stopRequested(signal, isPaused) {
			return nil
		}
		if chunk.Status == tasks.ChunkCompleted {
			continue
		}

		onProgress(ratio(done, total), chunk.ID, tasks.ChunkRunning)

		if err := g.renderChunk(ctx, detail, chunk, outDir); err != nil {
			onProgress(ratio(done, total), chunk.ID, tasks.ChunkFailed)
			return err
		}

		done++
		onProgress(ratio(done, total), chunk.ID, tasks.ChunkCompleted)
	}

	return nil
}

// renderChunk renders the chunk's scenes and attaches the first image
// to the chunk's opening line.
func (g *Illustrator) renderChunk(ctx context.Context, detail *book.Detail, chunk tasks.Chunk, outDir string) error {
	chapter := detail.Chapter(chunk.ChapterID)
	if chapter == nil {
		return fmt.Errorf("chapter %s not in book detail", chunk.ChapterID)
	}

	text := chapterRangeText(chapter, chunk.StartLineID, chunk.EndLineID)
	if text == "" {
		return fmt.Errorf("chunk %s covers no lines", chunk.ID)
	}

	scenes := chunk.ScenesToGenerate
	if scenes <= 0 {
		scenes = 1
	}

	var firstImage string
	for i := 0; i < scenes; i++ {
		result, err := g.images.GenerateImage(ctx, &providers.ImageRequest{
			Prompt:    illustrationPrompt(detail.Title, chapter.Title, text, i, scenes),
			RequestID: fmt.Sprintf("%s-%d", chunk.ID, i),
		})
		if err != nil {
			return fmt.Errorf("scene %d failed: %w", i+1, err)
		}

		path := filepath.Join(outDir, fmt.Sprintf("%s_%d.%s", chunk.ID, i, result.Format))
		if err := os.WriteFile(path, result.ImageData, 0o644); err != nil {
			return fmt.Errorf("failed to write illustration: %w", err)
		}
		if firstImage == "" {
			firstImage = path
		}
	}

	for i := range chapter.Lines {
		if chapter.Lines[i].ID == chunk.StartLineID {
			chapter.Lines[i].ImagePath = firstImage
			break
		}
	}
	if err := g.library.Save(ctx, detail); err != nil {
		g.logger.Warn("failed to record illustration path", "book_id", detail.ID, "error", err)
	}

	return nil
}

// chapterRangeText joins the text of the lines between the two ids,
// inclusive. An unknown start id yields the empty string.
func chapterRangeText(chapter *book.Chapter, startLineID, endLineID string) string {
	var sb strings.Builder
	in := false
	for _, line := range chapter.Lines {
		if line.ID == startLineID {
			in = true
		}
		if in {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line.Text)
		}
		if line.ID == endLineID {
			break
		}
	}
	if !in {
		return ""
	}
	return sb.String()
}

func illustrationPrompt(bookTitle, chapterTitle, text string, scene, scenes int) string {
	var sb strings.Builder
	sb.WriteString("Illustrate a key scene from the novel \"")
	sb.WriteString(bookTitle)
	sb.WriteString("\", chapter \"")
	sb.WriteString(chapterTitle)
	sb.WriteString("\".")
	if scenes > 1 {
		fmt.Fprintf(&sb, " This is scene %d of %d for the passage.", scene+1, scenes)
	}
	sb.WriteString(" Passage:\n\n")
	sb.WriteString(text)
	return sb.String()
}
