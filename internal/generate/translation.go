package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkwell-app/inkwell/internal/book"
	"github.com/inkwell-app/inkwell/internal/providers"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// Translator translates chapter line ranges and writes the translated
// text back onto the book's lines.
type Translator struct {
	llm      providers.LLMClient
	library  *book.Library
	language string
	logger   *slog.Logger
}

// NewTranslator creates the translation generation service.
func NewTranslator(llm providers.LLMClient, library *book.Library, targetLanguage string, logger *slog.Logger) *Translator {
	if targetLanguage == "" {
		targetLanguage = "English"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{llm: llm, library: library, language: targetLanguage, logger: logger}
}

// Generate implements tasks.Generator for the translation track.
func (g *Translator) Generate(ctx context.Context, detail *book.Detail, chunks []tasks.Chunk, signal *tasks.Signal, onProgress tasks.ProgressFunc, isPaused tasks.PausedFunc) error {
	done := completedCount(chunks)
	total := len(chunks)

	for _, chunk := range chunks {
		if stopRequested(signal, isPaused) {
			return nil
		}
		if chunk.Status == tasks.ChunkCompleted {
			continue
		}

		onProgress(ratio(done, total), chunk.ID, tasks.ChunkRunning)

		if err := g.translateChunk(ctx, detail, chunk); err != nil {
			onProgress(ratio(done, total), chunk.ID, tasks.ChunkFailed)
			return err
		}

		done++
		onProgress(ratio(done, total), chunk.ID, tasks.ChunkCompleted)
	}

	return nil
}

func (g *Translator) translateChunk(ctx context.Context, detail *book.Detail, chunk tasks.Chunk) error {
	chapter := detail.Chapter(chunk.ChapterID)
	if chapter == nil {
		return fmt.Errorf("chapter %s not in book detail", chunk.ChapterID)
	}

	start, end := lineRange(chapter, chunk.StartLineID, chunk.EndLineID)
	if start < 0 {
		return fmt.Errorf("chunk %s covers no lines", chunk.ID)
	}

	var source strings.Builder
	for i := start; i <= end; i++ {
		source.WriteString(chapter.Lines[i].Text)
		source.WriteByte('\n')
	}

	result, err := g.llm.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: fmt.Sprintf(
				"You are a literary translator. Translate the passage into %s, one output line per input line, preserving tone and register. Output only the translation.",
				g.language)},
			{Role: "user", Content: source.String()},
		},
		RequestID: chunk.ID,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	translated := strings.Split(strings.TrimRight(result.Content, "\n"), "\n")
	for i := start; i <= end; i++ {
		if idx := i - start; idx < len(translated) {
			chapter.Lines[i].Translated = translated[idx]
		}
	}

	if err := g.library.Save(ctx, detail); err != nil {
		g.logger.Warn("failed to record translation", "book_id", detail.ID, "error", err)
	}
	return nil
}

// lineRange returns the inclusive index range for the two line ids, or
// (-1, -1) if the start id is unknown.
func lineRange(chapter *book.Chapter, startLineID, endLineID string) (int, int) {
	start, end := -1, -1
	for i, line := range chapter.Lines {
		if line.ID == startLineID {
			start = i
		}
		if line.ID == endLineID {
			end = i
			break
		}
	}
	if start < 0 {
		return -1, -1
	}
	if end < start {
		end = len(chapter.Lines) - 1
	}
	return start, end
}
