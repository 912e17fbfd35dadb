package generate

import (
	"github.com/inkwell-app/inkwell/internal/book"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

const (
	// DefaultLinesPerChunk is the chapter sub-range size for
	// illustration and translation chunks.
	DefaultLinesPerChunk = 40
	// DefaultScenesPerChunk is how many illustrations one chunk yields.
	DefaultScenesPerChunk = 1
)

// PlanIllustration splits each chapter into line ranges, one pending
// illustration chunk per range.
func PlanIllustration(detail *book.Detail, linesPerChunk, scenesPerChunk int) []tasks.Chunk {
	if linesPerChunk <= 0 {
		linesPerChunk = DefaultLinesPerChunk
	}
	if scenesPerChunk <= 0 {
		scenesPerChunk = DefaultScenesPerChunk
	}

	var chunks []tasks.Chunk
	for _, ch := range detail.Chapters {
		for start := 0; start < len(ch.Lines); start += linesPerChunk {
			end := start + linesPerChunk - 1
			if end >= len(ch.Lines) {
				end = len(ch.Lines) - 1
			}
			chunks = append(chunks, tasks.NewIllustrationChunk(
				ch.ID, ch.Lines[start].ID, ch.Lines[end].ID, scenesPerChunk,
			))
		}
	}
	return chunks
}

// PlanTranslation splits each chapter into line ranges, one pending
// translation chunk per range.
func PlanTranslation(detail *book.Detail, linesPerChunk int) []tasks.Chunk {
	if linesPerChunk <= 0 {
		linesPerChunk = DefaultLinesPerChunk
	}

	var chunks []tasks.Chunk
	for _, ch := range detail.Chapters {
		for start := 0; start < len(ch.Lines); start += linesPerChunk {
			end := start + linesPerChunk - 1
			if end >= len(ch.Lines) {
				end = len(ch.Lines) - 1
			}
			chunks = append(chunks, tasks.NewTranslationChunk(
				ch.ID, ch.Lines[start].ID, ch.Lines[end].ID,
			))
		}
	}
	return chunks
}

// PlanVideo creates one pending video chunk per line that already has an
// illustration image. Books without illustrations plan to nothing; the
// UI surfaces that as "illustrate first".
func PlanVideo(detail *book.Detail) []tasks.Chunk {
	var chunks []tasks.Chunk
	for _, ch := range detail.Chapters {
		for _, line := range ch.Lines {
			if line.ImagePath == "" {
				continue
			}
			chunks = append(chunks, tasks.NewVideoChunk(ch.ID, line.ID, line.ImagePath))
		}
	}
	return chunks
}
