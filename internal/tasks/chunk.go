package tasks

import "github.com/google/uuid"

// Chunk is the smallest schedulable unit of work inside a track.
//
// Illustration chunks cover a line range within a chapter plus a scene
// count; translation chunks cover a line range; video chunks reference a
// single line and the source image generated for it. The unused fields
// are omitted from the persisted document.
type Chunk struct {
	ID               string      `json:"id"`
	ChapterID        string      `json:"chapterId"`
	StartLineID      string      `json:"startLineId,omitempty"`
	EndLineID        string      `json:"endLineId,omitempty"`
	ScenesToGenerate int         `json:"scenesToGenerate,omitempty"`
	LineID           string      `json:"lineId,omitempty"`
	SourceImagePath  string      `json:"sourceImagePath,omitempty"`
	Status           ChunkStatus `json:"status"`
}

// NewIllustrationChunk creates a pending illustration chunk for a line range.
func NewIllustrationChunk(chapterID, startLineID, endLineID string, scenes int) Chunk {
	return Chunk{
		ID:               uuid.New().String(),
		ChapterID:        chapterID,
		StartLineID:      startLineID,
		EndLineID:        endLineID,
		ScenesToGenerate: scenes,
		Status:           ChunkPending,
	}
}

// NewTranslationChunk creates a pending translation chunk for a line range.
func NewTranslationChunk(chapterID, startLineID, endLineID string) Chunk {
	return Chunk{
		ID:          uuid.New().String(),
		ChapterID:   chapterID,
		StartLineID: startLineID,
		EndLineID:   endLineID,
		Status:      ChunkPending,
	}
}

// NewVideoChunk creates a pending video chunk for a single source image.
func NewVideoChunk(chapterID, lineID, sourceImagePath string) Chunk {
	return Chunk{
		ID:              uuid.New().String(),
		ChapterID:       chapterID,
		LineID:          lineID,
		SourceImagePath: sourceImagePath,
		Status:          ChunkPending,
	}
}
