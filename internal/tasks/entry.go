package tasks

import (
	"encoding/json"
	"time"
)

// Track holds the state of one generation workflow for an entry.
type Track struct {
	Status       TrackStatus
	Chunks       []Chunk
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Progress returns the completed-chunk ratio for the track.
// A completed track with no chunks reports 1.0; any other empty track 0.0.
func (t *Track) Progress() float64 {
	if len(t.Chunks) == 0 {
		if t.Status == StatusCompleted {
			return 1.0
		}
		return 0.0
	}
	done := 0
	for _, c := range t.Chunks {
		if c.Status == ChunkCompleted {
			done++
		}
	}
	return float64(done) / float64(len(t.Chunks))
}

// reset returns the track to notStarted with no chunks and no error.
func (t *Track) reset(now time.Time) {
	t.Status = StatusNotStarted
	t.Chunks = nil
	t.ErrorMessage = ""
	t.UpdatedAt = now
}

// Entry is the per-book task record. The ID is the book's own identifier;
// the entry is created when the book is imported and destroyed only when
// the book leaves the library.
type Entry struct {
	ID             string
	Title          string
	OriginalPath   string
	FileType       string
	SubCachePath   string
	CoverImagePath string

	Illustration    Track
	Translation     Track
	VideoGeneration Track
}

// NewEntry creates an entry for a freshly imported book with all tracks
// at notStarted.
func NewEntry(id, title, originalPath, fileType, subCachePath, coverImagePath string) Entry {
	now := time.Now().UTC()
	blank := Track{Status: StatusNotStarted, CreatedAt: now, UpdatedAt: now}
	return Entry{
		ID:              id,
		Title:           title,
		OriginalPath:    originalPath,
		FileType:        fileType,
		SubCachePath:    subCachePath,
		CoverImagePath:  coverImagePath,
		Illustration:    blank,
		Translation:     blank,
		VideoGeneration: blank,
	}
}

// Track returns the track for the given type. Unknown types return nil.
func (e *Entry) Track(t TrackType) *Track {
	switch t {
	case TrackIllustration:
		return &e.Illustration
	case TrackTranslation:
		return &e.Translation
	case TrackVideoGeneration:
		return &e.VideoGeneration
	}
	return nil
}

// entryDoc is the persisted wire shape: one flat JSON object per book,
// with the translation and video tracks prefixed rather than nested.
// This layout is the on-disk contract and must not change shape.
type entryDoc struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	OriginalPath   string `json:"originalPath"`
	FileType       string `json:"fileType"`
	SubCachePath   string `json:"subCachePath"`
	CoverImagePath string `json:"coverImagePath"`

	Status       TrackStatus `json:"status"`
	TaskChunks   []Chunk     `json:"taskChunks"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`

	TranslationStatus       TrackStatus `json:"translationStatus"`
	TranslationTaskChunks   []Chunk     `json:"translationTaskChunks"`
	TranslationErrorMessage string      `json:"translationErrorMessage,omitempty"`
	TranslationCreatedAt    *time.Time  `json:"translationCreatedAt,omitempty"`
	TranslationUpdatedAt    *time.Time  `json:"translationUpdatedAt,omitempty"`

	VideoGenerationStatus       TrackStatus `json:"videoGenerationStatus"`
	VideoGenerationTaskChunks   []Chunk     `json:"videoGenerationTaskChunks"`
	VideoGenerationErrorMessage string      `json:"videoGenerationErrorMessage,omitempty"`
	VideoGenerationCreatedAt    *time.Time  `json:"videoGenerationCreatedAt,omitempty"`
	VideoGenerationUpdatedAt    *time.Time  `json:"videoGenerationUpdatedAt,omitempty"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func statusOrDefault(s TrackStatus) TrackStatus {
	if s == "" {
		return StatusNotStarted
	}
	return s
}

// MarshalJSON serializes the entry into the flat persisted document.
func (e Entry) MarshalJSON() ([]byte, error) {
	doc := entryDoc{
		ID:             e.ID,
		Title:          e.Title,
		OriginalPath:   e.OriginalPath,
		FileType:       e.FileType,
		SubCachePath:   e.SubCachePath,
		CoverImagePath: e.CoverImagePath,

		Status:       e.Illustration.Status,
		TaskChunks:   e.Illustration.Chunks,
		ErrorMessage: e.Illustration.ErrorMessage,
		CreatedAt:    timePtr(e.Illustration.CreatedAt),
		UpdatedAt:    timePtr(e.Illustration.UpdatedAt),

		TranslationStatus:       e.Translation.Status,
		TranslationTaskChunks:   e.Translation.Chunks,
		TranslationErrorMessage: e.Translation.ErrorMessage,
		TranslationCreatedAt:    timePtr(e.Translation.CreatedAt),
		TranslationUpdatedAt:    timePtr(e.Translation.UpdatedAt),

		VideoGenerationStatus:       e.VideoGeneration.Status,
		VideoGenerationTaskChunks:   e.VideoGeneration.Chunks,
		VideoGenerationErrorMessage: e.VideoGeneration.ErrorMessage,
		VideoGenerationCreatedAt:    timePtr(e.VideoGeneration.CreatedAt),
		VideoGenerationUpdatedAt:    timePtr(e.VideoGeneration.UpdatedAt),
	}
	return json.Marshal(doc)
}

// UnmarshalJSON restores the entry from the flat persisted document.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var doc entryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	e.ID = doc.ID
	e.Title = doc.Title
	e.OriginalPath = doc.OriginalPath
	e.FileType = doc.FileType
	e.SubCachePath = doc.SubCachePath
	e.CoverImagePath = doc.CoverImagePath

	e.Illustration = Track{
		Status:       statusOrDefault(doc.Status),
		Chunks:       doc.TaskChunks,
		ErrorMessage: doc.ErrorMessage,
		CreatedAt:    timeVal(doc.CreatedAt),
		UpdatedAt:    timeVal(doc.UpdatedAt),
	}
	e.Translation = Track{
		Status:       statusOrDefault(doc.TranslationStatus),
		Chunks:       doc.TranslationTaskChunks,
		ErrorMessage: doc.TranslationErrorMessage,
		CreatedAt:    timeVal(doc.TranslationCreatedAt),
		UpdatedAt:    timeVal(doc.TranslationUpdatedAt),
	}
	e.VideoGeneration = Track{
		Status:       statusOrDefault(doc.VideoGenerationStatus),
		Chunks:       doc.VideoGenerationTaskChunks,
		ErrorMessage: doc.VideoGenerationErrorMessage,
		CreatedAt:    timeVal(doc.VideoGenerationCreatedAt),
		UpdatedAt:    timeVal(doc.VideoGenerationUpdatedAt),
	}
	return nil
}
