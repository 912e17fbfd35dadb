// Package book provides the book cache model consumed by the task
// subsystem: per-book detail records with chapters and numbered lines.
// Parsing novels into this shape (EPUB/TXT import) happens upstream;
// this package only owns the cached representation.
package book

// FileType identifies the original novel format.
type FileType string

const (
	FileTypeEPUB FileType = "epub"
	FileTypeTXT  FileType = "txt"
)

// Line is one numbered line of chapter text. Generated artifacts hang
// off the line that produced them: an illustration image path once the
// illustration track has rendered a scene here, and translated text once
// the translation track has covered it.
type Line struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Translated string `json:"translated,omitempty"`
	ImagePath  string `json:"imagePath,omitempty"`
}

// Chapter is one chapter of the cached book.
type Chapter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Lines []Line `json:"lines"`
}

// Detail is the full cached representation of one imported book.
type Detail struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author,omitempty"`
	OriginalPath   string    `json:"originalPath"`
	FileType       FileType  `json:"fileType"`
	SubCachePath   string    `json:"subCachePath"`
	CoverImagePath string    `json:"coverImagePath,omitempty"`
	Chapters       []Chapter `json:"chapters"`
}

// Chapter returns the chapter with the given id, or nil.
func (d *Detail) Chapter(id string) *Chapter {
	for i := range d.Chapters {
		if d.Chapters[i].ID == id {
			return &d.Chapters[i]
		}
	}
	return nil
}

// LineCount returns the total number of lines across all chapters.
func (d *Detail) LineCount() int {
	n := 0
	for i := range d.Chapters {
		n += len(d.Chapters[i].Lines)
	}
	return n
}
