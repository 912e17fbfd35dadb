package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a book has no cached detail record.
var ErrNotFound = errors.New("book not found in cache")

const detailFileName = "detail.json"

// Library reads and writes cached book details under a root directory,
// one subdirectory per book id.
type Library struct {
	root   string
	logger *slog.Logger
}

// NewLibrary creates a library rooted at the given cache directory.
func NewLibrary(root string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{root: root, logger: logger}
}

// Dir returns the cache directory for one book.
func (l *Library) Dir(bookID string) string {
	return filepath.Join(l.root, bookID)
}

// Detail loads the cached detail record for a book.
func (l *Library) Detail(ctx context.Context, bookID string) (*Detail, error) {
	path := filepath.Join(l.Dir(bookID), detailFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, bookID)
		}
		return nil, fmt.Errorf("failed to read book detail: %w", err)
	}

	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse book detail: %w", err)
	}
	return &d, nil
}

// Save writes a book's detail record into the cache, creating its
// directory as needed.
func (l *Library) Save(ctx context.Context, d *Detail) error {
	if d.ID == "" {
		return fmt.Errorf("book detail requires an id")
	}
	dir := l.Dir(d.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create book cache dir: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal book detail: %w", err)
	}

	path := filepath.Join(dir, detailFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write book detail: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace book detail: %w", err)
	}

	l.logger.Debug("book detail saved", "book_id", d.ID, "chapters", len(d.Chapters))
	return nil
}

// List loads every cached book detail. Subdirectories without a
// readable detail record are skipped.
func (l *Library) List(ctx context.Context) ([]*Detail, error) {
	dirs, err := os.ReadDir(l.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read book cache dir: %w", err)
	}

	details := make([]*Detail, 0, len(dirs))
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		d, err := l.Detail(ctx, dir.Name())
		if err != nil {
			l.logger.Warn("skipping unreadable book detail", "book_id", dir.Name(), "error", err)
			continue
		}
		details = append(details, d)
	}
	return details, nil
}

// Remove deletes a book's cache directory. Missing books are a no-op.
func (l *Library) Remove(ctx context.Context, bookID string) error {
	if bookID == "" {
		return nil
	}
	if err := os.RemoveAll(l.Dir(bookID)); err != nil {
		return fmt.Errorf("failed to remove book cache: %w", err)
	}
	return nil
}
