package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/book"
	"github.com/inkwell-app/inkwell/internal/svcctx"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// BookSummary is the API view of one cached book.
type BookSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	FileType string `json:"file_type"`
	Chapters int    `json:"chapters"`
	Lines    int    `json:"lines"`
}

func summarizeBook(d *book.Detail) BookSummary {
	return BookSummary{
		ID:       d.ID,
		Title:    d.Title,
		Author:   d.Author,
		FileType: string(d.FileType),
		Chapters: len(d.Chapters),
		Lines:    d.LineCount(),
	}
}

// ImportBookEndpoint handles POST /api/books. It accepts a parsed book
// detail record, writes it into the cache, and registers a task entry
// for the book. Re-importing an already known book refreshes the cached
// detail without touching its task progress.
type ImportBookEndpoint struct{}

func (e *ImportBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books", e.handler
}

func (e *ImportBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	library := svcctx.LibraryFrom(r.Context())
	scheduler := svcctx.SchedulerFrom(r.Context())
	if library == nil || scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	var detail book.Detail
	if err := json.NewDecoder(r.Body).Decode(&detail); err != nil {
		writeError(w, http.StatusBadRequest, "invalid book detail: "+err.Error())
		return
	}
	if detail.ID == "" {
		writeError(w, http.StatusBadRequest, "book detail requires an id")
		return
	}

	if err := library.Save(r.Context(), &detail); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, ok := scheduler.State().Entry(detail.ID); !ok {
		scheduler.AddEntry(tasks.NewEntry(
			detail.ID, detail.Title, detail.OriginalPath,
			string(detail.FileType), detail.SubCachePath, detail.CoverImagePath,
		))
	}

	writeJSON(w, http.StatusCreated, summarizeBook(&detail))
}

func (e *ImportBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <detail.json>",
		Short: "Import a parsed book detail file into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var detail book.Detail
			if err := json.Unmarshal(data, &detail); err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var resp BookSummary
			if err := client.Post(cmd.Context(), "/api/books", detail, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ListBooksEndpoint handles GET /api/books.
type ListBooksEndpoint struct{}

func (e *ListBooksEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books", e.handler
}

func (e *ListBooksEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	library := svcctx.LibraryFrom(r.Context())
	if library == nil {
		writeError(w, http.StatusServiceUnavailable, "library not initialized")
		return
	}

	details, err := library.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]BookSummary, 0, len(details))
	for _, d := range details {
		out = append(out, summarizeBook(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (e *ListBooksEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List books in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []BookSummary
			if err := client.Get(cmd.Context(), "/api/books", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetBookEndpoint handles GET /api/books/{book_id}, returning the full
// cached detail including chapters and lines.
type GetBookEndpoint struct{}

func (e *GetBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books/{book_id}", e.handler
}

func (e *GetBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("book_id")
	library := svcctx.LibraryFrom(r.Context())
	if library == nil {
		writeError(w, http.StatusServiceUnavailable, "library not initialized")
		return
	}

	detail, err := library.Detail(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (e *GetBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <book_id>",
		Short: "Show the full cached detail for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp book.Detail
			if err := client.Get(cmd.Context(), "/api/books/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteBookEndpoint handles DELETE /api/books/{book_id}. The cached
// detail and the book's task entry are both removed; any active attempt
// is signaled and winds down on its own.
type DeleteBookEndpoint struct{}

func (e *DeleteBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/books/{book_id}", e.handler
}

func (e *DeleteBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("book_id")
	library := svcctx.LibraryFrom(r.Context())
	scheduler := svcctx.SchedulerFrom(r.Context())
	if library == nil || scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	if _, err := library.Detail(r.Context(), bookID); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	scheduler.RemoveEntry(bookID)
	if err := library.Remove(r.Context(), bookID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": bookID, "status": "deleted"})
}

func (e *DeleteBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <book_id>",
		Short: "Remove a book and its task entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp map[string]string
			if err := client.Delete(cmd.Context(), "/api/books/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
