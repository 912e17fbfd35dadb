package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/svcctx"
)

// ListTasksEndpoint handles GET /api/tasks.
type ListTasksEndpoint struct{}

func (e *ListTasksEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/tasks", e.handler
}

func (e *ListTasksEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	state := svcctx.StateFrom(r.Context())
	if state == nil {
		writeError(w, http.StatusServiceUnavailable, "state store not initialized")
		return
	}

	entries := state.Entries()
	out := make([]EntrySummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, summarize(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (e *ListTasksEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List task entries for all books",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []EntrySummary
			if err := client.Get(cmd.Context(), "/api/tasks", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetTaskEndpoint handles GET /api/tasks/{book_id}. It returns the full
// entry in its persisted shape, chunk lists included.
type GetTaskEndpoint struct{}

func (e *GetTaskEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/tasks/{book_id}", e.handler
}

func (e *GetTaskEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("book_id")
	state := svcctx.StateFrom(r.Context())
	if state == nil {
		writeError(w, http.StatusServiceUnavailable, "state store not initialized")
		return
	}

	entry, ok := state.Entry(bookID)
	if !ok {
		writeError(w, http.StatusNotFound, "no task entry for book "+bookID)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (e *GetTaskEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <book_id>",
		Short: "Get the full task entry for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.Get(cmd.Context(), "/api/tasks/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
