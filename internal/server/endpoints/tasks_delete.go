package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/svcctx"
)

// DeleteEndpoint handles DELETE /api/tasks/{book_id}. The entry stays
// in the store with all three tracks reset to notStarted; any active
// attempt is signaled and winds down on its own.
type DeleteEndpoint struct{}

func (e *DeleteEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/tasks/{book_id}", e.handler
}

func (e *DeleteEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("book_id")
	scheduler := svcctx.SchedulerFrom(r.Context())
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler not initialized")
		return
	}

	scheduler.Delete(bookID)

	entry, ok := scheduler.State().Entry(bookID)
	if !ok {
		writeError(w, http.StatusNotFound, "no task entry for book "+bookID)
		return
	}
	writeJSON(w, http.StatusOK, summarize(entry))
}

func (e *DeleteEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <book_id>",
		Short: "Reset all task tracks for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp EntrySummary
			if err := client.Delete(cmd.Context(), "/api/tasks/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ClearCompletedEndpoint handles POST /api/tasks/clear-completed.
type ClearCompletedEndpoint struct{}

func (e *ClearCompletedEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/tasks/clear-completed", e.handler
}

func (e *ClearCompletedEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	scheduler := svcctx.SchedulerFrom(r.Context())
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler not initialized")
		return
	}

	scheduler.ClearCompleted()

	entries := scheduler.State().Entries()
	out := make([]EntrySummary, 0, len(entries))
	for _, entry := range entries {
		out = append(out, summarize(entry))
	}
	writeJSON(w, http.StatusOK, out)
}

func (e *ClearCompletedEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Reset completed tracks across all books",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []EntrySummary
			if err := client.Post(cmd.Context(), "/api/tasks/clear-completed", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
