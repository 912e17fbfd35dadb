package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/svcctx"
)

// CancelEndpoint handles POST /api/tasks/{book_id}/cancel. Cancellation
// covers the whole entry: the active attempt is signaled and queued
// tracks drop straight to canceled.
type CancelEndpoint struct{}

func (e *CancelEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/tasks/{book_id}/cancel", e.handler
}

func (e *CancelEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	handleEntryOp(w, r, "cancel", func(ctx *svcctx.Services, bookID string) {
		ctx.Scheduler.Cancel(bookID)
	})
}

func (e *CancelEndpoint) Command(getServerURL func() string) *cobra.Command {
	return entryOpCommand(getServerURL, "cancel", "Cancel all active tracks for a book")
}

// RetryEndpoint handles POST /api/tasks/{book_id}/retry. Failed and
// canceled tracks re-enter the queue with their chunk lists intact, so
// only unfinished chunks run again.
type RetryEndpoint struct{}

func (e *RetryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/tasks/{book_id}/retry", e.handler
}

func (e *RetryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	handleEntryOp(w, r, "retry", func(ctx *svcctx.Services, bookID string) {
		ctx.Scheduler.Retry(bookID)
	})
}

func (e *RetryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return entryOpCommand(getServerURL, "retry", "Retry failed or canceled tracks for a book")
}

func handleEntryOp(w http.ResponseWriter, r *http.Request, name string, op func(*svcctx.Services, string)) {
	bookID := r.PathValue("book_id")
	services := svcctx.ServicesFrom(r.Context())
	if services == nil || services.Scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler not initialized")
		return
	}

	op(services, bookID)

	entry, ok := services.Scheduler.State().Entry(bookID)
	if !ok {
		writeError(w, http.StatusNotFound, "no task entry for book "+bookID+" to "+name)
		return
	}
	writeJSON(w, http.StatusOK, summarize(entry))
}

func entryOpCommand(getServerURL func() string, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <book_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp EntrySummary
			if err := client.Post(cmd.Context(), "/api/tasks/"+args[0]+"/"+name, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
