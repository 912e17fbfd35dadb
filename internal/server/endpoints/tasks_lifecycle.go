package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/svcctx"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// PauseEndpoint handles POST /api/tasks/{book_id}/pause.
type PauseEndpoint struct{}

func (e *PauseEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/tasks/{book_id}/pause", e.handler
}

func (e *PauseEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	handleTrackOp(w, r, "pause", func(s *tasks.Scheduler, bookID string, tt tasks.TrackType) {
		s.Pause(bookID, tt)
	})
}

func (e *PauseEndpoint) Command(getServerURL func() string) *cobra.Command {
	return trackOpCommand(getServerURL, "pause", "Pause a running track for a book")
}

// ResumeEndpoint handles POST /api/tasks/{book_id}/resume.
type ResumeEndpoint struct{}

func (e *ResumeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/tasks/{book_id}/resume", e.handler
}

func (e *ResumeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	handleTrackOp(w, r, "resume", func(s *tasks.Scheduler, bookID string, tt tasks.TrackType) {
		s.Resume(bookID, tt)
	})
}

func (e *ResumeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return trackOpCommand(getServerURL, "resume", "Resume a paused track for a book")
}

// ResumeAllEndpoint handles POST /api/tasks/resume-all.
type ResumeAllEndpoint struct{}

func (e *ResumeAllEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/tasks/resume-all", e.handler
}

func (e *ResumeAllEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	scheduler := svcctx.SchedulerFrom(r.Context())
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler not initialized")
		return
	}
	scheduler.ResumeAll()

	entries := scheduler.State().Entries()
	out := make([]EntrySummary, 0, len(entries))
	for _, entry := range entries {
		out = append(out, summarize(entry))
	}
	writeJSON(w, http.StatusOK, out)
}

func (e *ResumeAllEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "resume-all",
		Short: "Resume every paused track across all books",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []EntrySummary
			if err := client.Post(cmd.Context(), "/api/tasks/resume-all", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// handleTrackOp applies a per-track scheduler operation and responds
// with the entry summary. Unknown books are a no-op and return 404 so
// callers can tell the difference.
func handleTrackOp(w http.ResponseWriter, r *http.Request, name string, op func(*tasks.Scheduler, string, tasks.TrackType)) {
	bookID := r.PathValue("book_id")
	trackType, ok := tasks.ParseTrackType(r.URL.Query().Get("track"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown track %q", r.URL.Query().Get("track")))
		return
	}

	scheduler := svcctx.SchedulerFrom(r.Context())
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler not initialized")
		return
	}

	op(scheduler, bookID, trackType)

	entry, ok := scheduler.State().Entry(bookID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no task entry for book %s to %s", bookID, name))
		return
	}
	writeJSON(w, http.StatusOK, summarize(entry))
}

func trackOpCommand(getServerURL func() string, name, short string) *cobra.Command {
	var track string
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <book_id>", name),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp EntrySummary
			path := fmt.Sprintf("/api/tasks/%s/%s?track=%s", args[0], name, track)
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&track, "track", "illustration", "track to operate on (illustration, translation, videoGeneration)")
	return cmd
}
