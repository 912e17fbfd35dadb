package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/generate"
	"github.com/inkwell-app/inkwell/internal/svcctx"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// EnqueueEndpoint handles POST /api/tasks/{book_id}/enqueue. It plans
// chunks for the requested track from the book's detail and moves the
// track to queued. Tracks that are not notStarted are left alone.
type EnqueueEndpoint struct{}

func (e *EnqueueEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/tasks/{book_id}/enqueue", e.handler
}

func (e *EnqueueEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("book_id")
	trackType, ok := tasks.ParseTrackType(r.URL.Query().Get("track"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown track %q", r.URL.Query().Get("track")))
		return
	}

	scheduler := svcctx.SchedulerFrom(r.Context())
	library := svcctx.LibraryFrom(r.Context())
	cfgMgr := svcctx.ConfigFrom(r.Context())
	if scheduler == nil || library == nil || cfgMgr == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	detail, err := library.Detail(r.Context(), bookID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("load book %s: %v", bookID, err))
		return
	}

	cfg := cfgMgr.Get()
	var chunks []tasks.Chunk
	switch trackType {
	case tasks.TrackIllustration:
		chunks = generate.PlanIllustration(detail, cfg.Generation.LinesPerChunk, cfg.Generation.ScenesPerChunk)
	case tasks.TrackTranslation:
		chunks = generate.PlanTranslation(detail, cfg.Generation.LinesPerChunk)
	case tasks.TrackVideoGeneration:
		chunks = generate.PlanVideo(detail)
	}
	if len(chunks) == 0 {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("book %s has no content to plan for %s", bookID, trackType))
		return
	}

	state := scheduler.State()
	if _, ok := state.Entry(bookID); !ok {
		scheduler.AddEntry(tasks.NewEntry(detail.ID, detail.Title, detail.OriginalPath,
			string(detail.FileType), detail.SubCachePath, detail.CoverImagePath))
	}
	scheduler.Enqueue(bookID, trackType, chunks)

	entry, ok := state.Entry(bookID)
	if !ok {
		writeError(w, http.StatusInternalServerError, "entry missing after enqueue")
		return
	}
	writeJSON(w, http.StatusAccepted, summarize(entry))
}

func (e *EnqueueEndpoint) Command(getServerURL func() string) *cobra.Command {
	var track string
	cmd := &cobra.Command{
		Use:   "enqueue <book_id>",
		Short: "Queue a generation track for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp EntrySummary
			path := fmt.Sprintf("/api/tasks/%s/enqueue?track=%s", args[0], track)
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&track, "track", "illustration", "track to enqueue (illustration, translation, videoGeneration)")
	return cmd
}
