// Package endpoints contains the HTTP handlers for the Inkwell API.
// Each endpoint pairs a route with a cobra command via api.Endpoint.
package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// All returns every endpoint to register with the server.
func All() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ListTasksEndpoint{},
		&GetTaskEndpoint{},
		&EnqueueEndpoint{},
		&PauseEndpoint{},
		&ResumeEndpoint{},
		&ResumeAllEndpoint{},
		&CancelEndpoint{},
		&RetryEndpoint{},
		&DeleteEndpoint{},
		&ClearCompletedEndpoint{},
		&ImportBookEndpoint{},
		&ListBooksEndpoint{},
		&GetBookEndpoint{},
		&DeleteBookEndpoint{},
	}
}

// ErrorResponse is the error body shape for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TrackSummary is the API view of one generation track.
type TrackSummary struct {
	Status       tasks.TrackStatus `json:"status"`
	Progress     float64           `json:"progress"`
	ChunkCount   int               `json:"chunk_count"`
	Completed    int               `json:"completed"`
	ErrorMessage string            `json:"error_message,omitempty"`
	UpdatedAt    *time.Time        `json:"updated_at,omitempty"`
}

// EntrySummary is the API view of one book's task entry.
type EntrySummary struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	FileType        string       `json:"file_type,omitempty"`
	Illustration    TrackSummary `json:"illustration"`
	Translation     TrackSummary `json:"translation"`
	VideoGeneration TrackSummary `json:"video_generation"`
}

func summarizeTrack(tr *tasks.Track) TrackSummary {
	done := 0
	for _, c := range tr.Chunks {
		if c.Status == tasks.ChunkCompleted {
			done++
		}
	}
	s := TrackSummary{
		Status:       tr.Status,
		Progress:     tr.Progress(),
		ChunkCount:   len(tr.Chunks),
		Completed:    done,
		ErrorMessage: tr.ErrorMessage,
	}
	if !tr.UpdatedAt.IsZero() {
		t := tr.UpdatedAt
		s.UpdatedAt = &t
	}
	return s
}

func summarize(e tasks.Entry) EntrySummary {
	return EntrySummary{
		ID:              e.ID,
		Title:           e.Title,
		FileType:        e.FileType,
		Illustration:    summarizeTrack(&e.Illustration),
		Translation:     summarizeTrack(&e.Translation),
		VideoGeneration: summarizeTrack(&e.VideoGeneration),
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
