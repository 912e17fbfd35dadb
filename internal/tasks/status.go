// Package tasks implements the task catalog for book generation work:
// one entry per book, three independent generation tracks per entry
// (illustration, translation, video), chunk-level progress, and the
// scheduler that runs at most one track at a time.
package tasks

// TrackType identifies one of the three generation workflows of an entry.
type TrackType string

const (
	TrackIllustration    TrackType = "illustration"
	TrackTranslation     TrackType = "translation"
	TrackVideoGeneration TrackType = "videoGeneration"
)

// trackPriority is the scan order used by the scheduler. A steady supply
// of queued illustration tracks starves the other two; this is deliberate.
var trackPriority = []TrackType{TrackIllustration, TrackTranslation, TrackVideoGeneration}

// TrackTypes returns all track types in scheduler priority order.
func TrackTypes() []TrackType {
	out := make([]TrackType, len(trackPriority))
	copy(out, trackPriority)
	return out
}

// ParseTrackType converts a string to a TrackType.
// Returns false if the string is not a known track type.
func ParseTrackType(s string) (TrackType, bool) {
	switch TrackType(s) {
	case TrackIllustration, TrackTranslation, TrackVideoGeneration:
		return TrackType(s), true
	}
	return "", false
}

// TrackStatus represents the state of one generation track.
type TrackStatus string

const (
	StatusNotStarted TrackStatus = "notStarted"
	StatusQueued     TrackStatus = "queued"
	StatusRunning    TrackStatus = "running"
	StatusPaused     TrackStatus = "paused"
	StatusCompleted  TrackStatus = "completed"
	StatusFailed     TrackStatus = "failed"
	StatusCanceled   TrackStatus = "canceled"
)

// Active reports whether the track holds or is waiting for the worker slot.
func (s TrackStatus) Active() bool {
	return s == StatusQueued || s == StatusRunning
}

// ChunkStatus represents the state of one work chunk inside a track.
type ChunkStatus string

const (
	ChunkPending   ChunkStatus = "pending"
	ChunkRunning   ChunkStatus = "running"
	ChunkCompleted ChunkStatus = "completed"
	ChunkFailed    ChunkStatus = "failed"
)
