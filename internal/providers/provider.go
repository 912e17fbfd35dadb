// Package providers wraps the external generation services: LLM chat for
// translation and scene prompting, image generation for illustrations,
// and image-to-video for animation. Each client is config-driven and
// registered by name so the generate layer never hard-codes a vendor.
package providers

import (
	"context"
	"time"
)

// LLMClient is the interface for chat/completion requests.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// ImageClient generates still images from text prompts.
type ImageClient interface {
	// GenerateImage renders one image for a prompt.
	GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error)

	Name() string
}

// VideoClient animates a source image into a short clip.
type VideoClient interface {
	// AnimateImage submits a source image and blocks until the clip is
	// ready or the context is done.
	AnimateImage(ctx context.Context, req *VideoRequest) (*VideoResult, error)

	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages    []Message
	Model       string // uses client default if empty
	Temperature float64
	MaxTokens   int
	RequestID   string
}

// ChatResult is the response from an LLM call.
type ChatResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	ExecutionTime    time.Duration
}

// ImageRequest describes one illustration to render.
type ImageRequest struct {
	Prompt    string
	Model     string // uses client default if empty
	Size      string // e.g. "1024x1024"
	RequestID string
}

// ImageResult carries the rendered image.
type ImageResult struct {
	// ImageData is the raw decoded image bytes.
	ImageData []byte
	// Format is the image format reported by the provider (e.g. "png").
	Format        string
	ExecutionTime time.Duration
}

// VideoRequest describes one image-to-video job.
type VideoRequest struct {
	// SourceImagePath points at the illustration to animate.
	SourceImagePath string
	// Prompt optionally steers the motion.
	Prompt    string
	DurationS int
	RequestID string
}

// VideoResult carries the finished clip.
type VideoResult struct {
	VideoData     []byte
	Format        string
	ExecutionTime time.Duration
}
