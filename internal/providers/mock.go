package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient implements LLMClient, ImageClient, and VideoClient for
// tests. Responses are canned; failures and latency are scriptable.
type MockClient struct {
	mu sync.Mutex

	// Latency is added to every call.
	Latency time.Duration
	// FailEvery makes every Nth call fail (0 = never fail).
	FailEvery int
	// ChatResponse is returned from Chat (default "mock response").
	ChatResponse string

	calls int
}

// NewMockClient creates a mock client that always succeeds.
func NewMockClient() *MockClient {
	return &MockClient{ChatResponse: "mock response"}
}

// Name returns the provider identifier.
func (m *MockClient) Name() string {
	return "mock"
}

// Calls returns the total number of calls made.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockClient) step(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	n := m.calls
	failEvery := m.FailEvery
	latency := m.Latency
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(latency):
		}
	}
	if failEvery > 0 && n%failEvery == 0 {
		return fmt.Errorf("mock provider failure on call %d", n)
	}
	return nil
}

// Chat implements LLMClient.
func (m *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if err := m.step(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	content := m.ChatResponse
	m.mu.Unlock()
	return &ChatResult{Content: content, TotalTokens: 10}, nil
}

// GenerateImage implements ImageClient.
func (m *MockClient) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error) {
	if err := m.step(ctx); err != nil {
		return nil, err
	}
	return &ImageResult{ImageData: []byte("mock-image"), Format: "png"}, nil
}

// AnimateImage implements VideoClient.
func (m *MockClient) AnimateImage(ctx context.Context, req *VideoRequest) (*VideoResult, error) {
	if err := m.step(ctx); err != nil {
		return nil, err
	}
	return &VideoResult{VideoData: []byte("mock-video"), Format: "mp4"}, nil
}
