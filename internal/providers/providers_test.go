package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiter_ConsumesTokens(t *testing.T) {
	limiter := NewRateLimiter(60)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	status := limiter.Status()
	if status.TotalConsumed != 5 {
		t.Errorf("TotalConsumed = %d, want 5", status.TotalConsumed)
	}
	if status.TokensLimit != 60 {
		t.Errorf("TokensLimit = %d, want 60", status.TokensLimit)
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	// One request per minute; the second Wait has to block.
	limiter := NewRateLimiter(1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(cancelCtx); err == nil {
		t.Error("second Wait() = nil error, want context deadline")
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	mock := NewMockClient()

	r.RegisterLLM("mock", mock)
	r.RegisterImage("mock", mock)
	r.RegisterVideo("mock", mock)

	if _, err := r.LLM("mock"); err != nil {
		t.Errorf("LLM(mock) error = %v", err)
	}
	if _, err := r.Image("mock"); err != nil {
		t.Errorf("Image(mock) error = %v", err)
	}
	if _, err := r.Video("mock"); err != nil {
		t.Errorf("Video(mock) error = %v", err)
	}
	if _, err := r.LLM("absent"); err == nil {
		t.Error("LLM(absent) = nil error")
	}
}

func TestRegistry_ReloadReplacesClients(t *testing.T) {
	r := NewRegistry()
	r.RegisterLLM("stale", NewMockClient())

	r.Reload(RegistryConfig{
		OpenAI: &OpenAIConfig{APIKey: "sk-test"},
	})

	if _, err := r.LLM("stale"); err == nil {
		t.Error("stale client survived Reload")
	}
	if _, err := r.LLM(OpenAIName); err != nil {
		t.Errorf("LLM(%s) error = %v after Reload", OpenAIName, err)
	}
	if _, err := r.Image(OpenAIName); err != nil {
		t.Errorf("Image(%s) error = %v after Reload", OpenAIName, err)
	}
	// No video config, no video client.
	if _, err := r.Video(HTTPVideoName); err == nil {
		t.Error("video client registered without config")
	}
}

func TestRegistry_LazyClientsFollowReload(t *testing.T) {
	r := NewRegistry()
	lazy := r.LazyLLM("mock")

	if _, err := lazy.Chat(context.Background(), &ChatRequest{}); err == nil {
		t.Error("lazy client resolved before registration")
	}

	mock := NewMockClient()
	r.RegisterLLM("mock", mock)
	if _, err := lazy.Chat(context.Background(), &ChatRequest{}); err != nil {
		t.Errorf("Chat() error = %v after registration", err)
	}
	if mock.Calls() != 1 {
		t.Errorf("calls = %d, want 1", mock.Calls())
	}
}

func TestHTTPVideoClient_SubmitAndPoll(t *testing.T) {
	var polls atomic.Int32
	clip := []byte("clip-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/jobs":
			if got := r.Header.Get("Authorization"); got != "Bearer vk-test" {
				t.Errorf("Authorization = %q", got)
			}
			var req videoSubmitRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode submit: %v", err)
			}
			if req.ImageB64 == "" {
				t.Error("submit carries no image payload")
			}
			json.NewEncoder(w).Encode(videoJobResponse{JobID: "job-1", Status: "pending"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/jobs/"):
			if polls.Add(1) < 2 {
				json.NewEncoder(w).Encode(videoJobResponse{JobID: "job-1", Status: "processing"})
				return
			}
			json.NewEncoder(w).Encode(videoJobResponse{
				JobID:    "job-1",
				Status:   "done",
				VideoB64: base64.StdEncoding.EncodeToString(clip),
				Format:   "webm",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	image := filepath.Join(t.TempDir(), "scene.png")
	if err := os.WriteFile(image, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewHTTPVideoClient(HTTPVideoConfig{
		BaseURL:      srv.URL,
		APIKey:       "vk-test",
		PollInterval: 10 * time.Millisecond,
		RateLimit:    6000,
	})

	result, err := client.AnimateImage(context.Background(), &VideoRequest{SourceImagePath: image})
	if err != nil {
		t.Fatalf("AnimateImage() error = %v", err)
	}
	if string(result.VideoData) != "clip-bytes" {
		t.Errorf("VideoData = %q", result.VideoData)
	}
	if result.Format != "webm" {
		t.Errorf("Format = %q, want webm", result.Format)
	}
}

func TestHTTPVideoClient_JobErrorIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(videoJobResponse{JobID: "job-1", Status: "pending"})
			return
		}
		json.NewEncoder(w).Encode(videoJobResponse{JobID: "job-1", Status: "error", Error: "nsfw rejected"})
	}))
	defer srv.Close()

	image := filepath.Join(t.TempDir(), "scene.png")
	if err := os.WriteFile(image, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewHTTPVideoClient(HTTPVideoConfig{
		BaseURL:      srv.URL,
		PollInterval: 10 * time.Millisecond,
		RateLimit:    6000,
	})

	_, err := client.AnimateImage(context.Background(), &VideoRequest{SourceImagePath: image})
	if err == nil || !strings.Contains(err.Error(), "nsfw rejected") {
		t.Errorf("AnimateImage() error = %v, want job failure", err)
	}
}

func TestHTTPVideoClient_MissingSourceImage(t *testing.T) {
	client := NewHTTPVideoClient(HTTPVideoConfig{BaseURL: "http://unused", RateLimit: 6000})

	_, err := client.AnimateImage(context.Background(), &VideoRequest{
		SourceImagePath: filepath.Join(t.TempDir(), "missing.png"),
	})
	if err == nil {
		t.Error("AnimateImage() = nil error for missing source image")
	}
}
