package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds the configured provider clients with thread-safe
// access. Config hot-reload swaps clients in place without restarting
// running tracks; the next chunk picks up the new client.
type Registry struct {
	mu     sync.RWMutex
	llm    map[string]LLMClient
	image  map[string]ImageClient
	video  map[string]VideoClient
	logger *slog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llm:    make(map[string]LLMClient),
		image:  make(map[string]ImageClient),
		video:  make(map[string]VideoClient),
		logger: slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llm[name] = client
	r.logger.Info("registered LLM client", "name", name)
}

// RegisterImage registers an image client by name.
func (r *Registry) RegisterImage(name string, client ImageClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.image[name] = client
	r.logger.Info("registered image client", "name", name)
}

// RegisterVideo registers a video client by name.
func (r *Registry) RegisterVideo(name string, client VideoClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.video[name] = client
	r.logger.Info("registered video client", "name", name)
}

// LLM returns an LLM client by name.
func (r *Registry) LLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llm[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// Image returns an image client by name.
func (r *Registry) Image(name string) (ImageClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.image[name]
	if !ok {
		return nil, fmt.Errorf("image client not found: %s", name)
	}
	return client, nil
}

// Video returns a video client by name.
func (r *Registry) Video(name string) (VideoClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.video[name]
	if !ok {
		return nil, fmt.Errorf("video client not found: %s", name)
	}
	return client, nil
}

// RegistryConfig drives Reload.
type RegistryConfig struct {
	OpenAI *OpenAIConfig
	Video  *HTTPVideoConfig
}

// Reload replaces all clients from config. Called at startup and on
// config file changes.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.llm = make(map[string]LLMClient)
	r.image = make(map[string]ImageClient)
	r.video = make(map[string]VideoClient)

	if cfg.OpenAI != nil && cfg.OpenAI.APIKey != "" {
		client := NewOpenAIClient(*cfg.OpenAI)
		r.llm[client.Name()] = client
		r.image[client.Name()] = client
		r.logger.Info("configured OpenAI provider", "chat_model", client.chatModel, "image_model", client.imageModel)
	}

	if cfg.Video != nil && cfg.Video.BaseURL != "" {
		client := NewHTTPVideoClient(*cfg.Video)
		r.video[client.Name()] = client
		r.logger.Info("configured video provider", "base_url", cfg.Video.BaseURL)
	}
}
