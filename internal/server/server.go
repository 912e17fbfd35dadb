package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/book"
	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/generate"
	"github.com/inkwell-app/inkwell/internal/home"
	"github.com/inkwell-app/inkwell/internal/providers"
	"github.com/inkwell-app/inkwell/internal/server/endpoints"
	"github.com/inkwell-app/inkwell/internal/svcctx"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// Server is the main Inkwell HTTP server. It owns the task scheduler
// and the provider registry, recovers persisted tasks on start, and
// shuts the HTTP listener down gracefully.
type Server struct {
	httpServer *http.Server
	scheduler  *tasks.Scheduler
	library    *book.Library
	registry   *providers.Registry
	configMgr  *config.Manager
	homeDir    *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the app home directory holding books/ and tasks.json
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		return nil, errors.New("server requires a home directory")
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("server requires a config manager")
	}
	if err := cfg.Home.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}

	appCfg := cfg.ConfigManager.Get()

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	registry.Reload(appCfg.ToRegistryConfig())

	// Watch for config changes
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		registry.Reload(c.ToRegistryConfig())
		cfg.Logger.Info("provider registry reloaded from config")
	})

	library := book.NewLibrary(cfg.Home.BooksPath(), cfg.Logger)

	// Generators resolve provider clients lazily so config reloads take
	// effect between chunks.
	targetLang := appCfg.Generation.TargetLanguage
	generators := map[tasks.TrackType]tasks.Generator{
		tasks.TrackIllustration: generate.NewIllustrator(
			registry.LazyImage(providers.OpenAIName), library, cfg.Logger),
		tasks.TrackTranslation: generate.NewTranslator(
			registry.LazyLLM(providers.OpenAIName), library, targetLang, cfg.Logger),
		tasks.TrackVideoGeneration: generate.NewAnimator(
			registry.LazyVideo(providers.HTTPVideoName), library, cfg.Logger),
	}

	scheduler, err := tasks.NewScheduler(tasks.SchedulerConfig{
		Store:            tasks.NewJSONStore(cfg.Home.TasksPath()),
		State:            tasks.NewStateStore(),
		Books:            library,
		Generators:       generators,
		ConcurrencyLimit: appCfg.Scheduler.ConcurrencyLimit,
		Logger:           cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Server{
		scheduler: scheduler,
		library:   library,
		registry:  registry,
		configMgr: cfg.ConfigManager,
		homeDir:   cfg.Home,
		logger:    cfg.Logger,
	}

	s.services = &svcctx.Services{
		Scheduler: scheduler,
		State:     scheduler.State(),
		Library:   library,
		Registry:  registry,
		ConfigMgr: cfg.ConfigManager,
		Home:      cfg.Home,
		Logger:    cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It recovers persisted task state, begins
// watching the config file, and blocks until the context is cancelled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Recover persisted tasks; interrupted tracks come back paused and
	// wait for an explicit resume.
	if err := s.scheduler.Recover(); err != nil {
		s.logger.Error("task recovery incomplete", "error", err)
	}

	s.configMgr.WatchConfig()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server. In-flight
// track attempts see the paused/canceled state on their next chunk
// boundary; their last persisted progress survives restart.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Scheduler returns the task scheduler.
func (s *Server) Scheduler() *tasks.Scheduler {
	return s.scheduler
}

// Library returns the book library.
func (s *Server) Library() *book.Library {
	return s.library
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
