package config

import "github.com/inkwell-app/inkwell/internal/generate"

// DefaultConfig returns the built-in configuration defaults.
// Provider credentials have no defaults; they come from the config file
// or INKWELL_* environment variables.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Scheduler: SchedulerConfig{
			ConcurrencyLimit: 1,
		},
		Generation: GenerationConfig{
			LinesPerChunk:  generate.DefaultLinesPerChunk,
			ScenesPerChunk: generate.DefaultScenesPerChunk,
			TargetLanguage: "English",
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				ChatModel:  "gpt-4o",
				ImageModel: "dall-e-3",
				ImageSize:  "1024x1024",
				RateLimit:  60,
			},
			Video: VideoConfig{
				RateLimit:   10,
				PollSeconds: 5,
			},
		},
	}
}
