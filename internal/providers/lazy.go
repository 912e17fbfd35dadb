package providers

import "context"

// Lazy clients resolve from the registry on every call, so a config
// reload that swaps the underlying client takes effect on the next
// chunk without rebuilding the generators.

// LazyLLM returns an LLMClient that looks up name at call time.
func (r *Registry) LazyLLM(name string) LLMClient {
	return &lazyLLM{reg: r, name: name}
}

// LazyImage returns an ImageClient that looks up name at call time.
func (r *Registry) LazyImage(name string) ImageClient {
	return &lazyImage{reg: r, name: name}
}

// LazyVideo returns a VideoClient that looks up name at call time.
func (r *Registry) LazyVideo(name string) VideoClient {
	return &lazyVideo{reg: r, name: name}
}

type lazyLLM struct {
	reg  *Registry
	name string
}

func (l *lazyLLM) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	client, err := l.reg.LLM(l.name)
	if err != nil {
		return nil, err
	}
	return client.Chat(ctx, req)
}

func (l *lazyLLM) Name() string { return l.name }

type lazyImage struct {
	reg  *Registry
	name string
}

func (l *lazyImage) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error) {
	client, err := l.reg.Image(l.name)
	if err != nil {
		return nil, err
	}
	return client.GenerateImage(ctx, req)
}

func (l *lazyImage) Name() string { return l.name }

type lazyVideo struct {
	reg  *Registry
	name string
}

func (l *lazyVideo) AnimateImage(ctx context.Context, req *VideoRequest) (*VideoResult, error) {
	client, err := l.reg.Video(l.name)
	if err != nil {
		return nil, err
	}
	return client.AnimateImage(ctx, req)
}

func (l *lazyVideo) Name() string { return l.name }
