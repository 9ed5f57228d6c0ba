package engine

import (
	"fmt"

	"github.com/teslashibe/go-scribecam/pkg/captioner"
)

// buildProvider constructs the captioning backend from the config. A
// comma-separated provider list becomes a fallback chain tried in
// order, so a flaky primary endpoint degrades instead of blanking the
// wall.
func buildProvider(cfg Config) (captioner.Provider, error) {
	names := cfg.Providers()
	if len(names) == 0 {
		return nil, &ConfigError{Field: "Provider", Message: "at least one captioning provider is required"}
	}

	providers := make([]captioner.Provider, 0, len(names))
	for _, name := range names {
		p, err := buildOne(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("engine: provider %s: %w", name, err)
		}
		providers = append(providers, p)
	}

	if len(providers) == 1 {
		return providers[0], nil
	}
	return captioner.NewChain(providers...)
}

func buildOne(name string, cfg Config) (captioner.Provider, error) {
	opts := []captioner.Option{}
	if cfg.Model != "" {
		opts = append(opts, captioner.WithModel(cfg.Model))
	}
	if cfg.Prompt != "" {
		opts = append(opts, captioner.WithPrompt(cfg.Prompt))
	}

	switch name {
	case "openai":
		opts = append(opts, captioner.WithAPIKey(cfg.OpenAIKey))
		if cfg.BaseURL != "" {
			opts = append(opts, captioner.WithBaseURL(cfg.BaseURL))
		}
		return captioner.NewClient(opts...)
	case "gemini":
		opts = append(opts, captioner.WithAPIKey(cfg.GeminiKey))
		return captioner.NewGemini(opts...)
	case "mock":
		return captioner.NewMock(), nil
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}
