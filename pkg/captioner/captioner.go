// Package captioner provides image captioning behind a single Provider
// interface.
//
// The package abstracts one operation, describing a camera frame in natural
// language, over providers with different wire formats: any server speaking
// the OpenAI-compatible chat completions API (OpenAI, Ollama, vLLM, Together,
// and friends), Google's Gemini API, and a scripted mock for tests and
// rehearsal runs without a network.
//
// Example usage:
//
//	client, _ := captioner.NewClient(
//	    captioner.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    captioner.WithModel("gpt-4o-mini"),
//	)
//	defer client.Close()
//
//	result, _ := client.Caption(ctx, &captioner.Request{Image: frame})
//	fmt.Println(result.Text)
package captioner

import (
	"context"
	"image"
)

// DefaultPrompt asks for installation-style captions: one plain sentence,
// nothing else.
const DefaultPrompt = "Describe this image in one short sentence. " +
	"Respond with only the sentence, no preamble."

// Provider is the captioning interface all backends implement.
type Provider interface {
	// Caption describes a single frame. It may block for model inference
	// time; callers should pass a context with a deadline.
	Caption(ctx context.Context, req *Request) (*Result, error)

	// ModelInfo reports which backend and model this provider uses.
	ModelInfo() ModelInfo

	// Health checks connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Request is one frame to caption.
type Request struct {
	// Image is the frame to describe.
	Image image.Image

	// JPEG is a pre-encoded frame; used instead of Image when set, which
	// saves a re-encode when the source already produces JPEG.
	JPEG []byte

	// Prompt overrides the configured captioning prompt.
	Prompt string

	// Model overrides the configured model.
	Model string

	// MaxTokens limits the caption length.
	MaxTokens int
}

// Result is a generated caption.
type Result struct {
	// Text is the caption, whitespace-trimmed.
	Text string

	// Model that produced the caption.
	Model string

	// LatencyMs is the generation time in milliseconds.
	LatencyMs int64
}

// ModelInfo identifies a provider for status output and the archive.
type ModelInfo struct {
	Provider string // "openai", "gemini", "mock"
	Model    string
	BaseURL  string // empty for fixed-endpoint providers
}
