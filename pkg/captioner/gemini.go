package captioner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/teslashibe/go-scribecam/internal/httpc"
)

const providerGemini = "gemini"

// DefaultGeminiModel is the Gemini model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini captions frames through Google's Gemini API.
// Gemini uses a different wire format than OpenAI, so it is implemented
// directly rather than through Client.
type Gemini struct {
	apiKey string
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewGemini creates a Gemini captioning provider. An API key is required.
func NewGemini(opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	cfg.Model = DefaultGeminiModel
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, WrapError(providerGemini, ErrNoAPIKey)
	}

	return &Gemini{
		apiKey: cfg.APIKey,
		config: cfg,
		http:   httpc.New(cfg.Timeout),
		logger: cfg.Logger.With("component", "captioner.gemini"),
	}, nil
}

// Caption describes one frame.
func (g *Gemini) Caption(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = g.config.Model
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = g.config.Prompt
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	b64, err := encodeRequestFrame(req)
	if err != nil {
		return nil, WrapError(providerGemini, fmt.Errorf("encode frame: %w", err))
	}

	parts := []map[string]interface{}{
		{"text": prompt},
		{
			"inline_data": map[string]string{
				"mime_type": "image/jpeg",
				"data":      b64,
			},
		},
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     g.config.Temperature,
			"maxOutputTokens": maxTokens,
		},
	}

	result, status, err := g.generate(ctx, model, payload)
	if err != nil {
		return nil, err
	}

	if result.Error.Message != "" {
		return nil, &APIError{
			StatusCode: status,
			Message:    result.Error.Message,
			Provider:   providerGemini,
		}
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, WrapError(providerGemini, ErrNoCaption)
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, WrapError(providerGemini, ErrNoCaption)
	}

	return &Result{
		Text:      text,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// ModelInfo reports the configured backend.
func (g *Gemini) ModelInfo() ModelInfo {
	return ModelInfo{
		Provider: providerGemini,
		Model:    g.config.Model,
	}
}

// Health issues a minimal text-only generation to verify the key and model.
func (g *Gemini) Health(ctx context.Context) error {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]interface{}{{"text": "ok"}}},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": 1,
		},
	}

	result, status, err := g.generate(ctx, g.config.Model, payload)
	if err != nil {
		return err
	}
	if result.Error.Message != "" {
		return &APIError{
			StatusCode: status,
			Message:    result.Error.Message,
			Provider:   providerGemini,
		}
	}
	return nil
}

// Close releases resources.
func (g *Gemini) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

// generate posts a generateContent payload for the given model and decodes
// the response.
func (g *Gemini) generate(ctx context.Context, model string, payload map[string]interface{}) (*geminiResponse, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, WrapError(providerGemini, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.config.BaseURL, model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, WrapError(providerGemini, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, 0, WrapError(providerGemini, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, g.parseError(resp)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, resp.StatusCode, WrapError(providerGemini, fmt.Errorf("decode response: %w", err))
	}
	return &result, resp.StatusCode, nil
}

// parseError reads and parses an error response.
func (g *Gemini) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerGemini,
	}
}

// geminiResponse is the Gemini API response format.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Verify Gemini implements Provider at compile time.
var _ Provider = (*Gemini)(nil)
