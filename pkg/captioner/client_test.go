package captioner

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// testFrame returns a small solid-color frame.
func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

// captionResponse builds a minimal chat completions response body.
func captionResponse(model, content string) map[string]interface{} {
	return map[string]interface{}{
		"id":    "test-id",
		"model": model,
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     100,
			"completion_tokens": 12,
			"total_tokens":      112,
		},
	}
}

func TestClientCaption(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q, want %q", auth, "Bearer test-key")
		}

		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)

		if payload["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v, want gpt-4o-mini", payload["model"])
		}

		messages := payload["messages"].([]interface{})
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		if len(content) != 2 {
			t.Fatalf("got %d content parts, want 2", len(content))
		}

		textPart := content[0].(map[string]interface{})
		if textPart["type"] != "text" || textPart["text"] == "" {
			t.Errorf("first part should carry the prompt, got %v", textPart)
		}

		imgPart := content[1].(map[string]interface{})
		url := imgPart["image_url"].(map[string]interface{})["url"].(string)
		if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
			t.Errorf("image url missing data URI prefix: %.40s", url)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(captionResponse("gpt-4o-mini", "  a person near a window  "))
	}))
	defer server.Close()

	client, err := NewClient(
		WithBaseURL(server.URL),
		WithAPIKey("test-key"),
		WithModel("gpt-4o-mini"),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	result, err := client.Caption(context.Background(), &Request{Image: testFrame()})
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}

	if result.Text != "a person near a window" {
		t.Errorf("Text = %q, want trimmed caption", result.Text)
	}
	if result.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", result.Model)
	}
}

func TestClientCaptionPreEncodedJPEG(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)

		messages := payload["messages"].([]interface{})
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		imgPart := content[1].(map[string]interface{})
		url := imgPart["image_url"].(map[string]interface{})["url"].(string)
		if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
			t.Errorf("image url missing data URI prefix: %.40s", url)
		}

		json.NewEncoder(w).Encode(captionResponse("gpt-4o-mini", "a caption"))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	defer client.Close()

	// No Image set; the pre-encoded bytes must be used as-is.
	_, err := client.Caption(context.Background(), &Request{JPEG: []byte{0xff, 0xd8, 0xff}})
	if err != nil {
		t.Fatalf("Caption with pre-encoded JPEG: %v", err)
	}
}

func TestClientCaptionNoFrame(t *testing.T) {
	client, _ := NewClient(WithBaseURL("http://localhost:1"))
	defer client.Close()

	_, err := client.Caption(context.Background(), &Request{})
	if !errors.Is(err, ErrNoFrame) {
		t.Errorf("got %v, want ErrNoFrame", err)
	}
}

func TestClientCaptionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Invalid API key",
				"code":    "invalid_api_key",
			},
		})
	}))
	defer server.Close()

	client, _ := NewClient(
		WithBaseURL(server.URL),
		WithAPIKey("bad-key"),
	)
	defer client.Close()

	_, err := client.Caption(context.Background(), &Request{Image: testFrame()})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T, want *APIError", err)
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if !apiErr.IsUnauthorized() {
		t.Error("expected IsUnauthorized")
	}
	if apiErr.IsRetryable() {
		t.Error("401 should not be retryable")
	}
	if apiErr.Code != "invalid_api_key" {
		t.Errorf("Code = %q, want invalid_api_key", apiErr.Code)
	}
}

func TestClientCaptionRetriesServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(captionResponse("gpt-4o-mini", "a caption after retries"))
	}))
	defer server.Close()

	client, _ := NewClient(
		WithBaseURL(server.URL),
		WithRetry(3, time.Millisecond),
	)
	defer client.Close()

	result, err := client.Caption(context.Background(), &Request{Image: testFrame()})
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
	if result.Text != "a caption after retries" {
		t.Errorf("Text = %q", result.Text)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClientCaptionEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "test-id",
			"model":   "gpt-4o-mini",
			"choices": []interface{}{},
		})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	defer client.Close()

	_, err := client.Caption(context.Background(), &Request{Image: testFrame()})
	if !errors.Is(err, ErrNoCaption) {
		t.Errorf("got %v, want ErrNoCaption", err)
	}
}

func TestClientModelOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["model"] != "llava:13b" {
			t.Errorf("model = %v, want llava:13b", payload["model"])
		}
		json.NewEncoder(w).Encode(captionResponse("llava:13b", "a caption"))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	defer client.Close()

	_, err := client.Caption(context.Background(), &Request{
		Image: testFrame(),
		Model: "llava:13b",
	})
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
}

func TestClientHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("path = %s, want /models", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	defer client.Close()

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestClientNoAPIKey(t *testing.T) {
	// Local providers like Ollama accept unauthenticated requests.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("unexpected auth header %q", auth)
		}
		json.NewEncoder(w).Encode(captionResponse("llava", "a caption"))
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("should allow creation without API key: %v", err)
	}
	defer client.Close()

	if _, err := client.Caption(context.Background(), &Request{Image: testFrame()}); err != nil {
		t.Fatalf("Caption: %v", err)
	}
}

func TestClientModelInfo(t *testing.T) {
	client, _ := NewClient(
		WithBaseURL("http://localhost:11434/v1/"),
		WithModel("llava"),
	)
	defer client.Close()

	info := client.ModelInfo()
	if info.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", info.Provider)
	}
	if info.Model != "llava" {
		t.Errorf("Model = %q, want llava", info.Model)
	}
	if info.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", info.BaseURL)
	}
}
