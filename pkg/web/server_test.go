package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/teslashibe/go-scribecam/pkg/caption"
)

func testCaptions() []caption.Caption {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []caption.Caption{
		{Seq: 1, Text: "a-quiet-room", Raw: "a quiet room", At: at},
		{Seq: 2, Text: "someone-walks-past", Raw: "someone walks past", At: at.Add(5 * time.Second)},
		{Seq: 3, Text: "two-people-talking", Raw: "two people talking", At: at.Add(10 * time.Second)},
	}
}

func TestIndexServesViewerPage(t *testing.T) {
	s := NewServer(":0")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q, want html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"scribecam", "/ws/captions", "/ws/camera"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("viewer page missing %q", want)
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	s := NewServer(":0")
	s.StatusFunc = func() Status {
		return Status{
			Uptime:        "1m30s",
			TotalCaptions: 42,
			Buffered:      12,
			Provider:      "openai",
			Model:         "gpt-4o-mini",
			Mode:          "headless",
		}
	}

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got Status
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalCaptions != 42 || got.Model != "gpt-4o-mini" {
		t.Errorf("status payload = %+v", got)
	}
}

func TestStatusUnconfigured(t *testing.T) {
	s := NewServer(":0")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestCaptionsEndpoint(t *testing.T) {
	s := NewServer(":0")
	s.CaptionsFunc = func(limit int) []caption.Caption {
		return testCaptions()
	}

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/captions", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var events []CaptionEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Seq != 1 || events[2].Seq != 3 {
		t.Errorf("events out of order: %+v", events)
	}
	if events[0].Text != "a-quiet-room" || events[0].Raw != "a quiet room" {
		t.Errorf("event fields = %+v", events[0])
	}
}

func TestCaptionsLimitParam(t *testing.T) {
	s := NewServer(":0")

	var gotLimit int
	s.CaptionsFunc = func(limit int) []caption.Caption {
		gotLimit = limit
		return nil
	}

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/captions?limit=2", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if gotLimit != 2 {
		t.Errorf("limit passed through = %d, want 2", gotLimit)
	}
}

func TestCaptionsWithoutSource(t *testing.T) {
	s := NewServer(":0")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/captions", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestWebsocketRoutesRequireUpgrade(t *testing.T) {
	s := NewServer(":0")

	for _, path := range []string{"/ws/captions", "/ws/camera"} {
		resp, err := s.app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != 426 {
			t.Errorf("%s status = %d, want 426", path, resp.StatusCode)
		}
	}
}
