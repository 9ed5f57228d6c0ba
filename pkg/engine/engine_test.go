package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/go-scribecam/pkg/archive"
	"github.com/teslashibe/go-scribecam/pkg/caption"
	"github.com/teslashibe/go-scribecam/pkg/captioner"
	"github.com/teslashibe/go-scribecam/pkg/display"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	app, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = 0

	if _, err := New(cfg); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestNewAppliesBufferBound(t *testing.T) {
	app := newTestApp(t)

	if got := app.buffer.Max(); got != caption.DefaultMaxCaptions {
		t.Errorf("buffer max = %d, want %d", got, caption.DefaultMaxCaptions)
	}
	if app.mode != display.ModeHeadless {
		t.Errorf("mode = %q, want headless", app.mode)
	}
}

func TestHandleResultAppendsAndArchives(t *testing.T) {
	app := newTestApp(t)
	store, err := archive.New(t.TempDir())
	if err != nil {
		t.Fatalf("archive.New: %v", err)
	}
	app.store = store

	app.handleResult(outcome{res: &captioner.Result{
		Text:      "a person waving at the camera",
		Model:     "canned",
		LatencyMs: 3,
	}})

	if app.buffer.Len() != 1 {
		t.Fatalf("buffer len = %d, want 1", app.buffer.Len())
	}
	c := app.buffer.Snapshot()[0]
	if c.Text != "a-person-waving-at-the-camera" {
		t.Errorf("display text = %q", c.Text)
	}
	if c.Raw != "a person waving at the camera" {
		t.Errorf("raw text = %q", c.Raw)
	}
	if app.lastRaw != c.Raw {
		t.Errorf("lastRaw = %q, want %q", app.lastRaw, c.Raw)
	}

	if store.Count() != 1 {
		t.Fatalf("archived %d records, want 1", store.Count())
	}
	rec := store.Recent(1)[0]
	if rec.Seq != 1 || rec.RawText != c.Raw || rec.Model != "canned" {
		t.Errorf("record = %+v", rec)
	}
}

func TestHandleResultFailureLeavesBuffer(t *testing.T) {
	app := newTestApp(t)

	app.handleResult(outcome{err: errors.New("model offline")})

	if app.buffer.Total() != 0 {
		t.Errorf("total = %d, want 0", app.buffer.Total())
	}
	if app.lastRaw != "" {
		t.Errorf("lastRaw = %q, want empty", app.lastRaw)
	}
}

func TestCaptionWorkerRoundTrip(t *testing.T) {
	app := newTestApp(t)
	if err := app.ensureProvider(); err != nil {
		t.Fatalf("ensureProvider: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.captionWorker(ctx)

	app.pending <- []byte("jpeg-bytes")

	select {
	case out := <-app.results:
		if out.err != nil {
			t.Fatalf("worker returned error: %v", out.err)
		}
		if out.res.Text == "" {
			t.Error("worker returned empty caption")
		}
	case <-time.After(time.Second):
		t.Fatal("no caption result within a second")
	}
}

func TestBufferedCaptionsLimit(t *testing.T) {
	app := newTestApp(t)
	for _, text := range []string{"one", "two", "three"} {
		app.buffer.Append(text)
	}

	if got := app.bufferedCaptions(0); len(got) != 3 {
		t.Errorf("unlimited = %d captions, want 3", len(got))
	}

	last := app.bufferedCaptions(2)
	if len(last) != 2 {
		t.Fatalf("limited = %d captions, want 2", len(last))
	}
	if last[0].Text != "two" || last[1].Text != "three" {
		t.Errorf("limited = [%q %q], want newest two in order", last[0].Text, last[1].Text)
	}
}

func TestInfoWorksOffline(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	app := newTestApp(t)

	info, err := app.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	if info.Provider != "mock" {
		t.Errorf("provider = %q, want mock", info.Provider)
	}
	if info.Columns != 100 {
		t.Errorf("columns = %d, want 100", info.Columns)
	}
	if info.Rows != 53 {
		t.Errorf("rows = %d, want 53", info.Rows)
	}
	if info.MaxCaptions != caption.DefaultMaxCaptions {
		t.Errorf("max captions = %d, want %d", info.MaxCaptions, caption.DefaultMaxCaptions)
	}
	if info.ArchiveDir == "" {
		t.Error("expected a resolved archive dir")
	}
}

func TestHostAddr(t *testing.T) {
	if got := hostAddr(":8089"); got != "localhost:8089" {
		t.Errorf("hostAddr(\":8089\") = %q", got)
	}
	if got := hostAddr("0.0.0.0:8089"); got != "0.0.0.0:8089" {
		t.Errorf("hostAddr kept = %q", got)
	}
}
