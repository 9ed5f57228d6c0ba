package captioner

import (
	"context"
	"sync"
	"time"
)

const providerMock = "mock"

// cannedCaptions feed rehearsal runs when no model endpoint is available.
var cannedCaptions = []string{
	"a person standing in front of a bright window",
	"two people talking near a table",
	"an empty room with a chair in the corner",
	"someone waving at the camera",
	"a group of people looking at a screen",
	"a person holding a cup and smiling",
}

// Mock implements Provider for tests and rehearsal runs. The zero value
// returns an error from every call; NewMock returns one that cycles canned
// captions.
type Mock struct {
	// CaptionFunc is called when Caption is invoked.
	CaptionFunc func(ctx context.Context, req *Request) (*Result, error)

	// HealthFunc is called when Health is invoked.
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
	next  int
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Time   time.Time
}

// NewMock creates a mock provider that cycles through canned captions.
func NewMock() *Mock {
	m := &Mock{
		HealthFunc: func(ctx context.Context) error {
			return nil
		},
	}
	m.CaptionFunc = func(ctx context.Context, req *Request) (*Result, error) {
		m.mu.Lock()
		text := cannedCaptions[m.next%len(cannedCaptions)]
		m.next++
		m.mu.Unlock()
		return &Result{Text: text, Model: "canned", LatencyMs: 1}, nil
	}
	return m
}

// Caption calls CaptionFunc and records the call.
func (m *Mock) Caption(ctx context.Context, req *Request) (*Result, error) {
	m.record("Caption")
	if m.CaptionFunc != nil {
		return m.CaptionFunc(ctx, req)
	}
	return nil, WrapError(providerMock, ErrProviderUnavailable)
}

// ModelInfo reports the mock backend.
func (m *Mock) ModelInfo() ModelInfo {
	return ModelInfo{Provider: providerMock, Model: "canned"}
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// record adds a call to the tracking list.
func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method: method,
		Time:   time.Now(),
	})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.next = 0
}

// WithError returns a mock whose every call fails with err.
func WithError(err error) *Mock {
	return &Mock{
		CaptionFunc: func(ctx context.Context, req *Request) (*Result, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
