package captioner

import (
	"context"
	"errors"
	"testing"
)

func TestMockCyclesCannedCaptions(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	first, err := m.Caption(ctx, &Request{})
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
	second, _ := m.Caption(ctx, &Request{})

	if first.Text == second.Text {
		t.Errorf("consecutive captions identical: %q", first.Text)
	}

	// One full cycle returns to the start.
	for i := 0; i < len(cannedCaptions)-2; i++ {
		m.Caption(ctx, &Request{})
	}
	again, _ := m.Caption(ctx, &Request{})
	if again.Text != first.Text {
		t.Errorf("after full cycle got %q, want %q", again.Text, first.Text)
	}
}

func TestMockRecordsCalls(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	m.Caption(ctx, &Request{})
	m.Caption(ctx, &Request{})
	m.Health(ctx)
	m.Close()

	if got := m.CallCount("Caption"); got != 2 {
		t.Errorf("Caption count = %d, want 2", got)
	}
	if got := m.CallCount("Health"); got != 1 {
		t.Errorf("Health count = %d, want 1", got)
	}
	if got := len(m.Calls()); got != 4 {
		t.Errorf("total calls = %d, want 4", got)
	}

	m.Reset()
	if got := len(m.Calls()); got != 0 {
		t.Errorf("calls after Reset = %d, want 0", got)
	}
}

func TestMockZeroValueFails(t *testing.T) {
	var m Mock
	_, err := m.Caption(context.Background(), &Request{})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("got %v, want ErrProviderUnavailable", err)
	}
}

func TestWithError(t *testing.T) {
	boom := errors.New("boom")
	m := WithError(boom)

	if _, err := m.Caption(context.Background(), &Request{}); !errors.Is(err, boom) {
		t.Errorf("Caption error = %v, want boom", err)
	}
	if err := m.Health(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Health error = %v, want boom", err)
	}
}
