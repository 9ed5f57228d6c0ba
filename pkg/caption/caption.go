// Package caption implements the caption buffer and column layout engine.
//
// Captions arrive as free text from the model adapter and are stored in a
// bounded FIFO buffer. Layout turns the buffered captions into vertical
// columns read right to left, newest at the right edge, in the style of a
// classical document. The buffer is safe for an append from the captioning
// task to interleave with snapshot reads from the render loop.
package caption

import (
	"strings"
	"sync"
	"time"
)

// DefaultMaxCaptions bounds the buffer when no explicit limit is given.
const DefaultMaxCaptions = 200

// Caption is one generated description of a camera frame.
type Caption struct {
	// Seq is the monotonic arrival sequence number, starting at 1.
	Seq uint64

	// Text is the display form, with spaces converted to hyphens.
	Text string

	// Raw is the text as returned by the model, used for the camera
	// overlay and the session archive.
	Raw string

	// At is the arrival time.
	At time.Time
}

// Buffer is an ordered, bounded sequence of Captions. Appending beyond the
// bound evicts the oldest entries first. The zero value is not usable; call
// NewBuffer.
type Buffer struct {
	mu   sync.Mutex
	max  int
	seq  uint64
	caps []Caption
}

// NewBuffer creates a buffer holding at most max captions.
// Non-positive max falls back to DefaultMaxCaptions.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultMaxCaptions
	}
	return &Buffer{max: max}
}

// Append stores text as the newest caption, converting spaces to hyphens
// for display, and evicts the oldest captions until the buffer is within
// its bound. It returns the stored caption.
func (b *Buffer) Append(text string) Caption {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	c := Caption{
		Seq:  b.seq,
		Text: strings.ReplaceAll(text, " ", "-"),
		Raw:  text,
		At:   time.Now(),
	}
	b.caps = append(b.caps, c)
	for len(b.caps) > b.max {
		b.caps = b.caps[1:]
	}
	return c
}

// Snapshot returns a copy of the buffered captions, oldest first.
func (b *Buffer) Snapshot() []Caption {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Caption, len(b.caps))
	copy(out, b.caps)
	return out
}

// Len returns the number of buffered captions.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.caps)
}

// Total returns how many captions have ever been appended.
func (b *Buffer) Total() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// Max returns the buffer bound.
func (b *Buffer) Max() int {
	return b.max
}

// Last returns the newest caption, or false when the buffer is empty.
func (b *Buffer) Last() (Caption, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.caps) == 0 {
		return Caption{}, false
	}
	return b.caps[len(b.caps)-1], true
}
