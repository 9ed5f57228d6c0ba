package camera

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-scribecam/internal/log"
)

const (
	dialTimeout       = 10 * time.Second
	firstFrameTimeout = 15 * time.Second
	streamReadWait    = time.Second
)

// Stream pulls JPEG frames from a remote publisher over WebSocket. The
// publisher pushes binary messages, one JPEG per message. Stream keeps
// only the newest frame so a slow consumer never builds a backlog.
type Stream struct {
	url string
	ws  *websocket.Conn

	mu     sync.RWMutex
	latest []byte
	width  int
	height int

	frameReady chan struct{}
	done       chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

// Stream implements Source
var _ Source = (*Stream)(nil)

// OpenStream dials the publisher at url (ws:// or wss://) and waits for
// the first frame to arrive.
func OpenStream(url string) (*Stream, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}

	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("camera: dial %s: %w", url, err)
	}

	s := &Stream{
		url:        url,
		ws:         ws,
		frameReady: make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	go s.readLoop()

	select {
	case <-s.frameReady:
	case <-s.done:
		s.Close()
		return nil, fmt.Errorf("camera: stream %s closed before first frame", url)
	case <-time.After(firstFrameTimeout):
		s.Close()
		return nil, fmt.Errorf("camera: timeout waiting for first frame from %s", url)
	}

	// Prime the reported dimensions from the first frame.
	if data := s.peek(); data != nil {
		if img, err := gocv.IMDecode(data, gocv.IMReadColor); err == nil {
			if !img.Empty() {
				s.mu.Lock()
				s.width = img.Cols()
				s.height = img.Rows()
				s.mu.Unlock()
			}
			img.Close()
		}
	}

	return s, nil
}

// readLoop stores the newest JPEG payload and drops everything older.
func (s *Stream) readLoop() {
	defer close(s.done)
	for {
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				log.Warn("camera stream read failed", "url", s.url, "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}

		// ReadMessage allocates a fresh buffer per message, so the slice
		// is never reused behind our back.
		s.mu.Lock()
		s.latest = data
		s.mu.Unlock()

		select {
		case s.frameReady <- struct{}{}:
		default:
		}
	}
}

// Read decodes the newest frame into dst. A payload that fails to decode
// is dropped and Read waits for the next one. Read reports false when
// the connection is gone or no frame arrives within a second.
func (s *Stream) Read(dst *gocv.Mat) bool {
	deadline := time.After(streamReadWait)
	for {
		if data := s.take(); data != nil {
			img, err := gocv.IMDecode(data, gocv.IMReadColor)
			if err != nil {
				continue
			}
			if img.Empty() {
				img.Close()
				continue
			}

			s.mu.Lock()
			s.width = img.Cols()
			s.height = img.Rows()
			s.mu.Unlock()

			img.CopyTo(dst)
			img.Close()
			return true
		}

		select {
		case <-s.frameReady:
		case <-s.done:
			return false
		case <-deadline:
			return false
		}
	}
}

// take removes and returns the buffered frame. Reads pace themselves to
// the publisher rate because a consumed frame is not served twice.
func (s *Stream) take() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.latest
	s.latest = nil
	return data
}

func (s *Stream) peek() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Info reports the dimensions of the most recently decoded frame. The
// publisher controls pacing, so FPS is zero.
func (s *Stream) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{Width: s.width, Height: s.height, Desc: s.url}
}

// Close tears down the connection. Safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		err = s.ws.Close()
		<-s.done
	})
	return err
}
