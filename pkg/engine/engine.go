package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-scribecam/internal/log"
	"github.com/teslashibe/go-scribecam/pkg/archive"
	"github.com/teslashibe/go-scribecam/pkg/camera"
	"github.com/teslashibe/go-scribecam/pkg/caption"
	"github.com/teslashibe/go-scribecam/pkg/captioner"
	"github.com/teslashibe/go-scribecam/pkg/display"
	"github.com/teslashibe/go-scribecam/pkg/web"
)

const (
	// framePoll paces the capture loop; roughly thirty reads a second.
	framePoll = 30 * time.Millisecond

	// webFrameInterval throttles camera frames to web viewers to 10 FPS.
	webFrameInterval = 100 * time.Millisecond

	// captionTimeout bounds one captioning request, retries included.
	captionTimeout = 90 * time.Second

	// healthTimeout bounds the startup connectivity probe.
	healthTimeout = 10 * time.Second

	// maxReadFailures is how many consecutive failed reads end the run.
	maxReadFailures = 30
)

// App wires the camera, the captioning backend, the caption wall and
// the optional web viewer into one installation.
type App struct {
	cfg  Config
	mode display.Mode

	provider captioner.Provider
	source   camera.Source
	buffer   *caption.Buffer
	disp     *display.Display
	web      *web.Server
	store    *archive.Store

	// pending is a one-slot mailbox to the captioning worker. dispatch
	// replaces a waiting frame instead of queueing behind it, so the
	// worker always captions the freshest view.
	pending chan []byte
	results chan outcome

	startedAt    time.Time
	lastDispatch time.Time
	lastWebFrame time.Time
	lastRaw      string
}

// outcome is one captioning attempt coming back from the worker.
type outcome struct {
	res *captioner.Result
	err error
}

// New creates the application from a validated configuration.
// Call Init before Run.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := display.ParseMode(cfg.Mode)

	return &App{
		cfg:       cfg,
		mode:      mode,
		buffer:    caption.NewBuffer(cfg.MaxCaptions),
		pending:   make(chan []byte, 1),
		results:   make(chan outcome, 1),
		startedAt: time.Now(),
	}, nil
}

// Init brings up every component: captioning backend, frame source,
// windows, session archive and the web viewer.
func (a *App) Init() error {
	fmt.Println("📷 ScribeCam - Live Caption Installation")
	fmt.Println("========================================")

	// Captioning backend
	fmt.Print("🧠 Connecting caption model... ")
	if err := a.ensureProvider(); err != nil {
		return fmt.Errorf("captioner init: %w", err)
	}
	mi := a.provider.ModelInfo()

	hctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	err := a.provider.Health(hctx)
	cancel()
	if err != nil {
		fmt.Printf("⚠️  %v\n", err)
	} else {
		fmt.Printf("✅ (%s: %s)\n", mi.Provider, mi.Model)
	}

	// Frame source
	fmt.Print("📷 Opening camera... ")
	source, err := openSource(a.cfg.Camera)
	if err != nil {
		return fmt.Errorf("camera init: %w", err)
	}
	a.source = source
	info := source.Info()
	fmt.Printf("✅ (%s, %dx%d)\n", info.Desc, info.Width, info.Height)

	// Caption wall
	face := display.Face(a.cfg.FontPath, float64(a.cfg.Layout.GlyphHeight))
	a.disp = display.New(a.mode, display.NewCanvas(a.cfg.Layout, face))
	switch a.mode {
	case display.ModeDual:
		fmt.Println("🖥️  Dual screen: camera preview plus caption wall")
	case display.ModeCamera:
		fmt.Println("🖥️  Camera preview window")
	default:
		fmt.Println("🖥️  Headless: no windows, captions on stdout")
	}

	// Session archive
	if !a.cfg.NoArchive {
		store, err := openArchive(a.cfg.ArchiveDir)
		if err != nil {
			fmt.Printf("⚠️  Archive disabled: %v\n", err)
		} else {
			a.store = store
			fmt.Printf("💾 Session archive: %s\n", store.Path())
		}
	}

	// Web viewer
	if a.cfg.WebAddr != "" {
		srv := web.NewServer(a.cfg.WebAddr)
		srv.StatusFunc = a.webStatus
		srv.CaptionsFunc = a.bufferedCaptions
		a.web = srv
		srv.StartAsync()
		fmt.Printf("🌐 Web viewer: http://%s\n", hostAddr(a.cfg.WebAddr))
	}

	return nil
}

// Run drives the frame loop until ctx is cancelled, q is pressed in a
// window, or the camera stops delivering. Captioning runs on its own
// goroutine so a slow model never stalls the preview.
func (a *App) Run(ctx context.Context) error {
	fmt.Printf("\n🎬 Watching! A new caption every %v\n", a.cfg.Interval)
	if a.mode == display.ModeHeadless {
		fmt.Println("   (Ctrl+C to exit)")
	} else {
		fmt.Println("   (press q in a window or Ctrl+C to exit)")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.captionWorker(workerCtx)

	frame := gocv.NewMat()
	defer frame.Close()

	ticker := time.NewTicker(framePoll)
	defer ticker.Stop()

	readFailures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case out := <-a.results:
			a.handleResult(out)
			continue
		case <-ticker.C:
		}

		if !a.source.Read(&frame) {
			readFailures++
			if readFailures >= maxReadFailures {
				return errors.New("engine: camera stopped delivering frames")
			}
			continue
		}
		readFailures = 0

		if time.Since(a.lastDispatch) >= a.cfg.Interval {
			a.dispatch(frame)
		}

		if a.mode != display.ModeHeadless {
			display.DrawOverlay(&frame, a.lastRaw, time.Now())
			a.disp.ShowPreview(frame)
			if a.disp.CheckQuit() {
				fmt.Println("\n🛑 Quit requested")
				return nil
			}
		}

		a.streamFrame(frame)
	}
}

// Shutdown releases every component. Safe after a partial Init.
func (a *App) Shutdown() {
	fmt.Println("\n👋 Goodbye!")

	if a.web != nil {
		a.web.Shutdown()
	}
	if a.source != nil {
		a.source.Close()
	}
	if a.provider != nil {
		a.provider.Close()
	}
	if a.disp != nil {
		a.disp.Close()
	}
}

// captionWorker turns dispatched frames into captions, one at a time.
func (a *App) captionWorker(ctx context.Context) {
	for {
		var jpeg []byte
		select {
		case <-ctx.Done():
			return
		case jpeg = <-a.pending:
		}

		cctx, cancel := context.WithTimeout(ctx, captionTimeout)
		res, err := a.provider.Caption(cctx, &captioner.Request{JPEG: jpeg})
		cancel()

		select {
		case a.results <- outcome{res: res, err: err}:
		case <-ctx.Done():
			return
		}
	}
}

// dispatch encodes the frame and hands it to the captioning worker,
// replacing any frame still waiting.
func (a *App) dispatch(frame gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		log.Warn("frame encode failed", "error", err)
		return
	}
	// GetBytes points into memory that Close frees, so copy first.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	buf.Close()

	select {
	case <-a.pending:
	default:
	}
	select {
	case a.pending <- data:
		a.lastDispatch = time.Now()
		fmt.Printf("🔄 [%s] Processing frame...\n", a.lastDispatch.Format("15:04:05"))
	default:
	}
}

// handleResult folds one captioning outcome into the buffer, the wall,
// the web feed and the archive. Failures leave the wall as it was.
func (a *App) handleResult(out outcome) {
	if out.err != nil {
		fmt.Printf("⚠️  [%s] Caption failed: %v\n", time.Now().Format("15:04:05"), out.err)
		return
	}

	c := a.buffer.Append(out.res.Text)
	a.lastRaw = c.Raw
	fmt.Printf("📝 [%s] %s\n", c.At.Format("15:04:05"), c.Raw)

	if a.mode == display.ModeDual {
		if _, err := a.disp.ShowCaptions(a.buffer.Snapshot(), a.buffer.Total()); err != nil {
			log.Warn("caption wall render failed", "error", err)
		}
	}

	if a.web != nil {
		a.web.BroadcastCaption(c)
	}

	if a.store != nil {
		_, err := a.store.Append(archive.Record{
			Seq:       c.Seq,
			Text:      c.Text,
			RawText:   c.Raw,
			Model:     out.res.Model,
			LatencyMs: out.res.LatencyMs,
			CreatedAt: c.At,
		})
		if err != nil {
			log.Warn("archive append failed", "error", err)
		}
	}
}

// streamFrame mirrors the camera to connected web viewers at a reduced
// rate. Nothing is encoded when nobody is watching.
func (a *App) streamFrame(frame gocv.Mat) {
	if a.web == nil || a.web.FrameViewers() == 0 {
		return
	}
	if time.Since(a.lastWebFrame) < webFrameInterval {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return
	}
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	buf.Close()

	a.web.BroadcastFrame(data)
	a.lastWebFrame = time.Now()
}

// ensureProvider builds the captioning backend once. Constructors do
// not dial, so this stays safe for offline status queries.
func (a *App) ensureProvider() error {
	if a.provider != nil {
		return nil
	}
	p, err := buildProvider(a.cfg)
	if err != nil {
		return err
	}
	a.provider = p
	return nil
}

// webStatus assembles the /api/status payload.
func (a *App) webStatus() web.Status {
	mi := a.provider.ModelInfo()
	st := web.Status{
		Uptime:        time.Since(a.startedAt).Round(time.Second).String(),
		TotalCaptions: a.buffer.Total(),
		Buffered:      a.buffer.Len(),
		Provider:      mi.Provider,
		Model:         mi.Model,
		Source:        a.source.Info().Desc,
		Interval:      a.cfg.Interval.Seconds(),
		Mode:          string(a.mode),
		Viewers:       a.web.Viewers(),
	}
	if a.store != nil {
		st.Archive = a.store.Path()
	}
	return st
}

// bufferedCaptions serves the /api/captions payload, newest-limited.
func (a *App) bufferedCaptions(limit int) []caption.Caption {
	caps := a.buffer.Snapshot()
	if limit > 0 && limit < len(caps) {
		caps = caps[len(caps)-limit:]
	}
	return caps
}

// openSource picks the capture backend for the configured source. A
// websocket URL pulls frames from a remote publisher; everything else
// goes through OpenCV.
func openSource(cfg camera.Config) (camera.Source, error) {
	if strings.HasPrefix(cfg.Source, "ws://") || strings.HasPrefix(cfg.Source, "wss://") {
		return camera.OpenStream(cfg.Source)
	}
	return camera.OpenWebcam(cfg)
}

func openArchive(dir string) (*archive.Store, error) {
	if dir != "" {
		return archive.New(dir)
	}
	return archive.NewDefault()
}

// hostAddr turns a listen address into something a browser accepts.
func hostAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
