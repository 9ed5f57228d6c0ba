// ScribeCam - live camera captioning installation.
// Captures frames, captions them with a vision model, and renders the
// captions as a wall of vertical text columns, newest on the right.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/teslashibe/go-scribecam/internal/config"
	"github.com/teslashibe/go-scribecam/internal/log"
	"github.com/teslashibe/go-scribecam/pkg/camera"
	"github.com/teslashibe/go-scribecam/pkg/display"
	"github.com/teslashibe/go-scribecam/pkg/engine"
)

func main() {
	// A .env beside the binary is an installation convenience; missing
	// is fine.
	_ = godotenv.Load()

	cfg, opts := parseFlags()
	log.Init(opts.logLevel)

	app, err := engine.New(cfg)
	if err != nil {
		fatalf("Configuration error: %v", err)
	}

	if opts.statusOnly {
		printStatus(app)
		return
	}

	if err := app.Init(); err != nil {
		fatalf("Initialization failed: %v", err)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		fatalf("Runtime error: %v", err)
	}
}

type cliOptions struct {
	statusOnly bool
	logLevel   string
}

// parseFlags resolves the full configuration chain: defaults, then the
// settings file, then environment variables, then explicit flags.
func parseFlags() (engine.Config, cliOptions) {
	cfg := engine.DefaultConfig()

	var (
		cameraIndex = flag.Int("camera", cfg.Camera.DeviceID, "Camera device index")
		source      = flag.String("source", "", "Capture source overriding --camera: file, RTSP URL, or ws:// relay")
		resolution  = flag.String("resolution", "", "Capture preset: "+strings.Join(camera.PresetNames(), ", "))
		interval    = flag.Duration("interval", cfg.Interval, "Time between captioning requests")
		provider    = flag.String("provider", cfg.Provider, "Captioning provider: openai, gemini or mock (comma-separate for a fallback chain)")
		model       = flag.String("model", "", "Model override for the provider")
		displayMode = flag.String("display", cfg.Mode, "Display mode: headless, camera or dual")
		dualScreen  = flag.Bool("dual-screen", false, "Shorthand for --display dual")
		showCamera  = flag.Bool("show-camera", false, "Shorthand for --display camera")
		fontPath    = flag.String("font", "", "TTF font for the caption wall")
		webAddr     = flag.String("web", cfg.WebAddr, "Web viewer listen address, e.g. :8089 (empty disables)")
		configPath  = flag.String("config", "", "Settings file (default ~/.scribecam/config.toml)")
		noArchive   = flag.Bool("no-archive", false, "Disable the session archive")
		statusOnly  = flag.Bool("status", false, "Print the resolved configuration and exit")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn or error")
	)
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	file, err := config.Load(*configPath)
	if err != nil {
		fatalf("Settings file: %v", err)
	}
	cfg.ApplyFile(file)
	cfg.LoadEnvConfig()

	// Only flags the operator actually passed override the file and the
	// environment.
	if set["camera"] {
		cfg.Camera.DeviceID = *cameraIndex
	}
	if set["source"] {
		cfg.Camera.Source = *source
	}
	if set["resolution"] {
		p := camera.GetPreset(*resolution)
		if p == nil {
			fatalf("Unknown resolution preset %q (want %s)", *resolution, strings.Join(camera.PresetNames(), ", "))
		}
		cfg.Camera.Width, cfg.Camera.Height, cfg.Camera.FPS = p.Width, p.Height, p.FPS
	}
	if set["interval"] {
		cfg.Interval = *interval
	}
	if set["provider"] {
		cfg.Provider = *provider
	}
	if set["model"] {
		cfg.Model = *model
	}
	if set["display"] {
		cfg.Mode = *displayMode
	}
	if *dualScreen {
		cfg.Mode = string(display.ModeDual)
	} else if *showCamera {
		cfg.Mode = string(display.ModeCamera)
	}
	if set["font"] {
		cfg.FontPath = *fontPath
	}
	if set["web"] {
		cfg.WebAddr = *webAddr
	}
	if *noArchive {
		cfg.NoArchive = true
	}

	return cfg, cliOptions{statusOnly: *statusOnly, logLevel: *logLevel}
}

// printStatus dumps the resolved configuration without touching camera
// or network.
func printStatus(app *engine.App) {
	info, err := app.Info()
	if err != nil {
		fatalf("Status error: %v", err)
	}

	fmt.Println("📊 System Status:")
	fmt.Println(strings.Repeat("=", 50))

	src := info.Camera.Source
	if src == "" {
		src = fmt.Sprintf("device %d", info.Camera.DeviceID)
	}
	fmt.Printf("📷 Camera: %s (%dx%d @ %dfps)\n",
		src, info.Camera.Width, info.Camera.Height, info.Camera.FPS)

	fmt.Printf("🧠 Captioner: %s (model: %s)\n",
		strings.Join(info.Providers, ", "), info.Model)
	if info.BaseURL != "" {
		fmt.Printf("   Endpoint: %s\n", info.BaseURL)
	}

	fmt.Printf("⏱️  Interval: %v\n", info.Interval)
	fmt.Printf("🖥️  Display: %s\n", info.Mode)
	fmt.Printf("🔤 Wall: %dx%d px, %d columns of %d glyphs, up to %d captions\n",
		info.Layout.CanvasWidth, info.Layout.CanvasHeight,
		info.Columns, info.Rows, info.MaxCaptions)
	if info.FontPath != "" {
		fmt.Printf("   Font: %s\n", info.FontPath)
	}

	if info.WebAddr != "" {
		fmt.Printf("🌐 Web viewer: %s\n", info.WebAddr)
	}
	if info.NoArchive {
		fmt.Println("💾 Archive: disabled")
	} else {
		fmt.Printf("💾 Archive: %s\n", info.ArchiveDir)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "❌ "+format+"\n", args...)
	os.Exit(1)
}
