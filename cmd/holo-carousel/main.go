package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/holo-carousel/audio"
	"github.com/lixenwraith/holo-carousel/avatar"
	"github.com/lixenwraith/holo-carousel/bundle"
	"github.com/lixenwraith/holo-carousel/catalog"
	"github.com/lixenwraith/holo-carousel/config"
	"github.com/lixenwraith/holo-carousel/engine"
	"github.com/lixenwraith/holo-carousel/input"
	"github.com/lixenwraith/holo-carousel/loader"
	"github.com/lixenwraith/holo-carousel/render"
	"github.com/lixenwraith/holo-carousel/stage"
	"github.com/lixenwraith/holo-carousel/status"
)

const (
	version       = "v0.1.0"
	frameInterval = 33 * time.Millisecond
)

var (
	configFlag    = flag.String("config", "", "Config file (default: <user config dir>/holo-carousel/config.toml)")
	rootFlag      = flag.String("root", "", "Bundle cache root, overrides config")
	colorModeFlag = flag.String("color", "auto", "Color mode: auto, truecolor, 256")
	debugFlag     = flag.Bool("debug", false, "Write logs to logs/holo-carousel.log")
	watchFlag     = flag.Bool("watch", false, "Pick up bundles cached while running")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "holo-carousel: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *rootFlag != "" {
		cfg.CacheRoot = *rootFlag
		if err := cfg.Normalize(); err != nil {
			return err
		}
	}
	cfg.Debug = cfg.Debug || *debugFlag
	cfg.Watch = cfg.Watch || *watchFlag

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}
	log.Printf("holo-carousel %s, cache root %s", version, cfg.CacheRoot)

	match, err := catalog.CompilePattern(cfg.Pattern)
	if err != nil {
		return err
	}

	switch *colorModeFlag {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor", "true", "24bit":
		os.Setenv("COLORTERM", "truecolor")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("%w: %v", render.ErrNoDisplay, err)
	}
	display := render.NewTerminalDisplay(screen)
	if err := display.Setup(); err != nil {
		return err
	}
	// Normal exit terminal cleanup
	defer display.Fini()

	// Panic recovery: restore the terminal before printing the stack
	defer func() {
		if r := recover(); r != nil {
			display.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mHOLO-CAROUSEL CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	display.SetVersion(version)

	cat := catalog.New()
	st := stage.New()
	ld := loader.New(cat, bundle.FileOpener{}, st, nil)

	skyboxes := make(map[string]render.RGB, len(cfg.Skyboxes))
	names := cfg.SkyboxNames()
	for _, name := range names {
		if c, ok := cfg.SkyboxColor(name); ok {
			skyboxes[name] = c
		}
	}

	latch := &input.Latch{}
	stats := status.NewRegistry()
	defer func() { log.Printf("Session: %s", stats.Summary()) }()

	director := engine.NewDirector(engine.Options{
		Catalog:     cat,
		Discover:    catalog.Discover(cfg.CacheRoot, match),
		Loader:      ld,
		Stage:       st,
		Fader:       render.NewFader(render.Black, cfg.FadeSpeed),
		Interval:    cfg.Interval(),
		Zoom:        cfg.Zoom,
		EyeTracking: cfg.EyeTracking,
		Skyboxes:    skyboxes,
		Picker:      avatar.NewPicker(nil, names, cfg.Clips),
		Camera:      avatar.NewCamera(avatar.DefaultCameraDistance),
		Overlay:     display,
		Chime:       audio.NewChime(audio.Config{Enabled: cfg.Audio, Volume: cfg.Volume}),
		Input:       latch,
		Clock:       engine.SystemClock{},
		Stats:       stats,
	})
	defer director.Close()

	if cfg.Watch {
		w, err := catalog.Watch(cfg.CacheRoot, match, cat)
		if err != nil {
			log.Printf("Watcher disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	events := make(chan tcell.Event, 64)
	// Event polling uses a raw goroutine as it interacts directly with the terminal
	go func() {
		defer func() {
			if r := recover(); r != nil {
				display.Fini()
				fmt.Fprintf(os.Stderr, "\r\n\x1b[31mEVENT POLLER CRASHED: %v\x1b[0m\r\n", r)
				fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
				os.Exit(1)
			}
		}()

		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	keys := input.DefaultKeyTable()
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				latch.Press(keys.Map(ev))
			case *tcell.EventResize:
				display.Resize()
			}

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			if err := director.Update(dt); err != nil {
				log.Printf("Stopping: %v", err)
				return err
			}
			if director.Quitting() {
				log.Printf("Quit requested")
				return nil
			}
			display.Draw(director.Frame())
		}
	}
}
