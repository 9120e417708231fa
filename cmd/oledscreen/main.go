// cmd/oledscreen/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/photonicat/mintaka_screen/internal/config"
	"github.com/photonicat/mintaka_screen/internal/httpapi"
	"github.com/photonicat/mintaka_screen/internal/input"
	"github.com/photonicat/mintaka_screen/internal/logging"
	"github.com/photonicat/mintaka_screen/internal/panel"
	"github.com/photonicat/mintaka_screen/internal/protocol"
	"github.com/photonicat/mintaka_screen/internal/render"
	"github.com/photonicat/mintaka_screen/internal/screen"
	"github.com/photonicat/mintaka_screen/internal/screentext"
	"github.com/photonicat/mintaka_screen/internal/surface"
	"github.com/photonicat/mintaka_screen/internal/transport"
)

func main() {
	cfgPath := flag.String("config", "/etc/mintaka/screen.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	logging.DebugEnabled = cfg.Debug || *debug

	// --------------------
	// Surface
	// --------------------

	faces, err := surface.LoadFaces(map[render.Font]surface.FontConfig{
		render.FontNormal: {FontPath: cfg.Fonts.Normal.Path, FontSize: cfg.Fonts.Normal.Size},
		render.FontLarge:  {FontPath: cfg.Fonts.Large.Path, FontSize: cfg.Fonts.Large.Size},
	})
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	splash, err := surface.LoadSplash(cfg.Splash, cfg.Panel.Width, cfg.Panel.Height)
	if err != nil {
		log.Fatalf("Failed to load splash %q: %v", cfg.Splash, err)
	}

	var sink surface.Sink
	if !cfg.Panel.Headless {
		oled, err := panel.Open(panel.Config{
			Bus:      cfg.Panel.I2CBus,
			Width:    cfg.Panel.Width,
			Height:   cfg.Panel.Height,
			Rotated:  cfg.Panel.Rotated,
			Contrast: cfg.Panel.Contrast,
		})
		if err != nil {
			log.Fatalf("panel open failed: %v", err)
		}
		defer oled.Close()
		sink = oled
	} else {
		log.Println("panel: headless, rendering to memory only")
	}

	img := surface.NewImage(cfg.Panel.Width, cfg.Panel.Height, faces, splash, sink)
	sub := screen.New(img, screen.Options{
		StaleAfter: cfg.Timeouts.Stale(),
		IdleAfter:  cfg.Timeouts.Idle(),
		Tick:       cfg.Timeouts.Tick(),
		Width:      cfg.Panel.Width,
	})

	// --------------------
	// Sources
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chunks := make(chan protocol.Chunk, screentext.TotalLines)
	events := make(chan input.Event, 8)
	status := make(chan string, 1)

	g, ctx := errgroup.WithContext(ctx)

	if sc := cfg.Transport.Serial; sc != nil {
		port, err := transport.OpenSerial(transport.SerialConfig{
			Address:  sc.Address,
			BaudRate: sc.BaudRate,
			Timeout:  msDuration(sc.TimeoutMs),
		})
		if err != nil {
			log.Fatalf("serial open failed: %v", err)
		}
		g.Go(func() error {
			go closeOnDone(ctx, port)
			return pumpUntilDone(ctx, "serial", transport.NewReader(port, transport.IsSerialTimeout), chunks)
		})
	}

	if path := cfg.Transport.Hidraw; path != "" {
		f, err := transport.OpenHidraw(path, false)
		if err != nil {
			log.Fatalf("hidraw open failed: %v", err)
		}
		g.Go(func() error {
			go closeOnDone(ctx, f)
			return pumpUntilDone(ctx, "hidraw", transport.NewReader(f, nil), chunks)
		})
	}

	if path := cfg.Transport.File; path != "" {
		g.Go(func() error { return transport.WatchFile(ctx, path, chunks) })
	}

	if name := cfg.Input.Device; name != "" {
		g.Go(func() error {
			err := input.Monitor(ctx, name, cfg.Input.Grab, events)
			if errors.Is(err, input.ErrNoDevice) {
				// the display still works without local input
				log.Printf("input: %v", err)
				return nil
			}
			return err
		})
	}

	if cfg.HTTP.Listen != "" {
		srv := httpapi.New(img, sub, chunks, events, status)
		g.Go(func() error { return srv.Listen(cfg.HTTP.Listen) })
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown()
		})
	}

	g.Go(func() error {
		return sub.Run(ctx, screen.Sources{Chunks: chunks, Events: events, Status: status})
	})

	log.Printf("oledscreen: running (%dx%d, stale %s, idle %s)",
		cfg.Panel.Width, cfg.Panel.Height, cfg.Timeouts.Stale(), cfg.Timeouts.Idle())

	err = g.Wait()
	switch {
	case errors.Is(err, screen.ErrHalted):
		log.Println("oledscreen: shutdown requested")
	case err != nil && !errors.Is(err, context.Canceled):
		log.Fatalf("oledscreen: %v", err)
	}
	log.Println("oledscreen: stopped")
}

func msDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// closeOnDone unblocks a pending device read once ctx is done.
func closeOnDone(ctx context.Context, c io.Closer) {
	<-ctx.Done()
	c.Close()
}

func pumpUntilDone(ctx context.Context, name string, cr *transport.Reader, out chan<- protocol.Chunk) error {
	err := transport.Pump(ctx, name, cr, out)
	if ctx.Err() != nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		log.Printf("%s: device closed", name)
		return nil
	}
	return err
}
