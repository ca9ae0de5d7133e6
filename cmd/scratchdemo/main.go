// Command scratchdemo reveals a cover image along a synthetic drag and
// writes the result as a PNG.
//
// It drives a scratch.Surface the way a host widget would: pointer events
// go in, one Frame per tick paints the pending stroke, and statistics are
// polled on a ticker.
//
//	scratchdemo -config scratch.toml -cover photo.jpg -output out.png
package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"golang.org/x/text/language"

	"github.com/gogpu/scratch"
	_ "github.com/gogpu/scratch/gpu" // register the "gpu" reducer
)

func main() {
	var (
		width      = flag.Int("width", 400, "mask width")
		height     = flag.Int("height", 300, "mask height")
		configPath = flag.String("config", "", "TOML config file (defaults when empty)")
		coverPath  = flag.String("cover", "", "cover image (generated pattern when empty)")
		statsName  = flag.String("stats", "", "statistics reducer, overrides the config")
		lang       = flag.String("lang", "en", "label language (BCP 47)")
		output     = flag.String("output", "scratch.png", "output file")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	scratch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := scratch.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = scratch.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *statsName != "" {
		cfg.StatsBackend = *statsName
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("Invalid language %q: %v", *lang, err)
	}

	s, err := scratch.New(*width, *height, cfg)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	polled := make(chan error, 1)
	go func() {
		polled <- s.PollStats(ctx, 0, func(d scratch.StatData) {
			scratch.Logger().Debug("scratchdemo: stats", "data", d.String())
		})
	}()

	frames := 0
	for _, e := range zigzag(*width, *height, 6, 120) {
		if err := s.HandleEvent(e); err != nil {
			log.Fatalf("Event failed: %v", err)
		}
		drawn, err := s.Frame()
		if err != nil {
			log.Fatalf("Frame failed: %v", err)
		}
		if drawn {
			frames++
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-polled; err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Statistics failed: %v", err)
	}

	d, err := s.Stats(context.Background())
	if err != nil {
		log.Fatalf("Statistics failed: %v", err)
	}
	mask, err := s.Snapshot()
	if err != nil {
		log.Fatalf("Snapshot failed: %v", err)
	}

	var cover image.Image
	if *coverPath != "" {
		if cover, err = loadImage(*coverPath); err != nil {
			log.Fatalf("Failed to load cover: %v", err)
		}
	} else {
		cover = checkerboard(*width, *height, 25)
	}

	img := composite(cover, mask)
	drawLabel(img, statsLabel(tag, d, frames))

	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Result saved to %s (%dx%d, %s)\n", *output, *width, *height, d)
}

// zigzag returns a pointer drag sweeping the mask in rows back and forth,
// with steps move events per row.
func zigzag(w, h, rows, steps int) []scratch.Event {
	margin := 0.1
	x0, x1 := float64(w)*margin, float64(w)*(1-margin)
	events := make([]scratch.Event, 0, rows*steps+2)

	pos := func(row, i int) scratch.Point {
		t := float64(i) / float64(steps)
		if row%2 == 1 {
			t = 1 - t
		}
		y := float64(h) * (margin + (1-2*margin)*float64(row)/float64(max(rows-1, 1)))
		y += math.Sin(t*2*math.Pi) * float64(h) * 0.03
		return scratch.Pt(x0+(x1-x0)*t, y)
	}

	events = append(events, scratch.Event{Kind: scratch.PointerDown, Pos: pos(0, 0)})
	for row := range rows {
		for i := 1; i <= steps; i++ {
			events = append(events, scratch.Event{Kind: scratch.PointerMove, Pos: pos(row, i)})
		}
	}
	events = append(events, scratch.Event{Kind: scratch.PointerUp, Pos: pos(rows-1, steps)})
	return events
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path from command line
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path from command line
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
