package cli

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"eventline/internal/capture"
	appLog "eventline/internal/log"
	"eventline/internal/source"
	"eventline/internal/surface"
)

// Execute implements the go-flags Commander interface for CaptureCommand.
func (c *CaptureCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	d, err := loadData(ctx, cfg, source.NewLoader(cfg, nil))
	if err != nil {
		return err
	}

	svg := surface.NewSVG()
	ch, err := newChart(svg, cfg, d)
	if err != nil {
		return err
	}

	svgPath := c.SVG
	if svgPath == "" {
		dir, err := os.MkdirTemp("", "eventline-capture-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		svgPath = filepath.Join(dir, "frame.svg")
	}
	if err := writeOutput(svgPath, func(w io.Writer) error {
		_, err := svg.WriteTo(w)
		return err
	}); err != nil {
		return err
	}

	w, h := ch.Size()
	opts := capture.Options{
		SVGPath:    svgPath,
		OutputPath: c.Out,
		Width:      int(math.Ceil(w)),
		Height:     int(math.Ceil(h)),
		Timeout:    time.Duration(c.Timeout) * time.Second,
	}
	if err := capture.SVGToPNG(ctx, opts); err != nil {
		return err
	}
	appLog.Info("frame captured", "out", c.Out, "width", opts.Width, "height", opts.Height)
	return nil
}
