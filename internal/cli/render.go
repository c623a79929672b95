package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"eventline/internal/chart"
	appLog "eventline/internal/log"
	"eventline/internal/render"
	"eventline/internal/source"
	"eventline/internal/surface"
)

// Execute implements the go-flags Commander interface for RenderCommand.
func (c *RenderCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.Width > 0 {
		cfg.Chart.Width = c.Width
	}

	ctx, cancel := signalContext()
	defer cancel()

	d, err := loadData(ctx, cfg, source.NewLoader(cfg, nil))
	if err != nil {
		return err
	}
	return c.render(func(s render.Surface) (*chart.Chart, error) {
		return newChart(s, cfg, d, chart.WithPan(c.Pan))
	})
}

func (c *RenderCommand) format() string {
	if c.Format != "" {
		return c.Format
	}
	if strings.EqualFold(filepath.Ext(c.Out), ".svg") {
		return "svg"
	}
	return "png"
}

// render builds the chart on the surface matching the output format, replays
// the requested pointer input and writes the final frame.
func (c *RenderCommand) render(build func(render.Surface) (*chart.Chart, error)) error {
	var (
		s     render.Surface
		write func(io.Writer) error
	)
	switch c.format() {
	case "svg":
		svg := surface.NewSVG()
		s = svg
		write = func(w io.Writer) error {
			_, err := svg.WriteTo(w)
			return err
		}
	default:
		r, err := surface.NewRaster()
		if err != nil {
			return err
		}
		s = r
		write = r.EncodePNG
	}

	ch, err := build(s)
	if err != nil {
		return err
	}

	if c.Pointer != "" {
		x, y, err := parsePoint(c.Pointer)
		if err != nil {
			return err
		}
		ch.PointerMove(x, y)
		if c.Click {
			ch.PointerDown(x, y)
			ch.PointerUp(x, y)
		}
	}

	if err := writeOutput(c.Out, write); err != nil {
		return err
	}

	st := ch.State()
	w, h := ch.Size()
	appLog.Info("frame rendered",
		"out", c.Out,
		"format", c.format(),
		"width", w,
		"height", h,
		"pan", st.Pan,
		"active", st.ActiveKey,
		"tooltip", ch.Tooltip().Status.String(),
	)
	return nil
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
