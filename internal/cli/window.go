package cli

import (
	"context"
	"sync"

	appLog "eventline/internal/log"
	"eventline/internal/source"
	"eventline/internal/surface"
	"eventline/internal/window"
)

// Execute implements the go-flags Commander interface for WindowCommand.
func (c *WindowCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	loader := source.NewLoader(cfg, nil)
	d, err := loadData(context.Background(), cfg, loader)
	if err != nil {
		return err
	}

	r, err := surface.NewRaster()
	if err != nil {
		return err
	}
	ch, err := newChart(r, cfg, d)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	refresher, err := newRefresher(cfg, loader, func(d source.Data) error {
		mu.Lock()
		defer mu.Unlock()
		return ch.SetData(d.EventTypes, d.Events, d.Lines)
	})
	if err != nil {
		return err
	}
	refresher.Start()
	defer refresher.Stop()

	appLog.Info("eventline window", "version", c.version, "title", c.Title)
	return window.Run(window.New(ch, r, &mu), c.Title)
}
