package cli

import (
	appLog "eventline/internal/log"
	"eventline/internal/source"
	"eventline/internal/surface"
	"eventline/internal/web"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}

	ctx, cancel := signalContext()
	defer cancel()

	loader := source.NewLoader(cfg, nil)
	d, err := loadData(ctx, cfg, loader)
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
	srv := web.NewServer(cfg, ch, r)

	refresher, err := newRefresher(cfg, loader, srv.Apply)
	if err != nil {
		return err
	}
	refresher.Start()
	defer refresher.Stop()

	appLog.Info("eventline serving",
		"version", c.version,
		"listen", cfg.Listen,
		"refresh", cfg.Refresh,
	)
	return srv.Serve(ctx)
}
