package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"eventline/internal/chart"
	"eventline/internal/config"
	appLog "eventline/internal/log"
	"eventline/internal/render"
	"eventline/internal/source"
)

// loadConfig reads the config named by --config and applies the log level.
// A missing file is created with defaults, as config.Load does.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	path := g.Config
	cfg, err := config.Load(path)
	if err != nil {
		if cfg == nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		appLog.Warn("default config could not be written", "config_path", path, "err", err.Error())
	}

	level := cfg.LogLevel
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))

	appLog.Debug("effective config",
		"config_path", path,
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"refresh", cfg.Refresh,
		"horizon_days", cfg.HorizonDays,
		"dataset", cfg.Dataset,
		"ics_count", len(cfg.ICS),
	)
	return cfg, nil
}

func loadData(ctx context.Context, cfg *config.Config, loader *source.Loader) (source.Data, error) {
	if !source.Configured(cfg) {
		return source.Data{}, source.ErrNoData
	}
	return loader.Load(ctx)
}

func newChart(s render.Surface, cfg *config.Config, d source.Data, opts ...chart.Option) (*chart.Chart, error) {
	return chart.New(s, cfg.Chart, d.EventTypes, d.Events, d.Lines, opts...)
}

func newRefresher(cfg *config.Config, loader *source.Loader, apply func(source.Data) error) (*source.Refresher, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	return source.NewRefresher(cfg.Refresh, loc, loader, apply)
}

// signalContext is canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// parsePoint reads "x,y".
func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("pointer %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("pointer %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("pointer %q: %w", s, err)
	}
	return x, y, nil
}
