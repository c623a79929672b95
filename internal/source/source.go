// Package source assembles chart input from the configured dataset file and
// ICS feeds.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventline/internal/config"
	"eventline/internal/ics"
	"eventline/internal/log"
	"eventline/internal/model"
)

// Data is one complete chart input.
type Data struct {
	EventTypes []model.EventType
	Events     []model.Event
	Lines      []model.LinePoint
}

// Fetcher is the part of ics.Fetcher the loader needs.
type Fetcher interface {
	FetchAll(ctx context.Context, feeds []ics.Feed) ([]ics.Result, []error)
}

// Loader reads the dataset file and all ICS feeds of a config.
type Loader struct {
	cfg     *config.Config
	fetcher Fetcher
	now     func() time.Time
}

func NewLoader(cfg *config.Config, fetcher Fetcher) *Loader {
	if fetcher == nil {
		fetcher = ics.NewFetcher(cfg.CacheDir)
	}
	return &Loader{cfg: cfg, fetcher: fetcher, now: time.Now}
}

// Load returns the merged data. Dataset lanes keep their sort orders; each
// ICS feed becomes one more lane after them unless a dataset lane already
// uses its ID. Bad records and failing feeds are logged and left out; only an
// unreadable dataset file is an error.
func (l *Loader) Load(ctx context.Context) (Data, error) {
	var d Data

	if l.cfg.Dataset != "" {
		ds, err := model.LoadDataset(l.cfg.Dataset)
		if err != nil {
			return Data{}, fmt.Errorf("source: %w", err)
		}
		d.EventTypes = append(d.EventTypes, ds.EventTypes...)

		events, errs := model.DecodeEvents(ds.Events, l.cfg.Chart.FieldNames)
		for _, err := range errs {
			log.Error("dataset event skipped", err, "file", l.cfg.Dataset)
		}
		lines, errs := model.DecodeLines(ds.Lines, l.cfg.Chart.FieldNames)
		for _, err := range errs {
			log.Error("dataset line point skipped", err, "file", l.cfg.Dataset)
		}
		d.Events = append(d.Events, events...)
		d.Lines = append(d.Lines, lines...)
	}

	if len(l.cfg.ICS) == 0 {
		return d, nil
	}

	d.EventTypes = appendFeedLanes(d.EventTypes, l.cfg.ICS)
	events, err := l.loadFeeds(ctx)
	if err != nil {
		return Data{}, err
	}
	d.Events = append(d.Events, events...)

	log.Info("source loaded",
		"lanes", len(d.EventTypes),
		"events", len(d.Events),
		"lines", len(d.Lines),
	)
	return d, nil
}

func appendFeedLanes(types []model.EventType, feeds []config.ICSConfig) []model.EventType {
	known := make(map[string]bool, len(types))
	for _, t := range types {
		known[t.Value] = true
	}
	for _, f := range feeds {
		if known[f.ID] {
			continue
		}
		known[f.ID] = true
		label := f.Name
		if label == "" {
			label = f.ID
		}
		types = append(types, model.EventType{
			Value:          f.ID,
			Label:          label,
			Sort:           len(types) + 1,
			PrimaryColor:   f.PrimaryColor,
			SecondaryColor: f.SecondaryColor,
		})
	}
	return types
}

func (l *Loader) loadFeeds(ctx context.Context) ([]model.Event, error) {
	loc, err := time.LoadLocation(l.cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("source: timezone %q: %w", l.cfg.Timezone, err)
	}

	feeds := make([]ics.Feed, 0, len(l.cfg.ICS))
	for _, c := range l.cfg.ICS {
		feeds = append(feeds, ics.Feed{ID: c.ID, URL: c.URL})
	}
	results, errs := l.fetcher.FetchAll(ctx, feeds)
	if len(results) == 0 && len(errs) > 0 {
		log.Warn("no ICS feed could be fetched", "feeds", len(feeds))
	}

	var vevents []ics.VEvent
	for _, r := range results {
		parsed, err := ics.Parse(r.Feed, r.Body)
		if err != nil {
			log.Error("ics feed skipped", err, "feed", r.Feed.ID)
			continue
		}
		vevents = append(vevents, parsed...)
	}

	now := l.now().In(loc)
	exp, err := ics.Expand(vevents, ics.Window{
		Start:    now.AddDate(0, 0, -l.cfg.BackfillDays),
		End:      now.AddDate(0, 0, l.cfg.HorizonDays),
		Location: loc,
	})
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return exp.Events, nil
}

// ErrNoData is returned by hosts that need at least a dataset or a feed.
var ErrNoData = errors.New("source: neither a dataset nor ICS feeds are configured")

// Configured reports whether cfg names any input at all.
func Configured(cfg *config.Config) bool {
	return cfg.Dataset != "" || len(cfg.ICS) > 0
}
