package source

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"eventline/internal/log"
)

// Refresher reloads data on a cron schedule and hands every successful load
// to apply. Failed loads keep whatever apply last received.
type Refresher struct {
	cron    *cron.Cron
	loader  *Loader
	apply   func(Data) error
	timeout time.Duration
}

// NewRefresher schedules loader on spec (standard five-field cron syntax)
// in loc. Start must be called to begin.
func NewRefresher(spec string, loc *time.Location, loader *Loader, apply func(Data) error) (*Refresher, error) {
	if loc == nil {
		loc = time.Local
	}
	r := &Refresher{
		cron:    cron.New(cron.WithLocation(loc)),
		loader:  loader,
		apply:   apply,
		timeout: 2 * time.Minute,
	}
	if _, err := r.cron.AddFunc(spec, r.tick); err != nil {
		return nil, fmt.Errorf("source: refresh schedule %q: %w", spec, err)
	}
	return r, nil
}

func (r *Refresher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.RunOnce(ctx); err != nil {
		log.Error("refresh failed", err)
	}
}

// RunOnce loads and applies immediately.
func (r *Refresher) RunOnce(ctx context.Context) error {
	d, err := r.loader.Load(ctx)
	if err != nil {
		return err
	}
	if err := r.apply(d); err != nil {
		return fmt.Errorf("source: apply: %w", err)
	}
	log.Debug("refresh applied", "events", len(d.Events), "lines", len(d.Lines))
	return nil
}

func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// Next is the time of the next scheduled refresh.
func (r *Refresher) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
