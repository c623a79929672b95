package ics

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"eventline/internal/log"
	"eventline/internal/model"
)

const defaultMaxPerEvent = 5000

// Window bounds an expansion. Location is the display timezone every
// instance is converted to; nil means time.Local.
type Window struct {
	Start    time.Time
	End      time.Time
	Location *time.Location

	// MaxPerEvent caps the instances of a single recurring series.
	MaxPerEvent int
}

// Expansion is the outcome of Expand.
type Expansion struct {
	Events []model.Event
	// Truncated lists the UIDs whose series hit MaxPerEvent.
	Truncated []string
}

// Expand turns parsed VEVENTs into timeline events inside w. RRULE series
// are unrolled with EXDATEs removed and RECURRENCE-ID overrides applied.
// Events come back ordered by start, then key.
func Expand(vevents []VEvent, w Window) (Expansion, error) {
	var res Expansion
	if w.End.Before(w.Start) {
		return res, errors.New("ics: window ends before it starts")
	}
	if w.Location == nil {
		w.Location = time.Local
	}
	if w.MaxPerEvent <= 0 {
		w.MaxPerEvent = defaultMaxPerEvent
	}

	bases := make(map[string][]VEvent)
	overrides := make(map[string][]VEvent)
	var uids []string
	for _, v := range vevents {
		if v.IsOverride() {
			overrides[v.UID] = append(overrides[v.UID], v)
			continue
		}
		if _, seen := bases[v.UID]; !seen {
			uids = append(uids, v.UID)
		}
		bases[v.UID] = append(bases[v.UID], v)
	}

	for _, uid := range uids {
		for _, base := range bases[uid] {
			var evs []model.Event
			var capped bool
			if base.RRule == "" {
				evs = expandSingle(base, overrides[uid], w)
			} else {
				evs, capped = expandSeries(base, overrides[uid], w)
			}
			res.Events = append(res.Events, evs...)
			if capped {
				res.Truncated = append(res.Truncated, uid)
				log.Warn("ics series truncated", "uid", uid, "cap", w.MaxPerEvent)
			}
		}
	}

	sort.SliceStable(res.Events, func(i, j int) bool {
		a, b := res.Events[i], res.Events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.Key < b.Key
	})
	return res, nil
}

func expandSingle(v VEvent, overrides []VEvent, w Window) []model.Event {
	if o, ok := findOverride(overrides, v.Start); ok {
		v = o
	}
	if !overlaps(v.Start, v.End, w) {
		return nil
	}
	return []model.Event{toEvent(v, v.Start, v.End, v.UID, w.Location)}
}

func expandSeries(v VEvent, overrides []VEvent, w Window) ([]model.Event, bool) {
	r, err := rrule.StrToRRule(v.RRule)
	if err != nil {
		log.Error("ics rrule parse failed", err, "uid", v.UID, "rrule", v.RRule)
		return nil, false
	}
	r.DTStart(v.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range v.ExDates {
		set.ExDate(ex.In(v.Start.Location()))
	}

	loc := v.Start.Location()
	starts := set.Between(w.Start.In(loc), w.End.In(loc), true)
	capped := false
	if len(starts) > w.MaxPerEvent {
		starts = starts[:w.MaxPerEvent]
		capped = true
	}

	var dur time.Duration
	if v.End != nil {
		dur = v.End.Sub(v.Start)
	}

	out := make([]model.Event, 0, len(starts))
	for _, s := range starts {
		key := v.UID + "@" + s.UTC().Format(time.RFC3339)
		inst := v
		start := s
		var end *time.Time
		if v.End != nil {
			e := s.Add(dur)
			end = &e
		}
		if o, ok := findOverride(overrides, s); ok {
			inst = o
			start = o.Start
			end = o.End
		}
		out = append(out, toEvent(inst, start, end, key, w.Location))
	}
	return out, capped
}

func findOverride(overrides []VEvent, start time.Time) (VEvent, bool) {
	for _, o := range overrides {
		if o.RecurrenceID != nil && o.RecurrenceID.Equal(start) {
			return o, true
		}
	}
	return VEvent{}, false
}

func overlaps(start time.Time, end *time.Time, w Window) bool {
	last := start
	if end != nil {
		last = *end
	}
	return !last.Before(w.Start) && !start.After(w.End)
}

// toEvent places an instance in the display timezone. All-day instances keep
// their calendar date instead of shifting with the zone offset.
func toEvent(v VEvent, start time.Time, end *time.Time, key string, loc *time.Location) model.Event {
	ev := model.Event{
		Key:    key,
		Title:  v.Summary,
		Desc:   v.Description,
		Series: v.Feed.ID,
	}
	if ev.Desc == "" {
		ev.Desc = v.Location
	}

	convert := func(t time.Time) time.Time {
		if v.AllDay {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc)
		}
		return t.In(loc)
	}
	ev.Start = convert(start)
	if end != nil {
		e := convert(*end)
		ev.End = &e
	}
	return ev
}
