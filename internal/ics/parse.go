package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventline/internal/log"
)

// VEvent is one VEVENT reduced to what the timeline needs. Recurrences are
// kept unexpanded; see Expand.
type VEvent struct {
	Feed Feed

	UID         string
	Summary     string
	Description string
	Location    string

	Start time.Time
	// End is nil when the VEVENT has no DTEND.
	End    *time.Time
	AllDay bool

	RRule   string
	ExDates []time.Time
	// RecurrenceID is set on a VEVENT that replaces one instance of a
	// recurring series.
	RecurrenceID *time.Time
}

// IsOverride reports whether the VEVENT replaces a recurring instance.
func (v VEvent) IsOverride() bool {
	return v.RecurrenceID != nil
}

// Parse decodes one ICS payload. VEVENTs that cannot be read (no UID, no
// DTSTART) are logged and skipped.
func Parse(feed Feed, body []byte) ([]VEvent, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("ics: empty body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", feed.ID, err)
	}

	out := make([]VEvent, 0, len(cal.Events()))
	for _, comp := range cal.Events() {
		ev, err := parseVEvent(feed, comp)
		if err != nil {
			log.Warn("ics vevent skipped", "feed", feed.ID, "err", err.Error())
			continue
		}
		out = append(out, ev)
	}

	log.Debug("ics parsed", "feed", feed.ID, "events", len(out))
	return out, nil
}

func parseVEvent(feed Feed, ve *ical.VEvent) (VEvent, error) {
	ev := VEvent{Feed: feed}

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return ev, errors.New("missing UID")
	}
	ev.UID = uid.Value

	ev.Summary = propValue(ve, ical.ComponentPropertySummary)
	ev.Description = propValue(ve, ical.ComponentPropertyDescription)
	ev.Location = propValue(ve, ical.ComponentPropertyLocation)

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return ev, fmt.Errorf("%s: missing DTSTART", ev.UID)
	}
	ev.AllDay = isDateValue(dtStart)

	start, err := ve.GetStartAt()
	if err != nil {
		return ev, fmt.Errorf("%s: DTSTART: %w", ev.UID, err)
	}
	ev.Start = start

	if ve.GetProperty(ical.ComponentPropertyDtEnd) != nil {
		end, err := ve.GetEndAt()
		if err != nil {
			return ev, fmt.Errorf("%s: DTEND: %w", ev.UID, err)
		}
		ev.End = &end
	} else if ev.AllDay {
		// An all-day VEVENT without DTEND lasts one day.
		end := start.AddDate(0, 0, 1)
		ev.End = &end
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.RRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		loc := propLocation(p, start.Location())
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseTime(part, loc); err == nil {
				ev.ExDates = append(ev.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); p != nil {
		t, err := parseTime(p.Value, propLocation(p, start.Location()))
		if err != nil {
			return ev, fmt.Errorf("%s: RECURRENCE-ID: %w", ev.UID, err)
		}
		ev.RecurrenceID = &t
	}

	return ev, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// isDateValue reports a DATE (not DATE-TIME) value, i.e. an all-day event.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// propLocation resolves a TZID parameter, falling back to def.
func propLocation(p *ical.IANAProperty, def *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	if def == nil {
		return time.UTC
	}
	return def
}

// parseTime reads the DATE / DATE-TIME forms used by EXDATE and
// RECURRENCE-ID. Floating times are placed in loc.
func parseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
