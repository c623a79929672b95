package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"eventline/internal/config"
)

// Record is a raw event or line row as handed in by a host. Fields are read
// through config.FieldNames.
type Record map[string]any

// String returns the field as text, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102",
	"2006/01/02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTime accepts time.Time, the layouts above, or unix milliseconds.
func ParseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("empty date")
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("empty date")
		}
		return *t, nil
	case int:
		return time.UnixMilli(int64(t)).UTC(), nil
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, fmt.Errorf("empty date")
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// ParseFloat accepts any numeric kind or a numeric string.
func ParseFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, err
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}

// DecodeEvents maps records to events. Records without a usable start date
// are skipped and reported; a missing or unparsable end makes the event
// open-ended.
func DecodeEvents(records []Record, f config.FieldNames) ([]Event, []error) {
	events := make([]Event, 0, len(records))
	var errs []error

	for i, r := range records {
		start, err := ParseTime(r[f.EventStart])
		if err != nil {
			errs = append(errs, fmt.Errorf("event %d: start: %w", i, err))
			continue
		}

		ev := Event{
			Key:    r.String(f.EventUnique),
			Title:  r.String(f.EventTitle),
			Desc:   r.String(f.EventDesc),
			Start:  start,
			Series: r.String(f.EventSeries),
		}
		if ev.Key == "" {
			ev.Key = SyntheticKey(i)
		}
		if raw, ok := r[f.EventEnd]; ok && raw != nil {
			if end, err := ParseTime(raw); err == nil {
				ev.End = &end
			}
		}
		events = append(events, ev)
	}

	return events, errs
}

// DecodeLines maps records to line points. Records missing x or with a
// non-finite y are skipped and reported.
func DecodeLines(records []Record, f config.FieldNames) ([]LinePoint, []error) {
	points := make([]LinePoint, 0, len(records))
	var errs []error

	for i, r := range records {
		x, err := ParseTime(r[f.LineX])
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: x: %w", i, err))
			continue
		}
		y, err := ParseFloat(r[f.LineY])
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: y: %w", i, err))
			continue
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			errs = append(errs, fmt.Errorf("line %d: y is not finite", i))
			continue
		}

		p := LinePoint{
			Key:    r.String(f.LineUnique),
			X:      x,
			Y:      y,
			Series: r.String(f.LineSeries),
		}
		if p.Key == "" {
			p.Key = fmt.Sprintf("line_%d", i)
		}
		points = append(points, p)
	}

	return points, errs
}
