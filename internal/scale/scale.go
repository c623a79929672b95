// Package scale maps chart domain values (calendar days, line values) onto
// pixel offsets and back, and derives the overall canvas extents.
//
// Every function here is pure so layout math can be checked without a
// drawing surface.
package scale

import (
	"math"
	"time"

	"eventline/internal/config"
	"eventline/internal/model"
)

const day = 24 * time.Hour

// Extents is the domain bounding box every piece of geometry is scaled by.
type Extents struct {
	AxisXStart time.Time
	AxisXEnd   time.Time

	LineMinValue float64
	LineMaxValue float64

	// AxisYMin / AxisYMax pad the line value range so the outermost scale
	// labels are not clipped.
	AxisYMin float64
	AxisYMax float64

	// Days is the inclusive number of calendar days between AxisXStart and
	// AxisXEnd; AxisXWidth is Days × scale.space.
	Days       int
	AxisXWidth float64

	// Empty is set when there were neither events nor line points.
	Empty bool
}

// Day truncates t to its calendar date, expressed in UTC so day arithmetic
// never crosses a DST transition.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayDiff counts whole calendar days from `from` to `to`; negative when `to`
// is earlier.
func DayDiff(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)) / day)
}

// DayRange lists every calendar day from start to end inclusive.
func DayRange(start, end time.Time) []time.Time {
	n := DayDiff(start, end)
	if n < 0 {
		return nil
	}
	out := make([]time.Time, 0, n+1)
	first := Day(start)
	for i := 0; i <= n; i++ {
		out = append(out, first.AddDate(0, 0, i))
	}
	return out
}

// ComputeExtents spans the union of all event dates and line x-values.
// With no input at all it returns a zero-width Empty range.
func ComputeExtents(events []model.Event, lines []model.LinePoint, style config.Chart) Extents {
	var ext Extents
	var have bool

	widen := func(t time.Time) {
		if !have {
			ext.AxisXStart, ext.AxisXEnd = t, t
			have = true
			return
		}
		if t.Before(ext.AxisXStart) {
			ext.AxisXStart = t
		}
		if t.After(ext.AxisXEnd) {
			ext.AxisXEnd = t
		}
	}

	for _, ev := range events {
		widen(ev.Start)
		if ev.End != nil {
			widen(*ev.End)
		}
	}
	for i, p := range lines {
		widen(p.X)
		if i == 0 {
			ext.LineMinValue, ext.LineMaxValue = p.Y, p.Y
			continue
		}
		ext.LineMinValue = math.Min(ext.LineMinValue, p.Y)
		ext.LineMaxValue = math.Max(ext.LineMaxValue, p.Y)
	}

	if !have {
		ext.Empty = true
		return ext
	}

	ext.AxisYMin, ext.AxisYMax = PadRange(ext.LineMinValue, ext.LineMaxValue, style.LineStyle.YPaddingRatio)
	if len(lines) == 0 {
		ext.AxisYMin, ext.AxisYMax = 0, 0
	}

	ext.Days = DayDiff(ext.AxisXStart, ext.AxisXEnd) + 1
	ext.AxisXWidth = float64(ext.Days) * style.Scale.Space
	return ext
}

// PadRange widens [lo, hi] by ratio of its span on both sides. A flat range
// is widened by max(|v|×ratio, 1) so it still maps onto a non-zero height.
func PadRange(lo, hi, ratio float64) (float64, float64) {
	span := hi - lo
	pad := span * ratio
	if span == 0 {
		pad = math.Max(math.Abs(hi)*ratio, 1)
	}
	return lo - pad, hi + pad
}

// DateToX places a date on the horizontal axis. origin is the pixel x of
// axisStart's day.
func DateToX(origin float64, axisStart, t time.Time, space float64) float64 {
	return origin + float64(DayDiff(axisStart, t))*space
}

// XToDate is the inverse of DateToX, snapping to the day under x.
func XToDate(origin float64, axisStart time.Time, x, space float64) time.Time {
	if space <= 0 {
		return Day(axisStart)
	}
	days := int(math.Floor((x - origin) / space))
	return Day(axisStart).AddDate(0, 0, days)
}

// ValueToY maps a line value to a pixel y where base is the y of yMin and
// height the pixel distance up to yMax.
func ValueToY(base, v, yMin, yMax, height float64) float64 {
	if yMax == yMin {
		return base
	}
	return base - (v-yMin)/(yMax-yMin)*height
}

// YToValue is the inverse of ValueToY.
func YToValue(base, y, yMin, yMax, height float64) float64 {
	if height == 0 {
		return yMin
	}
	return yMin + (base-y)/height*(yMax-yMin)
}

// DashOffsets returns the y offsets of the dashed scale lines below the top
// of the line chart region: (count-1)·space down to space.
func DashOffsets(count int, space float64) []float64 {
	if count < 2 {
		return nil
	}
	out := make([]float64, 0, count-1)
	for i := 1; i < count; i++ {
		out = append(out, float64(count-i)*space)
	}
	return out
}

// LineHeight is the vertical space reserved for the line chart; zero when
// there are no line points.
func LineHeight(style config.Chart, withLine bool) float64 {
	if !withLine {
		return 0
	}
	return style.LineStyle.YScaleSpace * float64(style.LineStyle.YScaleCount)
}

// PlotHeight is the pixel distance between AxisYMin and AxisYMax, i.e. from
// the line axis up to the topmost dashed scale line.
func PlotHeight(style config.Chart) float64 {
	return style.LineStyle.YScaleSpace * float64(style.LineStyle.YScaleCount-1)
}

// EventsHeight is the height of the stacked user lanes.
func EventsHeight(style config.Chart, userLanes int) float64 {
	return style.EventTypeStyle.Height * float64(userLanes)
}

// CanvasHeight is eventsHeight + lineHeight + axisHeight + top/bottom padding.
func CanvasHeight(style config.Chart, userLanes int, withLine bool) float64 {
	return EventsHeight(style, userLanes) +
		LineHeight(style, withLine) +
		style.Axis.Height +
		style.Padding.Top +
		style.Padding.Bottom
}

// PanBounds returns the allowed pan offset range for the extents. A maximum
// below the minimum collapses onto the minimum.
func PanBounds(ext Extents, style config.Chart) (float64, float64) {
	lo := style.Pan.Min
	hi := ext.AxisXWidth - style.Pan.RightInset
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
