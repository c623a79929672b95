package render

import (
	"eventline/internal/config"
	"eventline/internal/geometry"
	"eventline/internal/interact"
)

const (
	ellipsis = "…"

	// textPad is the horizontal inset of text inside lane and event boxes.
	textPad = 4

	backgroundTextColor = "#999"
	pointFill           = "#fff"
)

var gridDash = []float64{4, 4}

// Render draws one frame. The order is fixed: background lane, lane labels,
// then (clipped to the plot) gridlines, events, axes with ticks and line
// series, and finally the value labels outside the clip.
func Render(s Surface, sc geometry.Scene, res interact.Resolution, style config.Chart) {
	s.Clear(sc.Width, sc.Height)

	drawLane(s, sc.Background, style, backgroundTextColor)
	for _, l := range sc.Lanes {
		drawLane(s, l, style, "")
	}

	s.PushClip(sc.Plot)
	drawGridlines(s, sc, style)
	drawEvents(s, sc, res, style)
	drawAxes(s, sc, style)
	drawSeries(s, sc, res, style)
	s.PopClip()

	drawValueLabels(s, sc, style)
}

func drawLane(s Surface, l geometry.Lane, style config.Chart, textColor string) {
	s.Rect(l.Rect, 0, Paint{
		Stroke:    l.Type.PrimaryColor,
		Fill:      l.Type.SecondaryColor,
		LineWidth: 1,
	})
	if l.Label == "" {
		return
	}

	ts := style.EventTypeStyle.TextStyle
	st := TextStyle{Color: textColor, Size: ts.Size, Bold: ts.Bold, Align: AlignCenter}
	if st.Color == "" {
		st.Color = firstNonEmpty(ts.Color, l.Type.PrimaryColor, style.Axis.Color)
	}
	if l.Background {
		st.Bold = false
	}
	r := l.LabelRect
	text := Truncate(s, l.Label, r.W-2*textPad, st)
	s.Text(text, r.X+r.W/2, r.Y+r.H/2, st)
}

func drawGridlines(s Surface, sc geometry.Scene, style config.Chart) {
	p := Paint{Stroke: style.LineStyle.GridColor, LineWidth: 1, Dash: gridDash}
	for _, g := range sc.Gridlines {
		s.Line(g.X1, g.Y, g.X2, g.Y, p)
	}
}

func drawEvents(s Surface, sc geometry.Scene, res interact.Resolution, style config.Chart) {
	order := res.Order
	if len(order) != len(sc.Events) {
		order = geometry.PriorityOrder(len(sc.Events), nil)
	}
	for _, i := range order {
		ev := sc.Events[i]
		if res.IsActive(i) {
			drawGuide(s, ev)
		}
		drawEvent(s, ev, style)
	}
}

func drawGuide(s Surface, ev geometry.EventShape) {
	p := Paint{Stroke: ev.Primary, LineWidth: 1, Dash: gridDash}
	g := ev.Guide
	s.Line(g.X, g.Top, g.X, g.Bottom, p)
	if g.HasEnd {
		s.Line(g.EndX, g.Top, g.EndX, g.Bottom, p)
	}
}

func drawEvent(s Surface, ev geometry.EventShape, style config.Chart) {
	es := style.EventStyle
	s.Rect(ev.Rect, es.Radius, Paint{
		Stroke:    ev.Primary,
		Fill:      ev.Secondary,
		LineWidth: es.LineWidth,
	})
	if ev.Event.Title == "" {
		return
	}
	st := TextStyle{Color: ev.TextColor, Size: es.TextStyle.Size, Bold: es.TextStyle.Bold, Align: AlignCenter}
	r := ev.Rect
	text := Truncate(s, ev.Event.Title, r.W-2*textPad, st)
	if text != "" {
		s.Text(text, r.X+r.W/2, r.Y+r.H/2, st)
	}
}

func drawAxes(s Surface, sc geometry.Scene, style config.Chart) {
	ap := Paint{Stroke: style.Axis.Color, LineWidth: style.Scale.LineWidth}
	for _, a := range sc.Axes {
		s.Line(a.X1, a.Y, a.X2, a.Y, ap)
	}

	scl := style.Scale
	for _, t := range sc.Ticks {
		color := scl.ThirdColor
		switch t.Level {
		case geometry.TickFirst:
			color = scl.FirstColor
		case geometry.TickSecond:
			color = scl.SecondColor
		}
		s.Line(t.X, t.Y1, t.X, t.Y2, Paint{Stroke: color, LineWidth: scl.LineWidth})
		if t.Label != "" {
			s.Text(t.Label, t.X, t.Y2+scl.TextSpace+scl.TextSize/2, TextStyle{
				Color: color,
				Size:  scl.TextSize,
				Align: AlignLeft,
			})
		}
	}
}

func drawSeries(s Surface, sc geometry.Scene, res interact.Resolution, style config.Chart) {
	ls := style.LineStyle
	for si, series := range sc.Series {
		pts := make([]geometry.Point, 0, len(series.Points))
		for _, p := range series.Points {
			pts = append(pts, p.Center)
		}
		s.Polyline(pts, Paint{Stroke: series.Color, LineWidth: ls.LineWidth})

		for pi, p := range series.Points {
			hovered := res.HasHoverPoint && res.HoverPoint == interact.PointRef{Series: si, Point: pi}
			if hovered {
				s.Circle(p.Center, ls.PointRadius*2, Paint{Stroke: series.Color, Fill: series.Color, LineWidth: ls.LineWidth})
				continue
			}
			s.Circle(p.Center, ls.PointRadius, Paint{Stroke: series.Color, Fill: pointFill, LineWidth: 1})
		}
	}
}

func drawValueLabels(s Surface, sc geometry.Scene, style config.Chart) {
	st := TextStyle{Color: backgroundTextColor, Size: style.Scale.TextSize, Align: AlignRight}
	x := sc.OriginX - style.Scale.TextSpace
	for _, g := range sc.Gridlines {
		s.Text(g.Label, x, g.Y, st)
	}
	for _, a := range sc.Axes {
		if a.Label != "" {
			s.Text(a.Label, x, a.Y, st)
		}
	}
}

// Truncate shortens text with a trailing ellipsis until it measures at most
// maxWidth. It returns "" when not even the ellipsis fits.
func Truncate(s Surface, text string, maxWidth float64, st TextStyle) string {
	if s.MeasureText(text, st) <= maxWidth {
		return text
	}
	if s.MeasureText(ellipsis, st) > maxWidth {
		return ""
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.MeasureText(string(runes[:mid])+ellipsis, st) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + ellipsis
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}
