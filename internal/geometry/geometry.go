// Package geometry turns extents, lanes, events and line points into
// pixel-space shapes for one frame at a given pan offset.
//
// Build is pure: the same input always yields the same Scene, so panning by
// Δ and back by −Δ reproduces identical geometry.
package geometry

import (
	"math"
	"sort"
	"strconv"
	"time"

	"eventline/internal/config"
	"eventline/internal/model"
	"eventline/internal/scale"
)

// guideInset lifts the bottom of an active event's guide lines off the axis.
const guideInset = 4

// Input is everything one frame of geometry depends on.
type Input struct {
	Style   config.Chart
	Lanes   model.Lanes
	Events  []model.Event
	Lines   []model.LinePoint
	Extents scale.Extents
	Pan     float64
}

// Layout holds the frame origins shared by all shapes.
type Layout struct {
	Width  float64
	Height float64

	// OriginX is the pixel x of the time axis start before panning; the
	// lane label column sits to its left.
	OriginX float64
	// StartY is the bottom of the stacked user lanes.
	StartY float64
	// EventX / EventY are the panned origins events and line points are
	// placed from.
	EventX float64
	EventY float64

	EventAxisY float64
	LineTop    float64
	LineBase   float64
	PlotHeight float64
	WithLine   bool

	// Plot is the clip region for panned content.
	Plot Rect
}

type Lane struct {
	Type       model.EventType
	Rect       Rect
	Label      string
	LabelRect  Rect
	Background bool
}

// Guide is the pair of dashed connectors from an event down to the axis.
type Guide struct {
	X      float64
	EndX   float64
	HasEnd bool
	Top    float64
	Bottom float64
}

type EventShape struct {
	Index int
	Key   string
	Event model.Event

	Rect Rect
	// Hit is Rect grown by one pixel up and left to ease picking thin bars.
	Hit   Rect
	Guide Guide

	Primary   string
	Secondary string
	TextColor string
}

type Gridline struct {
	Y      float64
	X1, X2 float64
	Value  float64
	Label  string
}

type Axis struct {
	Y      float64
	X1, X2 float64
	// Label is the value at a line chart axis; empty for the event axis.
	Label string
}

type TickLevel int

const (
	TickFirst TickLevel = iota + 1
	TickSecond
	TickThird
)

type Tick struct {
	X      float64
	Y1, Y2 float64
	Level  TickLevel
	Label  string
	Date   time.Time
}

type PointShape struct {
	Index  int
	Key    string
	Point  model.LinePoint
	Center Point
	Hit    Circle
}

type Series struct {
	Key    string
	Color  string
	Points []PointShape
}

// Scene is the complete geometry of one frame.
type Scene struct {
	Layout
	Extents scale.Extents

	Background Lane
	Lanes      []Lane
	Gridlines  []Gridline
	Axes       []Axis
	Ticks      []Tick
	Events     []EventShape
	Series     []Series
}

// LaneY places a lane with sort > 0: offsetY − laneHeight×(laneCount − sort).
func LaneY(offsetY, laneHeight float64, laneCount, sort int) float64 {
	return offsetY - laneHeight*float64(laneCount-sort)
}

// Build lays out one frame.
func Build(in Input) Scene {
	st := in.Style
	withLine := len(in.Lines) > 0
	userLanes := in.Lanes.Count() - 1
	if userLanes < 0 {
		userLanes = 0
	}

	laneW := st.EventTypeStyle.Width
	laneH := st.EventTypeStyle.Height
	lineHeight := scale.LineHeight(st, withLine)

	ly := Layout{
		Width:    st.Width,
		Height:   scale.CanvasHeight(st, userLanes, withLine),
		OriginX:  st.Padding.Left + laneW,
		StartY:   scale.EventsHeight(st, userLanes) + st.Padding.Top,
		WithLine: withLine,
	}
	ly.EventX = ly.OriginX - in.Pan
	ly.EventY = ly.StartY + (laneH-st.EventStyle.Height)/2
	ly.EventAxisY = ly.StartY + st.Axis.Height
	ly.LineTop = ly.EventAxisY
	ly.LineBase = ly.EventAxisY + lineHeight
	ly.PlotHeight = scale.PlotHeight(st)
	ly.Plot = Rect{X: ly.OriginX, Y: 0, W: ly.Width - st.Padding.Right - ly.OriginX, H: ly.Height}

	sc := Scene{Layout: ly, Extents: in.Extents}
	sc.Background, sc.Lanes = buildLanes(in, ly)
	sc.Events = buildEvents(in, ly)
	sc.Axes = buildAxes(in, ly)
	sc.Ticks = buildTicks(in, ly)
	if withLine {
		sc.Gridlines = buildGridlines(in, ly)
		sc.Series = buildSeries(in, ly)
	}
	return sc
}

func buildLanes(in Input, ly Layout) (Lane, []Lane) {
	st := in.Style
	laneW := st.EventTypeStyle.Width
	laneH := st.EventTypeStyle.Height
	count := in.Lanes.Count()

	bgType := in.Lanes.Background()
	bg := Lane{
		Type:       bgType,
		Background: true,
		Rect: Rect{
			X: ly.OriginX - laneW,
			Y: st.Padding.Top,
			W: laneW,
			H: ly.Height - st.Padding.Top,
		},
	}
	if ly.WithLine {
		bg.Label = bgType.Label
		bg.LabelRect = Rect{X: bg.Rect.X, Y: ly.LineTop, W: laneW, H: ly.LineBase - ly.LineTop}
	}

	lanes := make([]Lane, 0, count)
	for _, t := range in.Lanes.All() {
		if t.Sort == model.BackgroundSort {
			continue
		}
		r := Rect{
			X: ly.OriginX - laneW,
			Y: LaneY(ly.StartY, laneH, count, t.Sort),
			W: laneW,
			H: laneH,
		}
		lanes = append(lanes, Lane{Type: t, Rect: r, Label: t.Label, LabelRect: r})
	}
	return bg, lanes
}

func buildEvents(in Input, ly Layout) []EventShape {
	st := in.Style
	es := st.EventStyle
	space := st.Scale.Space
	count := in.Lanes.Count()

	out := make([]EventShape, 0, len(in.Events))
	for i, ev := range in.Events {
		lane, _ := in.Lanes.Resolve(ev.Series)
		primary, secondary := lane.PrimaryColor, lane.SecondaryColor
		if primary == "" {
			primary = es.PrimaryColor
		}
		if secondary == "" {
			secondary = es.SecondaryColor
		}
		textColor := es.TextStyle.Color
		if textColor == "" {
			textColor = primary
		}

		x := scale.DateToX(ly.EventX, in.Extents.AxisXStart, ev.Start, space)
		y := LaneY(ly.EventY, st.EventTypeStyle.Height, count, lane.Sort)

		var durationW float64
		if ev.End != nil {
			durationW = float64(scale.DayDiff(ev.Start, *ev.End)) * space
		}
		w := durationW
		if ev.End == nil || w < es.MinWidth {
			w = es.MinWidth
		}
		h := es.Height

		rect := Rect{X: x, Y: y, W: w, H: h}
		out = append(out, EventShape{
			Index: i,
			Key:   ev.Key,
			Event: ev,
			Rect:  rect,
			Hit:   Rect{X: x - 1, Y: y - 1, W: w + 1, H: h + 1},
			Guide: Guide{
				X:      x,
				EndX:   x + durationW,
				HasEnd: ev.End != nil,
				Top:    y + es.Radius,
				Bottom: ly.EventY + st.Axis.Height - guideInset,
			},
			Primary:   primary,
			Secondary: secondary,
			TextColor: textColor,
		})
	}
	return out
}

func buildAxes(in Input, ly Layout) []Axis {
	x2 := ly.Plot.Right()
	axes := []Axis{{Y: ly.EventAxisY, X1: ly.OriginX, X2: x2}}
	if ly.WithLine {
		axes = append(axes, Axis{
			Y:     ly.LineBase,
			X1:    ly.OriginX,
			X2:    x2,
			Label: FormatValue(in.Extents.AxisYMin),
		})
	}
	return axes
}

func buildTicks(in Input, ly Layout) []Tick {
	if in.Extents.Empty {
		return nil
	}
	sc := in.Style.Scale
	axisYs := []float64{ly.EventAxisY}
	if ly.WithLine {
		axisYs = append(axisYs, ly.LineBase)
	}

	days := scale.DayRange(in.Extents.AxisXStart, in.Extents.AxisXEnd)
	ticks := make([]Tick, 0, len(days)*len(axisYs))
	for i, d := range days {
		x := ly.EventX + float64(i)*sc.Space
		if x < ly.Plot.X-sc.Space || x > ly.Plot.Right()+sc.Space {
			continue
		}

		level, height, label := TickThird, sc.ThirdHeight, ""
		switch {
		case i == 0 || d.Day() == 1:
			level, height, label = TickFirst, sc.FirstHeight, d.Format("2006-01")
		case d.Day()%5 == 0:
			level, height, label = TickSecond, sc.SecondHeight, strconv.Itoa(d.Day())
		}

		for _, ay := range axisYs {
			ticks = append(ticks, Tick{X: x, Y1: ay - height, Y2: ay, Level: level, Label: label, Date: d})
		}
	}
	return ticks
}

func buildGridlines(in Input, ly Layout) []Gridline {
	ls := in.Style.LineStyle
	offsets := scale.DashOffsets(ls.YScaleCount, ls.YScaleSpace)
	out := make([]Gridline, 0, len(offsets))
	for _, off := range offsets {
		y := ly.LineTop + off
		v := scale.YToValue(ly.LineBase, y, in.Extents.AxisYMin, in.Extents.AxisYMax, ly.PlotHeight)
		out = append(out, Gridline{
			Y:     y,
			X1:    ly.OriginX,
			X2:    ly.Plot.Right(),
			Value: v,
			Label: FormatValue(v),
		})
	}
	return out
}

func buildSeries(in Input, ly Layout) []Series {
	ls := in.Style.LineStyle
	space := in.Style.Scale.Space
	ext := in.Extents

	index := make(map[string]int)
	var series []Series
	for i, p := range in.Lines {
		si, ok := index[p.Series]
		if !ok {
			si = len(series)
			index[p.Series] = si
			color := ls.Colors[si%len(ls.Colors)]
			if lane, known := in.Lanes.Resolve(p.Series); known && lane.PrimaryColor != "" {
				color = lane.PrimaryColor
			}
			series = append(series, Series{Key: p.Series, Color: color})
		}

		c := Point{
			X: scale.DateToX(ly.EventX, ext.AxisXStart, p.X, space),
			Y: scale.ValueToY(ly.LineBase, p.Y, ext.AxisYMin, ext.AxisYMax, ly.PlotHeight),
		}
		series[si].Points = append(series[si].Points, PointShape{
			Index:  i,
			Key:    p.Key,
			Point:  p,
			Center: c,
			Hit:    Circle{X: c.X, Y: c.Y, R: ls.HitRadius},
		})
	}

	for i := range series {
		pts := series[i].Points
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].Point.X.Before(pts[b].Point.X) })
	}
	return series
}

// FormatValue renders a scale value with at most two decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
