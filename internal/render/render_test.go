package render

import (
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventline/internal/config"
	"eventline/internal/geometry"
	"eventline/internal/interact"
	"eventline/internal/model"
	"eventline/internal/scale"
)

type op struct {
	kind   string
	rect   geometry.Rect
	radius float64
	paint  Paint
	text   string
	x, y   float64
	x2, y2 float64
}

// recorder is a Surface that remembers every call.
type recorder struct {
	w, h float64
	ops  []op
}

func (r *recorder) Clear(w, h float64) {
	r.w, r.h = w, h
	r.ops = append(r.ops, op{kind: "clear"})
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }

func (r *recorder) Rect(rect geometry.Rect, radius float64, p Paint) {
	r.ops = append(r.ops, op{kind: "rect", rect: rect, radius: radius, paint: p})
}

func (r *recorder) Line(x1, y1, x2, y2 float64, p Paint) {
	r.ops = append(r.ops, op{kind: "line", x: x1, y: y1, x2: x2, y2: y2, paint: p})
}

func (r *recorder) Polyline(pts []geometry.Point, p Paint) {
	r.ops = append(r.ops, op{kind: "polyline", paint: p, text: fmt.Sprint(len(pts))})
}

func (r *recorder) Circle(c geometry.Point, radius float64, p Paint) {
	r.ops = append(r.ops, op{kind: "circle", x: c.X, y: c.Y, radius: radius, paint: p})
}

func (r *recorder) Text(s string, x, y float64, st TextStyle) {
	r.ops = append(r.ops, op{kind: "text", text: s, x: x, y: y, paint: Paint{Fill: st.Color}})
}

func (r *recorder) MeasureText(s string, st TextStyle) float64 {
	return float64(utf8.RuneCountInString(s)) * st.Size * 0.6
}

func (r *recorder) PushClip(rect geometry.Rect) {
	r.ops = append(r.ops, op{kind: "push", rect: rect})
}

func (r *recorder) PopClip() {
	r.ops = append(r.ops, op{kind: "pop"})
}

func (r *recorder) index(pred func(op) bool) int {
	for i, o := range r.ops {
		if pred(o) {
			return i
		}
	}
	return -1
}

func (r *recorder) lastIndex(pred func(op) bool) int {
	for i := len(r.ops) - 1; i >= 0; i-- {
		if pred(r.ops[i]) {
			return i
		}
	}
	return -1
}

func date(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	style config.Chart
	scene geometry.Scene
}

func newFixture(t *testing.T, lines []model.LinePoint) fixture {
	t.Helper()
	style := config.DefaultChart()
	lanes, err := model.NewLanes(model.BackgroundLane("Trend"), []model.EventType{
		{Value: "a", Label: "Alpha", Sort: 1, PrimaryColor: "#a00", SecondaryColor: "#fee"},
		{Value: "b", Label: "Beta", Sort: 2, PrimaryColor: "#0a0", SecondaryColor: "#efe"},
	})
	require.NoError(t, err)

	end := date(11)
	events := []model.Event{
		{Key: "A", Title: "A title that is far too long for its box", Start: date(1), End: &end, Series: "a"},
		{Key: "B", Title: "B", Start: date(3), Series: "b"},
		{Key: "C", Title: "C", Start: date(20), Series: "a"},
	}
	sc := geometry.Build(geometry.Input{
		Style:   style,
		Lanes:   lanes,
		Events:  events,
		Lines:   lines,
		Extents: scale.ComputeExtents(events, lines, style),
	})
	return fixture{style: style, scene: sc}
}

func isEventRect(key string, sc geometry.Scene) func(op) bool {
	var r geometry.Rect
	for _, e := range sc.Events {
		if e.Key == key {
			r = e.Rect
		}
	}
	return func(o op) bool { return o.kind == "rect" && o.rect == r }
}

func TestRenderZOrder(t *testing.T) {
	lines := []model.LinePoint{
		{Key: "p1", X: date(2), Y: 1, Series: "cpu"},
		{Key: "p2", X: date(4), Y: 3, Series: "cpu"},
	}
	f := newFixture(t, lines)
	rec := &recorder{}
	Render(rec, f.scene, interact.Resolution{Order: []int{0, 1, 2}, ActiveIndex: -1}, f.style)

	require.NotEmpty(t, rec.ops)
	assert.Equal(t, "clear", rec.ops[0].kind)
	w, h := rec.Size()
	assert.Equal(t, f.scene.Width, w)
	assert.Equal(t, f.scene.Height, h)

	bg := rec.index(func(o op) bool { return o.kind == "rect" && o.rect == f.scene.Background.Rect })
	lane := rec.index(func(o op) bool { return o.kind == "rect" && o.rect == f.scene.Lanes[0].Rect })
	push := rec.index(func(o op) bool { return o.kind == "push" })
	grid := rec.index(func(o op) bool { return o.kind == "line" && len(o.paint.Dash) > 0 })
	firstEvent := rec.index(isEventRect("A", f.scene))
	axis := rec.index(func(o op) bool { return o.kind == "line" && o.paint.Stroke == f.style.Axis.Color })
	poly := rec.index(func(o op) bool { return o.kind == "polyline" })
	pop := rec.index(func(o op) bool { return o.kind == "pop" })
	valueLabel := rec.lastIndex(func(o op) bool { return o.kind == "text" && o.text == f.scene.Gridlines[0].Label })

	order := []int{0, bg, lane, push, grid, firstEvent, axis, poly, pop, valueLabel}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i], "step %d out of order: %v", i, order)
	}
	assert.Equal(t, f.scene.Plot, rec.ops[push].rect)
}

func TestRenderActiveEventLastWithGuides(t *testing.T) {
	f := newFixture(t, nil)
	rec := &recorder{}
	res := interact.Resolution{
		Order:       geometry.PriorityOrder(3, []int{0}),
		ActiveIndex: 0,
		ActiveKey:   "A",
	}
	Render(rec, f.scene, res, f.style)

	a := rec.index(isEventRect("A", f.scene))
	b := rec.index(isEventRect("B", f.scene))
	c := rec.index(isEventRect("C", f.scene))
	assert.Less(t, b, a)
	assert.Less(t, c, a)

	ev := f.scene.Events[0]
	guides := 0
	for _, o := range rec.ops[:a] {
		if o.kind == "line" && o.paint.Stroke == ev.Primary && o.y == ev.Guide.Top && o.y2 == ev.Guide.Bottom {
			guides++
		}
	}
	assert.Equal(t, 2, guides, "start and end guide")
}

func TestRenderOpenEndedActiveHasSingleGuide(t *testing.T) {
	f := newFixture(t, nil)
	rec := &recorder{}
	Render(rec, f.scene, interact.Resolution{
		Order:       geometry.PriorityOrder(3, []int{1}),
		ActiveIndex: 1,
	}, f.style)

	ev := f.scene.Events[1]
	guides := 0
	for _, o := range rec.ops {
		if o.kind == "line" && o.paint.Stroke == ev.Primary && o.y == ev.Guide.Top {
			guides++
		}
	}
	assert.Equal(t, 1, guides)
}

func TestRenderNoGuidesWithoutActive(t *testing.T) {
	f := newFixture(t, nil)
	rec := &recorder{}
	Render(rec, f.scene, interact.Resolution{ActiveIndex: -1}, f.style)

	for _, o := range rec.ops {
		if o.kind == "line" {
			assert.NotEqual(t, f.scene.Events[0].Guide.Top, o.y)
		}
	}
	// A missing order falls back to input order.
	assert.Less(t, rec.index(isEventRect("A", f.scene)), rec.index(isEventRect("C", f.scene)))
}

func TestRenderHoveredPointEnlarged(t *testing.T) {
	lines := []model.LinePoint{
		{Key: "p1", X: date(2), Y: 1, Series: "cpu"},
		{Key: "p2", X: date(4), Y: 3, Series: "cpu"},
	}
	f := newFixture(t, lines)
	rec := &recorder{}
	Render(rec, f.scene, interact.Resolution{
		ActiveIndex:   -1,
		HoverPoint:    interact.PointRef{Series: 0, Point: 1},
		HasHoverPoint: true,
	}, f.style)

	var radii []float64
	for _, o := range rec.ops {
		if o.kind == "circle" {
			radii = append(radii, o.radius)
		}
	}
	r := f.style.LineStyle.PointRadius
	assert.Equal(t, []float64{r, 2 * r}, radii)
}

func TestRenderTruncatesEventTitle(t *testing.T) {
	f := newFixture(t, nil)
	rec := &recorder{}
	Render(rec, f.scene, interact.Resolution{ActiveIndex: -1}, f.style)

	ev := f.scene.Events[0]
	i := rec.index(isEventRect("A", f.scene))
	require.GreaterOrEqual(t, i, 0)
	text := rec.ops[i+1]
	require.Equal(t, "text", text.kind)
	assert.NotEqual(t, ev.Event.Title, text.text)
	assert.Contains(t, text.text, ellipsis)
	st := TextStyle{Size: f.style.EventStyle.TextStyle.Size}
	assert.LessOrEqual(t, rec.MeasureText(text.text, st), ev.Rect.W-2*textPad)
	assert.Equal(t, "#a00", text.paint.Fill, "text takes the lane color")
}

func TestTruncate(t *testing.T) {
	rec := &recorder{}
	st := TextStyle{Size: 10}

	assert.Equal(t, "short", Truncate(rec, "short", 100, st))
	assert.Equal(t, "abc…", Truncate(rec, "abcdefgh", 24, st))
	assert.Equal(t, "…", Truncate(rec, "abcdefgh", 6, st))
	assert.Equal(t, "", Truncate(rec, "abcdefgh", 5, st))
}
