package interact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventline/internal/config"
	"eventline/internal/geometry"
	"eventline/internal/model"
	"eventline/internal/scale"
)

func date(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func scene(t *testing.T, m *Machine, lines []model.LinePoint) geometry.Scene {
	t.Helper()
	style := config.DefaultChart()
	lanes, err := model.NewLanes(model.BackgroundLane("Trend"), []model.EventType{
		{Value: "a", Label: "A", Sort: 1},
	})
	require.NoError(t, err)

	end := date(11)
	events := []model.Event{
		{Key: "A", Title: "alpha", Desc: "first", Start: date(1), End: &end, Series: "a"},
		{Key: "B", Title: "beta", Start: date(3), Series: "a"},
		{Key: "C", Title: "gamma", Start: date(20), Series: "a"},
	}
	return geometry.Build(geometry.Input{
		Style:   style,
		Lanes:   lanes,
		Events:  events,
		Lines:   lines,
		Extents: scale.ComputeExtents(events, lines, style),
		Pan:     m.State().Pan,
	})
}

func click(m *Machine, x, y float64) {
	m.Down(x, y)
	m.Up(x, y)
}

func TestHoverOverlapPrefersTopmost(t *testing.T) {
	m := New(-100, 500)
	m.Move(150, 40)
	res := m.Evaluate(scene(t, m, nil))

	assert.Equal(t, []int{0, 1}, res.Hits)
	assert.Equal(t, []int{0, 2, 1}, res.Order)
	st := m.State()
	assert.Equal(t, StatusHover, st.Status)
	assert.Equal(t, TooltipEvent, st.Tooltip.Status)
	assert.Equal(t, "B", st.Tooltip.Payload.Key)
	assert.Equal(t, "beta", st.Tooltip.Payload.Title)
	assert.Equal(t, geometry.Point{X: 150, Y: 40}, st.Tooltip.Payload.Location)
	assert.Empty(t, st.ActiveKey, "hover never activates")
}

func TestClickAThenB(t *testing.T) {
	m := New(-100, 500)

	m.Move(110, 40)
	click(m, 110, 40)
	res := m.Evaluate(scene(t, m, nil))
	assert.Equal(t, StatusClick, m.State().Status)
	assert.Equal(t, "A", res.ActiveKey)
	assert.Equal(t, 0, res.ActiveIndex)
	assert.Equal(t, []int{1, 2, 0}, res.Order)

	// Moving away keeps A active.
	m.Move(300, 40)
	res = m.Evaluate(scene(t, m, nil))
	assert.Equal(t, "A", res.ActiveKey)
	assert.Equal(t, "C", m.State().Tooltip.Payload.Key)
	assert.Equal(t, []int{1, 0, 2}, res.Order)

	click(m, 300, 40)
	res = m.Evaluate(scene(t, m, nil))
	assert.Equal(t, "C", res.ActiveKey)
	assert.True(t, res.IsActive(2))
	assert.False(t, res.IsActive(0))
	assert.Equal(t, []int{0, 1, 2}, res.Order)
}

func TestClickOnEmptySpaceKeepsActive(t *testing.T) {
	m := New(-100, 500)
	click(m, 110, 40)
	m.Evaluate(scene(t, m, nil))
	require.Equal(t, "A", m.State().ActiveKey)

	click(m, 700, 40)
	res := m.Evaluate(scene(t, m, nil))
	assert.Equal(t, "A", res.ActiveKey)
	assert.Empty(t, res.Hits)
}

func TestClickAppliesOnce(t *testing.T) {
	m := New(-100, 500)
	m.Move(295, 40)
	click(m, 295, 40)
	m.Evaluate(scene(t, m, nil))
	require.Equal(t, "C", m.State().ActiveKey)

	// A slides under the pointer without a new press.
	m.PanBy(-100)
	res := m.Evaluate(scene(t, m, nil))
	assert.Equal(t, []int{0}, res.Hits)
	assert.Equal(t, "C", res.ActiveKey)
	assert.Equal(t, StatusClick, m.State().Status)
}

func TestEventsUnderLabelsAreNotHit(t *testing.T) {
	m := New(-100, 500)
	m.SetPan(50)
	// A spans x 50..150 here, half of it behind the lane labels.
	m.Move(60, 40)
	res := m.Evaluate(scene(t, m, nil))
	assert.Empty(t, res.Hits)
	assert.Equal(t, TooltipNothing, m.State().Tooltip.Status)

	click(m, 60, 40)
	m.Evaluate(scene(t, m, nil))
	assert.Empty(t, m.State().ActiveKey)

	m.Move(140, 40)
	res = m.Evaluate(scene(t, m, nil))
	assert.Equal(t, []int{0}, res.Hits)
}

func TestTooltipClearsWhenEntityLeaves(t *testing.T) {
	m := New(-100, 500)
	m.Move(150, 40)
	m.Evaluate(scene(t, m, nil))
	require.Equal(t, TooltipEvent, m.State().Tooltip.Status)

	// Clicking over the shown event keeps the tooltip.
	click(m, 150, 40)
	m.Evaluate(scene(t, m, nil))
	assert.Equal(t, "B", m.State().Tooltip.Payload.Key)

	// Clicking elsewhere clears it even though the status is not hover.
	click(m, 700, 40)
	m.Evaluate(scene(t, m, nil))
	assert.Equal(t, Tooltip{}, m.State().Tooltip)
}

func TestLeave(t *testing.T) {
	m := New(-100, 500)
	m.Move(150, 40)
	m.Evaluate(scene(t, m, nil))

	m.Leave()
	res := m.Evaluate(scene(t, m, nil))
	st := m.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Nil(t, st.Pointer)
	assert.Equal(t, TooltipNothing, st.Tooltip.Status)
	assert.Empty(t, res.Hits)
}

func TestDragPans(t *testing.T) {
	m := New(-100, 500)
	m.Down(400, 40)

	m.Move(402, 41)
	assert.Equal(t, StatusHover, m.State().Status, "inside the dead zone")
	assert.Equal(t, 0.0, m.State().Pan)

	m.Move(350, 40)
	assert.Equal(t, StatusDrag, m.State().Status)
	assert.Equal(t, 50.0, m.State().Pan)

	m.Move(420, 40)
	assert.Equal(t, -20.0, m.State().Pan)

	m.Up(420, 40)
	assert.Equal(t, StatusHover, m.State().Status, "release after drag is not a click")

	m.Evaluate(scene(t, m, nil))
	assert.Empty(t, m.State().ActiveKey)
}

func TestDragClamps(t *testing.T) {
	m := New(-100, 200)
	m.Down(400, 40)
	m.Move(-2000, 40)
	assert.Equal(t, 200.0, m.State().Pan)
	m.Move(4000, 40)
	assert.Equal(t, -100.0, m.State().Pan)
}

func TestPanClamp(t *testing.T) {
	m := New(-100, 300)
	m.PanBy(-1000)
	assert.Equal(t, -100.0, m.State().Pan)
	m.PanBy(10000)
	assert.Equal(t, 300.0, m.State().Pan)

	m.SetBounds(-100, -300)
	lo, hi := m.Bounds()
	assert.Equal(t, -100.0, lo)
	assert.Equal(t, -100.0, hi)
	assert.Equal(t, -100.0, m.State().Pan)
}

func TestEventsFollowPan(t *testing.T) {
	m := New(-100, 500)
	m.SetPan(100)
	// C sits at x=290 unpanned.
	m.Move(290-100+5, 40)
	res := m.Evaluate(scene(t, m, nil))
	assert.Equal(t, []int{2}, res.Hits)
}

func TestLinePointTooltip(t *testing.T) {
	lines := []model.LinePoint{
		{Key: "p1", X: date(1), Y: 10, Series: "cpu"},
		{Key: "p2", X: date(3), Y: 30, Series: "cpu"},
	}
	m := New(-100, 500)
	sc := scene(t, m, lines)
	c := sc.Series[0].Points[1].Center

	m.Move(c.X+1, c.Y+1)
	res := m.Evaluate(sc)
	require.True(t, res.HasHoverPoint)
	assert.Equal(t, PointRef{Series: 0, Point: 1}, res.HoverPoint)

	st := m.State()
	assert.Equal(t, TooltipLine, st.Tooltip.Status)
	assert.Equal(t, "p2", st.Tooltip.Payload.Key)
	assert.Equal(t, "2024-03-03", st.Tooltip.Payload.Title)
	assert.Equal(t, "30", st.Tooltip.Payload.Desc)
	assert.Equal(t, c, st.Tooltip.Payload.PointLocation)
	assert.True(t, st.Tooltip.Payload.HasPointLocation)
	assert.Equal(t, GuideLine{Top: sc.LineTop, Height: 300}, st.Tooltip.Payload.GuideLine)

	m.Move(c.X+30, c.Y+30)
	res = m.Evaluate(sc)
	assert.False(t, res.HasHoverPoint)
	st = m.State()
	assert.Equal(t, TooltipNothing, st.Tooltip.Status)
	assert.True(t, st.HasPointLocation, "last hit point is remembered")
	assert.Equal(t, c, st.PointLocation)
}

func TestStateIsACopy(t *testing.T) {
	m := New(-100, 500)
	m.Move(1, 2)
	st := m.State()
	st.Pointer.X = 99
	assert.Equal(t, 1.0, m.State().Pointer.X)
}
