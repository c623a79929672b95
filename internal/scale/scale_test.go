package scale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventline/internal/config"
	"eventline/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestComputeExtentsEmpty(t *testing.T) {
	ext := ComputeExtents(nil, nil, config.DefaultChart())

	assert.True(t, ext.Empty)
	assert.Zero(t, ext.AxisXWidth)
	assert.Zero(t, ext.Days)
	assert.True(t, ext.AxisXStart.IsZero())
}

func TestComputeExtentsUnionOfEventsAndLines(t *testing.T) {
	style := config.DefaultChart()
	events := []model.Event{
		{Key: "a", Start: date(2024, 3, 5), End: ptr(date(2024, 3, 9))},
		{Key: "b", Start: date(2024, 3, 2)},
	}
	lines := []model.LinePoint{
		{X: date(2024, 3, 12), Y: 10},
		{X: date(2024, 3, 3), Y: 30},
	}

	ext := ComputeExtents(events, lines, style)

	assert.False(t, ext.Empty)
	assert.Equal(t, date(2024, 3, 2), ext.AxisXStart)
	assert.Equal(t, date(2024, 3, 12), ext.AxisXEnd)
	assert.Equal(t, 11, ext.Days)
	assert.Equal(t, 110.0, ext.AxisXWidth)
	assert.Equal(t, 10.0, ext.LineMinValue)
	assert.Equal(t, 30.0, ext.LineMaxValue)
	assert.InDelta(t, 8.0, ext.AxisYMin, 1e-9)
	assert.InDelta(t, 32.0, ext.AxisYMax, 1e-9)
}

func TestComputeExtentsWithoutLinesHasFlatValueAxis(t *testing.T) {
	ext := ComputeExtents([]model.Event{{Start: date(2024, 1, 1)}}, nil, config.DefaultChart())
	assert.Equal(t, 1, ext.Days)
	assert.Zero(t, ext.AxisYMin)
	assert.Zero(t, ext.AxisYMax)
}

func TestPadRangeFlat(t *testing.T) {
	lo, hi := PadRange(5, 5, 0.1)
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = PadRange(100, 100, 0.1)
	assert.Equal(t, 90.0, lo)
	assert.Equal(t, 110.0, hi)
}

func TestDayDiffIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DayDiff(a, b))
	assert.Equal(t, -1, DayDiff(b, a))
	assert.Equal(t, 0, DayDiff(a, a.Add(time.Hour)))
}

func TestDayDiffAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	a := time.Date(2024, 3, 30, 12, 0, 0, 0, loc)
	b := time.Date(2024, 4, 1, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, DayDiff(a, b))
}

func TestDayRange(t *testing.T) {
	days := DayRange(date(2024, 2, 27), date(2024, 3, 2))
	require.Len(t, days, 5)
	assert.Equal(t, date(2024, 2, 29), days[2])
	assert.Nil(t, DayRange(date(2024, 3, 2), date(2024, 3, 1)))
}

func TestDateToXRoundTrip(t *testing.T) {
	start := date(2024, 1, 1)
	x := DateToX(100, start, date(2024, 1, 15), 10)
	assert.Equal(t, 240.0, x)
	assert.Equal(t, date(2024, 1, 15), XToDate(100, start, x, 10))
	assert.Equal(t, date(2024, 1, 15), XToDate(100, start, x+9.9, 10))
}

func TestValueToYRoundTrip(t *testing.T) {
	y := ValueToY(400, 20, 0, 100, 250)
	assert.Equal(t, 350.0, y)
	assert.InDelta(t, 20.0, YToValue(400, y, 0, 100, 250), 1e-9)
	assert.Equal(t, 400.0, ValueToY(400, 5, 5, 5, 250))
}

func TestDashOffsets(t *testing.T) {
	assert.Equal(t, []float64{250, 200, 150, 100, 50}, DashOffsets(6, 50))
	assert.Nil(t, DashOffsets(1, 50))
}

func TestCanvasHeightShrinksWithoutLines(t *testing.T) {
	style := config.DefaultChart()
	with := CanvasHeight(style, 3, true)
	without := CanvasHeight(style, 3, false)

	// 3×40 + 300 + 15 + 24 + 48
	assert.Equal(t, 507.0, with)
	assert.Equal(t, 207.0, without)
	assert.Equal(t, LineHeight(style, true), with-without)
}

func TestPanBounds(t *testing.T) {
	style := config.DefaultChart()
	lo, hi := PanBounds(Extents{AxisXWidth: 1000}, style)
	assert.Equal(t, -100.0, lo)
	assert.Equal(t, 800.0, hi)

	lo, hi = PanBounds(Extents{AxisXWidth: 50}, style)
	assert.Equal(t, -100.0, lo)
	assert.Equal(t, -100.0, hi)
}
