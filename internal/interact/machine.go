package interact

import (
	"math"
	"sort"
	"time"

	"eventline/internal/geometry"
)

// Machine is the pointer state machine of one chart. It is not safe for
// concurrent use; hosts serialize input.
type Machine struct {
	st State

	minPan, maxPan float64

	pressed   bool
	dragging  bool
	clicked   bool
	downX     float64
	downY     float64
	panAtDown float64
}

// New returns an idle machine with pan 0 clamped into [minPan, maxPan].
func New(minPan, maxPan float64) *Machine {
	m := &Machine{}
	m.SetBounds(minPan, maxPan)
	return m
}

// SetBounds replaces the pan range and re-clamps the current pan. A maximum
// below the minimum collapses onto the minimum.
func (m *Machine) SetBounds(minPan, maxPan float64) {
	if maxPan < minPan {
		maxPan = minPan
	}
	m.minPan, m.maxPan = minPan, maxPan
	m.st.Pan = m.clamp(m.st.Pan)
}

func (m *Machine) Bounds() (float64, float64) {
	return m.minPan, m.maxPan
}

func (m *Machine) clamp(p float64) float64 {
	return math.Max(m.minPan, math.Min(m.maxPan, p))
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	st := m.st
	if st.Pointer != nil {
		p := *st.Pointer
		st.Pointer = &p
	}
	return st
}

func (m *Machine) setPointer(x, y float64) {
	m.st.Pointer = &geometry.Point{X: x, Y: y}
}

// Move tracks the pointer. With the button held and the pointer past the
// drag threshold it pans the chart.
func (m *Machine) Move(x, y float64) {
	m.setPointer(x, y)
	if !m.pressed {
		m.st.Status = StatusHover
		return
	}
	if !m.dragging && math.Hypot(x-m.downX, y-m.downY) > DragThreshold {
		m.dragging = true
	}
	if m.dragging {
		m.st.Status = StatusDrag
		m.st.Pan = m.clamp(m.panAtDown - (x - m.downX))
		return
	}
	m.st.Status = StatusHover
}

// Down records a button press.
func (m *Machine) Down(x, y float64) {
	m.setPointer(x, y)
	m.pressed = true
	m.dragging = false
	m.clicked = false
	m.downX, m.downY = x, y
	m.panAtDown = m.st.Pan
	if m.st.Status == StatusIdle {
		m.st.Status = StatusHover
	}
}

// Up ends a press: a drag settles into hover, anything else is a click.
// The click is applied by the next Evaluate only.
func (m *Machine) Up(x, y float64) {
	m.setPointer(x, y)
	if m.pressed && m.dragging {
		m.st.Status = StatusHover
	} else {
		m.st.Status = StatusClick
		m.clicked = true
	}
	m.pressed = false
	m.dragging = false
}

// Leave forgets the pointer and cancels any press in progress.
func (m *Machine) Leave() {
	m.st.Pointer = nil
	m.st.Status = StatusIdle
	m.pressed = false
	m.dragging = false
	m.clicked = false
}

// PanBy shifts the pan offset by dx, e.g. from a wheel or keyboard.
func (m *Machine) PanBy(dx float64) {
	m.st.Pan = m.clamp(m.st.Pan + dx)
}

// SetPan moves to an absolute pan offset, clamped.
func (m *Machine) SetPan(p float64) {
	m.st.Pan = m.clamp(p)
}

// Evaluate hit-tests sc against the pointer, updates the tooltip and the
// active event, and returns the event draw order for the frame.
//
// sc must have been built at the machine's current pan.
func (m *Machine) Evaluate(sc geometry.Scene) Resolution {
	res := Resolution{ActiveIndex: -1}

	var eventHits []int
	var pointHit geometry.PointShape
	var havePoint bool

	if ptr := m.st.Pointer; ptr != nil {
		// Events scrolled under the lane labels are hidden.
		inPlot := sc.Plot.Contains(ptr.X, ptr.Y)
		for i, ev := range sc.Events {
			if inPlot && ev.Hit.Contains(ptr.X, ptr.Y) {
				eventHits = append(eventHits, i)
			}
		}

		best := math.Inf(1)
		for si, s := range sc.Series {
			for pi, p := range s.Points {
				if !p.Hit.Contains(ptr.X, ptr.Y) {
					continue
				}
				if d := p.Hit.Distance(ptr.X, ptr.Y); d < best {
					best = d
					pointHit = p
					havePoint = true
					res.HoverPoint = PointRef{Series: si, Point: pi}
					res.HasHoverPoint = true
				}
			}
		}
	}
	res.Hits = eventHits

	if havePoint {
		m.st.PointLocation = pointHit.Center
		m.st.HasPointLocation = true
	}

	m.updateTooltip(sc, eventHits, pointHit, havePoint)

	if m.clicked {
		if len(eventHits) > 0 {
			m.st.ActiveKey = sc.Events[eventHits[len(eventHits)-1]].Key
		}
		m.clicked = false
	}

	candidates := append([]int(nil), eventHits...)
	if m.st.ActiveKey != "" {
		for i, ev := range sc.Events {
			if ev.Key == m.st.ActiveKey {
				res.ActiveIndex = i
				candidates = append(candidates, i)
				break
			}
		}
	}
	sort.Ints(candidates)
	res.Order = geometry.PriorityOrder(len(sc.Events), candidates)
	res.ActiveKey = m.st.ActiveKey
	return res
}

func (m *Machine) updateTooltip(sc geometry.Scene, eventHits []int, point geometry.PointShape, havePoint bool) {
	tt := m.st.Tooltip

	// The shown entity went away from under the pointer.
	switch tt.Status {
	case TooltipEvent:
		still := false
		for _, i := range eventHits {
			if sc.Events[i].Key == tt.Payload.Key {
				still = true
				break
			}
		}
		if !still {
			tt = Tooltip{}
		}
	case TooltipLine:
		if !havePoint || point.Key != tt.Payload.Key {
			tt = Tooltip{}
		}
	}

	if m.st.Status == StatusHover && m.st.Pointer != nil {
		guide := GuideLine{Top: sc.LineTop, Height: sc.LineBase - sc.LineTop}
		switch {
		case len(eventHits) > 0:
			ev := sc.Events[eventHits[len(eventHits)-1]]
			tt = Tooltip{Status: TooltipEvent, Payload: Payload{
				Key:       ev.Key,
				Title:     ev.Event.Title,
				Desc:      ev.Event.Desc,
				GuideLine: guide,
			}}
		case havePoint:
			tt = Tooltip{Status: TooltipLine, Payload: Payload{
				Key:       point.Key,
				Title:     point.Point.X.Format(time.DateOnly),
				Desc:      geometry.FormatValue(point.Point.Y),
				GuideLine: guide,
			}}
		}
	}

	if tt.Status != TooltipNothing {
		if m.st.Pointer != nil {
			tt.Payload.Location = *m.st.Pointer
		}
		tt.Payload.PointLocation = m.st.PointLocation
		tt.Payload.HasPointLocation = m.st.HasPointLocation
	}
	m.st.Tooltip = tt
}
