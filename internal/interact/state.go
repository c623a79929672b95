// Package interact tracks pointer input over a chart: pan offset, pointer
// status, the sticky active event and the tooltip signal.
package interact

import (
	"eventline/internal/geometry"
)

// DragThreshold is how far, in pixels, the pointer has to travel with the
// button held before the gesture counts as a drag instead of a click.
const DragThreshold = 4

type Status int

const (
	StatusIdle Status = iota
	StatusHover
	StatusClick
	StatusDrag
)

func (s Status) String() string {
	switch s {
	case StatusHover:
		return "hover"
	case StatusClick:
		return "click"
	case StatusDrag:
		return "drag"
	default:
		return "idle"
	}
}

type TooltipStatus int

const (
	TooltipNothing TooltipStatus = iota
	TooltipEvent
	TooltipLine
)

func (s TooltipStatus) String() string {
	switch s {
	case TooltipEvent:
		return "event"
	case TooltipLine:
		return "line"
	default:
		return "nothing"
	}
}

// GuideLine is the vertical extent of the line chart region, for tooltip
// renderers that draw a crosshair through the hovered point.
type GuideLine struct {
	Top    float64
	Height float64
}

// Payload is what a tooltip renderer needs to present the hovered entity.
type Payload struct {
	// Key is the event key or line point key.
	Key string
	// Location is the pointer position that produced the tooltip.
	Location geometry.Point
	// PointLocation is the center of the last hit line point, if any.
	PointLocation    geometry.Point
	HasPointLocation bool

	Title string
	Desc  string

	GuideLine GuideLine
}

// Tooltip is the tooltip signal. Payload is zero when Status is
// TooltipNothing.
type Tooltip struct {
	Status  TooltipStatus
	Payload Payload
}

// State is a snapshot of everything the interaction machine tracks.
type State struct {
	Pan float64
	// Pointer is nil while the pointer is outside the chart.
	Pointer   *geometry.Point
	Status    Status
	ActiveKey string
	Tooltip   Tooltip

	PointLocation    geometry.Point
	HasPointLocation bool
}

// PointRef addresses one point of one line series in a Scene.
type PointRef struct {
	Series int
	Point  int
}

// Resolution is the outcome of hit-testing a scene against the current
// pointer.
type Resolution struct {
	// Order is the event draw order; prioritized events come last.
	Order []int
	// Hits are the indexes of events under the pointer, in input order.
	Hits []int

	ActiveKey   string
	ActiveIndex int

	HoverPoint    PointRef
	HasHoverPoint bool
}

// IsActive reports whether event index i is the active event.
func (r Resolution) IsActive(i int) bool {
	return r.ActiveIndex >= 0 && r.ActiveIndex == i
}
