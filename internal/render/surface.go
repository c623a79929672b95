// Package render draws a geometry.Scene onto a Surface in a fixed z-order.
package render

import (
	"eventline/internal/geometry"
)

// Paint describes how a shape is stroked and filled. An empty color skips
// that part; a nil Dash draws solid lines.
type Paint struct {
	Stroke    string
	Fill      string
	LineWidth float64
	Dash      []float64
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle places text horizontally by Align relative to x; y is always the
// vertical middle of the text.
type TextStyle struct {
	Color string
	Size  float64
	Bold  bool
	Align Align
}

// Surface is a 2D drawing target. Implementations only have to honor the
// primitives below; all layout happens before they are called.
type Surface interface {
	// Clear starts a new, empty frame of the given size.
	Clear(width, height float64)
	Size() (width, height float64)

	Rect(r geometry.Rect, radius float64, p Paint)
	Line(x1, y1, x2, y2 float64, p Paint)
	Polyline(pts []geometry.Point, p Paint)
	Circle(c geometry.Point, r float64, p Paint)

	Text(s string, x, y float64, st TextStyle)
	MeasureText(s string, st TextStyle) float64

	// PushClip restricts drawing to r until the matching PopClip.
	PushClip(r geometry.Rect)
	PopClip()
}
