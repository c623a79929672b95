// Package chart ties data, geometry, interaction and rendering together for
// one event line chart drawn onto a render.Surface.
package chart

import (
	"errors"
	"fmt"

	"eventline/internal/config"
	"eventline/internal/geometry"
	"eventline/internal/interact"
	"eventline/internal/log"
	"eventline/internal/model"
	"eventline/internal/render"
	"eventline/internal/scale"
)

var ErrNoSurface = errors.New("chart: no drawing surface")

type Option func(*Chart)

// WithPan sets the initial pan offset; it is clamped like any other pan.
func WithPan(p float64) Option {
	return func(c *Chart) { c.initialPan = p }
}

// frameKey is the interaction state a frame depends on.
type frameKey struct {
	pan        float64
	hasPointer bool
	pointer    geometry.Point
	status     interact.Status
	activeKey  string
}

// Chart is a single chart instance. It is synchronous and not safe for
// concurrent use.
type Chart struct {
	surface render.Surface
	style   config.Chart

	lanes  model.Lanes
	events []model.Event
	lines  []model.LinePoint
	ext    scale.Extents

	m     *interact.Machine
	scene geometry.Scene
	res   interact.Resolution

	initialPan float64
	frames     int
	last       frameKey
	drawn      bool

	tooltip   interact.Tooltip
	listeners []func(interact.Tooltip)
}

// New validates the inputs, lays out the first frame and draws it.
// eventTypes are the user lanes (sort 1..N); the background lane is added
// from style.LineTitle.
func New(s render.Surface, style config.Chart, eventTypes []model.EventType, events []model.Event, lines []model.LinePoint, opts ...Option) (*Chart, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	style.Normalize()

	c := &Chart{surface: s, style: style}
	for _, o := range opts {
		o(c)
	}
	if err := c.load(eventTypes, events, lines); err != nil {
		return nil, err
	}
	c.m = interact.New(scale.PanBounds(c.ext, c.style))
	c.m.SetPan(c.initialPan)

	log.Debug("chart created",
		"lanes", c.lanes.Count(),
		"events", len(events),
		"lines", len(lines),
		"days", c.ext.Days,
	)
	c.redraw()
	return c, nil
}

func (c *Chart) load(eventTypes []model.EventType, events []model.Event, lines []model.LinePoint) error {
	lanes, err := model.NewLanes(model.BackgroundLane(c.style.LineTitle), eventTypes)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	c.lanes = lanes
	c.events = events
	c.lines = lines
	c.ext = scale.ComputeExtents(events, lines, c.style)
	return nil
}

// SetData replaces lanes, events and lines. Interaction state is kept and
// the pan offset is clamped into the new range.
func (c *Chart) SetData(eventTypes []model.EventType, events []model.Event, lines []model.LinePoint) error {
	if err := c.load(eventTypes, events, lines); err != nil {
		return err
	}
	c.m.SetBounds(scale.PanBounds(c.ext, c.style))
	c.redraw()
	return nil
}

// SetWidth changes the canvas width, e.g. when the host container resizes.
func (c *Chart) SetWidth(w float64) {
	if w <= 0 || w == c.style.Width {
		return
	}
	c.style.Width = w
	c.redraw()
}

func (c *Chart) PointerMove(x, y float64) {
	c.m.Move(x, y)
	c.update()
}

func (c *Chart) PointerDown(x, y float64) {
	c.m.Down(x, y)
	c.update()
}

func (c *Chart) PointerUp(x, y float64) {
	c.m.Up(x, y)
	c.update()
}

func (c *Chart) PointerLeave() {
	c.m.Leave()
	c.update()
}

// PanBy shifts the view by dx pixels.
func (c *Chart) PanBy(dx float64) {
	c.m.PanBy(dx)
	c.update()
}

func (c *Chart) SetPan(p float64) {
	c.m.SetPan(p)
	c.update()
}

// OnTooltip registers fn to be called whenever the tooltip signal changes.
func (c *Chart) OnTooltip(fn func(interact.Tooltip)) {
	c.listeners = append(c.listeners, fn)
}

// Redraw draws a frame regardless of whether anything changed.
func (c *Chart) Redraw() {
	c.redraw()
}

func (c *Chart) update() {
	if c.drawn && c.key() == c.last {
		return
	}
	c.redraw()
}

func (c *Chart) key() frameKey {
	st := c.m.State()
	k := frameKey{pan: st.Pan, status: st.Status, activeKey: st.ActiveKey}
	if st.Pointer != nil {
		k.hasPointer = true
		k.pointer = *st.Pointer
	}
	return k
}

func (c *Chart) redraw() {
	before := c.m.State().ActiveKey
	c.draw()
	// A click that moved the active event changes what is prioritized and
	// which guides show, so lay out once more with the new key.
	if c.res.ActiveKey != before {
		log.Debug("active event changed", "from", before, "to", c.res.ActiveKey)
		c.draw()
	}
	c.last = c.key()
	c.drawn = true
	c.notify()
}

func (c *Chart) draw() {
	c.scene = geometry.Build(geometry.Input{
		Style:   c.style,
		Lanes:   c.lanes,
		Events:  c.events,
		Lines:   c.lines,
		Extents: c.ext,
		Pan:     c.m.State().Pan,
	})
	c.res = c.m.Evaluate(c.scene)
	render.Render(c.surface, c.scene, c.res, c.style)
	c.frames++
}

func (c *Chart) notify() {
	tt := c.m.State().Tooltip
	if tt == c.tooltip {
		return
	}
	c.tooltip = tt
	for _, fn := range c.listeners {
		fn(tt)
	}
}

// Frames counts full redraws since New.
func (c *Chart) Frames() int { return c.frames }

func (c *Chart) Scene() geometry.Scene { return c.scene }

func (c *Chart) Resolution() interact.Resolution { return c.res }

func (c *Chart) State() interact.State { return c.m.State() }

func (c *Chart) Tooltip() interact.Tooltip { return c.tooltip }

func (c *Chart) Extents() scale.Extents { return c.ext }

func (c *Chart) Style() config.Chart { return c.style }

func (c *Chart) Surface() render.Surface { return c.surface }

// PanBounds is the allowed pan range for the current data.
func (c *Chart) PanBounds() (float64, float64) { return c.m.Bounds() }

// Size is the current canvas size.
func (c *Chart) Size() (float64, float64) { return c.scene.Width, c.scene.Height }
