package window

// Target receives translated pointer input. *chart.Chart implements it.
type Target interface {
	PointerMove(x, y float64)
	PointerDown(x, y float64)
	PointerUp(x, y float64)
	PointerLeave()
	PanBy(dx float64)
}

// wheelStep is how far one wheel notch pans, in pixels.
const wheelStep = 20

// frameInput is the raw input of one tick.
type frameInput struct {
	X, Y     int
	Inside   bool
	Pressed  bool
	Released bool
	WheelX   float64
	WheelY   float64
	// Step pans by whole keyboard steps (arrow keys), negative for left.
	Step int
}

// tracker turns per-tick input snapshots into chart pointer calls.
type tracker struct {
	inside   bool
	lastX    int
	lastY    int
	stepSize float64
}

func (t *tracker) apply(target Target, in frameInput) {
	if !in.Inside {
		if t.inside {
			target.PointerLeave()
			t.inside = false
		}
		return
	}

	x, y := float64(in.X), float64(in.Y)
	moved := !t.inside || in.X != t.lastX || in.Y != t.lastY
	t.inside = true
	t.lastX, t.lastY = in.X, in.Y

	switch {
	case in.Pressed:
		target.PointerDown(x, y)
	case in.Released:
		target.PointerUp(x, y)
	case moved:
		target.PointerMove(x, y)
	}

	if d := in.WheelX + in.WheelY; d != 0 {
		target.PanBy(-d * wheelStep)
	}
	if in.Step != 0 {
		target.PanBy(float64(in.Step) * t.stepSize)
	}
}
