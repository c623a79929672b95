// Package window shows a chart in a desktop window and feeds it mouse,
// wheel and arrow-key input.
package window

import (
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"eventline/internal/chart"
	"eventline/internal/interact"
	"eventline/internal/log"
	"eventline/internal/surface"
)

// daysPerStep is how many days an arrow key press pans.
const daysPerStep = 7

// Game is the ebiten game hosting one chart. mu guards the chart against a
// background source refresh.
type Game struct {
	mu     sync.Locker
	chart  *chart.Chart
	raster *surface.Raster

	in    tracker
	img   *ebiten.Image
	frame int
}

func New(c *chart.Chart, r *surface.Raster, mu sync.Locker) *Game {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Game{
		mu:     mu,
		chart:  c,
		raster: r,
		in:     tracker{stepSize: c.Style().Scale.Space * daysPerStep},
		frame:  -1,
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	w, h := g.size()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(60)
	log.Info("window opened", "title", title, "width", w, "height", h)
	return ebiten.RunGame(g)
}

func (g *Game) size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, h := g.chart.Size()
	return int(math.Ceil(w)), int(math.Ceil(h))
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	w, h := g.size()
	x, y := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	in := frameInput{
		X:        x,
		Y:        y,
		Inside:   x >= 0 && y >= 0 && x < w && y < h,
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		WheelX:   wx,
		WheelY:   wy,
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		in.Step--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		in.Step++
	}

	g.mu.Lock()
	g.in.apply(g.chart, in)
	g.mu.Unlock()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	frame := g.chart.Frames()
	tt := g.chart.Tooltip()
	if frame != g.frame || g.img == nil {
		g.upload(g.raster.Image())
		g.frame = frame
	}
	g.mu.Unlock()

	screen.DrawImage(g.img, nil)

	if tt.Status != interact.TooltipNothing {
		p := tt.Payload
		text := p.Title
		if p.Desc != "" {
			text += "\n" + p.Desc
		}
		ebitenutil.DebugPrintAt(screen, text, int(p.Location.X)+12, int(p.Location.Y)+12)
	}
}

// upload copies the raster frame into the ebiten image, reallocating only
// when the size changed.
func (g *Game) upload(src image.Image) {
	b := src.Bounds()
	if b.Empty() {
		if g.img == nil {
			g.img = ebiten.NewImage(1, 1)
		}
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != b.Dx() || g.img.Bounds().Dy() != b.Dy() {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Stride == 4*b.Dx() {
		g.img.WritePixels(rgba.Pix)
		return
	}
	g.img.Clear()
	g.img.DrawImage(ebiten.NewImageFromImage(src), nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size()
}
