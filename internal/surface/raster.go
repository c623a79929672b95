// Package surface provides render.Surface implementations: an anti-aliased
// raster backed by gg and a plain SVG writer.
package surface

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"eventline/internal/geometry"
	"eventline/internal/render"
)

const background = "#fff"

type faceKey struct {
	size float64
	bold bool
}

// Raster draws into an RGBA image. The image is recreated whenever Clear is
// called with a new size.
type Raster struct {
	dc   *gg.Context
	w, h float64

	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// NewRaster parses the embedded Go fonts; it fails only if they are corrupt.
func NewRaster() (*Raster, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("surface: parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("surface: parse bold font: %w", err)
	}
	return &Raster{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func (r *Raster) Clear(w, h float64) {
	if r.dc == nil || w != r.w || h != r.h {
		r.dc = gg.NewContext(int(math.Ceil(w)), int(math.Ceil(h)))
		r.w, r.h = w, h
	}
	r.dc.ResetClip()
	r.dc.SetHexColor(background)
	r.dc.Clear()
}

func (r *Raster) Size() (float64, float64) { return r.w, r.h }

func (r *Raster) Rect(rc geometry.Rect, radius float64, p render.Paint) {
	if radius > 0 {
		r.dc.DrawRoundedRectangle(rc.X, rc.Y, rc.W, rc.H, radius)
	} else {
		r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	}
	r.paint(p, true)
}

func (r *Raster) Line(x1, y1, x2, y2 float64, p render.Paint) {
	r.dc.DrawLine(x1, y1, x2, y2)
	r.paint(p, false)
}

func (r *Raster) Polyline(pts []geometry.Point, p render.Paint) {
	if len(pts) == 0 {
		return
	}
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		r.dc.LineTo(pt.X, pt.Y)
	}
	r.paint(p, false)
}

func (r *Raster) Circle(c geometry.Point, radius float64, p render.Paint) {
	r.dc.DrawCircle(c.X, c.Y, radius)
	r.paint(p, true)
}

// paint fills then strokes the current path.
func (r *Raster) paint(p render.Paint, fill bool) {
	if fill && p.Fill != "" {
		r.dc.SetHexColor(p.Fill)
		if p.Stroke != "" {
			r.dc.FillPreserve()
		} else {
			r.dc.Fill()
		}
	}
	if p.Stroke == "" {
		r.dc.ClearPath()
		return
	}
	r.dc.SetHexColor(p.Stroke)
	r.dc.SetLineWidth(math.Max(p.LineWidth, 1))
	r.dc.SetDash(p.Dash...)
	r.dc.Stroke()
	r.dc.SetDash()
}

func (r *Raster) Text(s string, x, y float64, st render.TextStyle) {
	if s == "" {
		return
	}
	r.dc.SetFontFace(r.face(st))
	r.dc.SetHexColor(st.Color)
	var ax float64
	switch st.Align {
	case render.AlignCenter:
		ax = 0.5
	case render.AlignRight:
		ax = 1
	}
	r.dc.DrawStringAnchored(s, x, y, ax, 0.5)
}

func (r *Raster) MeasureText(s string, st render.TextStyle) float64 {
	adv := font.MeasureString(r.face(st), s)
	return float64(adv) / 64
}

func (r *Raster) PushClip(rc geometry.Rect) {
	r.dc.Push()
	r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	r.dc.Clip()
}

func (r *Raster) PopClip() {
	r.dc.Pop()
}

func (r *Raster) face(st render.TextStyle) font.Face {
	k := faceKey{size: st.Size, bold: st.Bold}
	if f, ok := r.faces[k]; ok {
		return f
	}
	fnt := r.regular
	if st.Bold {
		fnt = r.bold
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    st.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Only reachable with a non-positive size, which Normalize rules out.
		panic(fmt.Sprintf("surface: font face size %v: %v", st.Size, err))
	}
	r.faces[k] = f
	return f
}

// Image returns the current frame.
func (r *Raster) Image() image.Image {
	if r.dc == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return r.dc.Image()
}

// EncodePNG writes the current frame as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		return fmt.Errorf("surface: nothing drawn yet")
	}
	return r.dc.EncodePNG(w)
}
