package surface

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"eventline/internal/geometry"
	"eventline/internal/render"
)

const fontFamily = "Go, Helvetica, Arial, sans-serif"

// SVG records a frame as SVG markup. Text width is estimated, not measured.
type SVG struct {
	w, h float64

	defs   strings.Builder
	body   strings.Builder
	clipID int
	open   int
}

func NewSVG() *SVG {
	return &SVG{}
}

func (s *SVG) Clear(w, h float64) {
	s.w, s.h = w, h
	s.defs.Reset()
	s.body.Reset()
	s.clipID = 0
	s.open = 0
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func (s *SVG) Rect(r geometry.Rect, radius float64, p render.Paint) {
	fmt.Fprintf(&s.body, `<rect x="%s" y="%s" width="%s" height="%s"`, num(r.X), num(r.Y), num(r.W), num(r.H))
	if radius > 0 {
		fmt.Fprintf(&s.body, ` rx="%s"`, num(radius))
	}
	s.body.WriteString(paintAttrs(p, true))
	s.body.WriteString("/>\n")
}

func (s *SVG) Line(x1, y1, x2, y2 float64, p render.Paint) {
	fmt.Fprintf(&s.body, `<line x1="%s" y1="%s" x2="%s" y2="%s"`, num(x1), num(y1), num(x2), num(y2))
	s.body.WriteString(paintAttrs(p, false))
	s.body.WriteString("/>\n")
}

func (s *SVG) Polyline(pts []geometry.Point, p render.Paint) {
	if len(pts) == 0 {
		return
	}
	coords := make([]string, 0, len(pts))
	for _, pt := range pts {
		coords = append(coords, num(pt.X)+","+num(pt.Y))
	}
	fmt.Fprintf(&s.body, `<polyline points="%s"`, strings.Join(coords, " "))
	s.body.WriteString(paintAttrs(p, false))
	s.body.WriteString("/>\n")
}

func (s *SVG) Circle(c geometry.Point, r float64, p render.Paint) {
	fmt.Fprintf(&s.body, `<circle cx="%s" cy="%s" r="%s"`, num(c.X), num(c.Y), num(r))
	s.body.WriteString(paintAttrs(p, true))
	s.body.WriteString("/>\n")
}

func (s *SVG) Text(text string, x, y float64, st render.TextStyle) {
	if text == "" {
		return
	}
	anchor := "start"
	switch st.Align {
	case render.AlignCenter:
		anchor = "middle"
	case render.AlignRight:
		anchor = "end"
	}
	weight := "normal"
	if st.Bold {
		weight = "bold"
	}
	fmt.Fprintf(&s.body,
		`<text x="%s" y="%s" font-family="%s" font-size="%s" font-weight="%s" text-anchor="%s" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		num(x), num(y), fontFamily, num(st.Size), weight, anchor, escapeXML(colorOr(st.Color, "#000")), escapeXML(text))
}

// MeasureText estimates an average glyph at 0.6 of the font size.
func (s *SVG) MeasureText(text string, st render.TextStyle) float64 {
	w := float64(utf8.RuneCountInString(text)) * st.Size * 0.6
	if st.Bold {
		w *= 1.1
	}
	return w
}

func (s *SVG) PushClip(r geometry.Rect) {
	s.clipID++
	id := "clip" + strconv.Itoa(s.clipID)
	fmt.Fprintf(&s.defs, `<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
		id, num(r.X), num(r.Y), num(r.W), num(r.H))
	fmt.Fprintf(&s.body, `<g clip-path="url(#%s)">`+"\n", id)
	s.open++
}

func (s *SVG) PopClip() {
	if s.open == 0 {
		return
	}
	s.body.WriteString("</g>\n")
	s.open--
}

// String returns the complete document for the current frame.
func (s *SVG) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, num(s.w), num(s.h), num(s.w), num(s.h), background)
	if s.defs.Len() > 0 {
		b.WriteString("<defs>\n")
		b.WriteString(s.defs.String())
		b.WriteString("</defs>\n")
	}
	b.WriteString(s.body.String())
	for i := 0; i < s.open; i++ {
		b.WriteString("</g>\n")
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

func paintAttrs(p render.Paint, fillable bool) string {
	var b strings.Builder
	fill := "none"
	if fillable && p.Fill != "" {
		fill = p.Fill
	}
	fmt.Fprintf(&b, ` fill="%s"`, escapeXML(fill))
	if p.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, escapeXML(p.Stroke), num(p.LineWidth))
		if len(p.Dash) > 0 {
			parts := make([]string, 0, len(p.Dash))
			for _, d := range p.Dash {
				parts = append(parts, num(d))
			}
			fmt.Fprintf(&b, ` stroke-dasharray="%s"`, strings.Join(parts, " "))
		}
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func colorOr(c, def string) string {
	if c == "" {
		return def
	}
	return c
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
