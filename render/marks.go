package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	labelOffset  = 8
	legendMargin = 10
	legendPad    = 8
	legendRow    = 18
	legendSwatch = 10
)

// Marker draws a glyph centered on the world position.
func (c *Canvas) Marker(x, y float64, style MarkerStyle) {
	if style.Size <= 0 || style.Fill == nil {
		return
	}
	cx, cy := c.pixel(x, y)
	r := style.Size / 2

	switch style.Shape {
	case ShapeStar:
		c.star(cx, cy, r, style)
	case ShapeCross:
		c.cross(cx, cy, r, style)
	case ShapeDot:
		if style.Edge != nil {
			c.stampDisk(cx, cy, r)
			c.flush(style.Edge, 1)
			r -= math.Max(style.EdgeWidth, 1)
		}
		c.stampDisk(cx, cy, r)
		c.flush(style.Fill, 1)
	}
}

// star fills a five pointed star and strokes its outline.
func (c *Canvas) star(cx, cy, r float64, style MarkerStyle) {
	pts := make([][2]float64, 0, 10)
	for i := 0; i < 10; i++ {
		radius := r
		if i%2 == 1 {
			radius = r * 0.4
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, [2]float64{
			cx + radius*math.Cos(angle),
			cy + radius*math.Sin(angle),
		})
	}
	c.fillPolygon(pts, style.Fill)

	if style.Edge == nil {
		return
	}
	width := style.EdgeWidth
	if width <= 0 {
		width = 1
	}
	for i := range pts {
		next := pts[(i+1)%len(pts)]
		c.stroke(pts[i][0], pts[i][1], next[0], next[1], width)
	}
	c.flush(style.Edge, 1)
}

// cross strokes the two diagonals of an x glyph.
func (c *Canvas) cross(cx, cy, r float64, style MarkerStyle) {
	width := style.EdgeWidth
	if width <= 0 {
		width = 2
	}
	c.stroke(cx-r, cy-r, cx+r, cy+r, width)
	c.stroke(cx-r, cy+r, cx+r, cy-r, width)
	c.flush(style.Fill, 1)
}

// fillPolygon blends the pixels inside a pixel-space polygon.
func (c *Canvas) fillPolygon(pts [][2]float64, col color.Color) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}

	for py := int(math.Floor(minY)); py <= int(math.Ceil(maxY)); py++ {
		for px := int(math.Floor(minX)); px <= int(math.Ceil(maxX)); px++ {
			if inPolygon(float64(px)+0.5, float64(py)+0.5, pts) {
				c.blend(px, py, col, 1)
			}
		}
	}
}

// inPolygon is an even-odd ray cast.
func inPolygon(x, y float64, pts [][2]float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		xi, yi := pts[i][0], pts[i][1]
		xj, yj := pts[j][0], pts[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			in = !in
		}
		j = i
	}
	return in
}

// Label draws text just right of the world position.
func (c *Canvas) Label(x, y float64, text string, col color.Color) {
	px, py := c.pixel(x, y)
	c.text(int(px)+labelOffset, int(py)+4, text, col)
}

// Title draws centered text along the top edge over a white backing.
func (c *Canvas) Title(text string) {
	if text == "" {
		return
	}
	tw := textWidth(text)
	px := (c.w - tw) / 2
	py := 20
	c.fillRect(px-6, py-13, px+tw+6, py+5, White, 0.8)
	c.text(px, py, text, Black)
}

// Legend draws a bordered box of swatch and label rows in a corner.
func (c *Canvas) Legend(entries []LegendEntry, corner Corner) {
	if len(entries) == 0 {
		return
	}

	width := 0
	for _, e := range entries {
		if w := textWidth(e.Label); w > width {
			width = w
		}
	}
	bw := legendPad + legendSwatch + 6 + width + legendPad
	bh := legendPad*2 + legendRow*len(entries)

	x0, y0 := legendMargin, legendMargin
	switch corner {
	case TopRight:
		x0 = c.w - legendMargin - bw
	case BottomLeft:
		y0 = c.h - legendMargin - bh
	case BottomRight:
		x0 = c.w - legendMargin - bw
		y0 = c.h - legendMargin - bh
	}

	c.fillRect(x0, y0, x0+bw, y0+bh, White, 0.85)
	c.outlineRect(x0, y0, x0+bw, y0+bh, Gray)

	for i, e := range entries {
		rowY := y0 + legendPad + i*legendRow
		if e.Swatch != nil {
			c.fillRect(x0+legendPad, rowY+2, x0+legendPad+legendSwatch, rowY+2+legendSwatch, e.Swatch, 1)
		}
		c.text(x0+legendPad+legendSwatch+6, rowY+11, e.Label, Black)
	}
}

// text draws a string at a pixel baseline with the builtin bitmap face.
func (c *Canvas) text(px, py int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(px, py),
	}
	d.DrawString(text)
}

// textWidth returns the advance of text in pixels.
func textWidth(text string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(text).Ceil()
}
