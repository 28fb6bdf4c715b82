// Package render draws map and diagram rasters onto an RGBA canvas
// addressed in world coordinates.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/google/renameio/v2"

	"github.com/rmonterde/fieldops/geo"
)

// maxStrokeSteps bounds the samples taken along one segment so wild
// off-canvas coordinates cannot stall a draw call.
const maxStrokeSteps = 1 << 13

// Canvas is an RGBA raster with a world coordinate transform. X grows
// right and Y grows up, so geographic boxes map north to the top edge.
type Canvas struct {
	img  *image.RGBA
	w, h int

	xmin, ymin float64
	xmax, ymax float64

	stamp   []bool
	painted []int
}

// NewCanvas creates a white canvas spanning a geographic box, with
// longitude on the X axis and latitude on the Y axis.
func NewCanvas(w, h int, world geo.BBox) *Canvas {
	return NewPlane(w, h, world.MinLon, world.MinLat, world.MaxLon, world.MaxLat)
}

// NewPlane creates a white canvas spanning a planar coordinate range.
func NewPlane(w, h int, xmin, ymin, xmax, ymax float64) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		w:    w,
		h:    h,
		xmin: xmin,
		ymin: ymin,
		xmax: xmax,
		ymax: ymax,
	}
	c.Fill(White)
	return c
}

// Size returns the pixel dimensions.
func (c *Canvas) Size() (int, int) {
	return c.w, c.h
}

// Image exposes the backing raster.
func (c *Canvas) Image() image.Image {
	return c.img
}

// Fill paints the whole canvas with one color.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// pixel maps a world coordinate to a fractional pixel position.
func (c *Canvas) pixel(x, y float64) (float64, float64) {
	spanX := c.xmax - c.xmin
	if spanX == 0 {
		spanX = 1
	}
	spanY := c.ymax - c.ymin
	if spanY == 0 {
		spanY = 1
	}
	px := (x - c.xmin) / spanX * float64(c.w-1)
	py := (c.ymax - y) / spanY * float64(c.h-1)
	return px, py
}

// Underlay scales an image over the whole canvas and blends it in.
func (c *Canvas) Underlay(src image.Image, alpha float64) {
	if src == nil {
		return
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	for py := 0; py < c.h; py++ {
		sy := b.Min.Y + py*b.Dy()/c.h
		for px := 0; px < c.w; px++ {
			sx := b.Min.X + px*b.Dx()/c.w
			c.blend(px, py, src.At(sx, sy), alpha)
		}
	}
}

// Polyline strokes a connected series of world points.
func (c *Canvas) Polyline(pts [][2]float64, col color.Color, width, alpha float64) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := c.pixel(pts[i-1][0], pts[i-1][1])
		x1, y1 := c.pixel(pts[i][0], pts[i][1])
		c.stroke(x0, y0, x1, y1, width)
	}
	c.flush(col, alpha)
}

// Grid draws dashed grid lines every step world units.
func (c *Canvas) Grid(step float64, col color.Color, alpha float64) {
	if step <= 0 {
		return
	}
	for x := math.Ceil(c.xmin/step) * step; x <= c.xmax; x += step {
		px, _ := c.pixel(x, c.ymin)
		c.dashedVertical(int(math.Round(px)), col, alpha)
	}
	for y := math.Ceil(c.ymin/step) * step; y <= c.ymax; y += step {
		_, py := c.pixel(c.xmin, y)
		c.dashedHorizontal(int(math.Round(py)), col, alpha)
	}
}

func (c *Canvas) dashedVertical(px int, col color.Color, alpha float64) {
	for py := 0; py < c.h; py++ {
		if (py/4)%2 == 0 {
			c.blend(px, py, col, alpha)
		}
	}
}

func (c *Canvas) dashedHorizontal(py int, col color.Color, alpha float64) {
	for px := 0; px < c.w; px++ {
		if (px/4)%2 == 0 {
			c.blend(px, py, col, alpha)
		}
	}
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// SavePNG writes the canvas atomically to path.
func (c *Canvas) SavePNG(path string) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("creating pending PNG file: %w", err)
	}
	defer pending.Cleanup()

	if err := c.EncodePNG(pending); err != nil {
		return err
	}
	return pending.CloseAtomicallyReplace()
}

// ============================================================================
// Pixel plumbing
// ============================================================================

// blend mixes col into one pixel with the given opacity, ignoring
// positions off the canvas.
func (c *Canvas) blend(px, py int, col color.Color, alpha float64) {
	if px < 0 || py < 0 || px >= c.w || py >= c.h || alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	sr, sg, sb, sa := col.RGBA()
	a := alpha * float64(sa) / 0xffff
	if a <= 0 {
		return
	}

	i := c.img.PixOffset(px, py)
	pix := c.img.Pix[i : i+4 : i+4]
	pix[0] = mix(pix[0], uint8(sr>>8), a)
	pix[1] = mix(pix[1], uint8(sg>>8), a)
	pix[2] = mix(pix[2], uint8(sb>>8), a)
	pix[3] = mix(pix[3], 255, a)
}

func mix(dst, src uint8, a float64) uint8 {
	return uint8(float64(dst)*(1-a) + float64(src)*a + 0.5)
}

// stroke stamps the thick segment between two pixel points. Stamped
// pixels blend once per flush, keeping translucent strokes even where
// segments overlap.
func (c *Canvas) stroke(x0, y0, x1, y1, width float64) {
	pad := width + 1
	if (x0 < -pad && x1 < -pad) || (y0 < -pad && y1 < -pad) {
		return
	}
	wf, hf := float64(c.w), float64(c.h)
	if (x0 > wf+pad && x1 > wf+pad) || (y0 > hf+pad && y1 > hf+pad) {
		return
	}

	steps := int(math.Hypot(x1-x0, y1-y0)) + 1
	if steps > maxStrokeSteps {
		steps = maxStrokeSteps
	}
	r := width / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.stampDisk(x0+(x1-x0)*t, y0+(y1-y0)*t, r)
	}
}

// stampDisk marks the pixels within radius r of a pixel-space center.
func (c *Canvas) stampDisk(cx, cy, r float64) {
	if c.stamp == nil {
		c.stamp = make([]bool, c.w*c.h)
	}
	if r < 0.5 {
		r = 0.5
	}

	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	for py := y0; py <= y1; py++ {
		if py < 0 || py >= c.h {
			continue
		}
		for px := x0; px <= x1; px++ {
			if px < 0 || px >= c.w {
				continue
			}
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			i := py*c.w + px
			if c.stamp[i] {
				continue
			}
			c.stamp[i] = true
			c.painted = append(c.painted, i)
		}
	}
}

// flush blends every stamped pixel and clears the stamp.
func (c *Canvas) flush(col color.Color, alpha float64) {
	for _, i := range c.painted {
		c.stamp[i] = false
		c.blend(i%c.w, i/c.w, col, alpha)
	}
	c.painted = c.painted[:0]
}

// fillRect blends a pixel-space rectangle, clipped to the canvas.
func (c *Canvas) fillRect(x0, y0, x1, y1 int, col color.Color, alpha float64) {
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.blend(px, py, col, alpha)
		}
	}
}

// outlineRect draws a one pixel rectangle border.
func (c *Canvas) outlineRect(x0, y0, x1, y1 int, col color.Color) {
	for px := x0; px < x1; px++ {
		c.blend(px, y0, col, 1)
		c.blend(px, y1-1, col, 1)
	}
	for py := y0; py < y1; py++ {
		c.blend(x0, py, col, 1)
		c.blend(x1-1, py, col, 1)
	}
}
