package render

import "image/color"

// Palette shared by the map and diagram renderers.
var (
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black     = color.RGBA{A: 255}
	Gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	LightGray = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	DarkGreen = color.RGBA{G: 100, A: 255}
	Gold      = color.RGBA{R: 255, G: 215, A: 255}
	Red       = color.RGBA{R: 255, A: 255}
	Orange    = color.RGBA{R: 255, G: 165, A: 255}
	SteelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// MarkerShape selects the glyph drawn by Marker.
type MarkerShape int

const (
	ShapeStar MarkerShape = iota
	ShapeCross
	ShapeDot
)

// MarkerStyle describes a point marker. Size is the glyph diameter in
// pixels. A nil Edge skips the outline.
type MarkerStyle struct {
	Shape     MarkerShape
	Size      float64
	Fill      color.Color
	Edge      color.Color
	EdgeWidth float64
}

// Star returns the gold landmark star with a black edge.
func Star(size float64) MarkerStyle {
	return MarkerStyle{Shape: ShapeStar, Size: size, Fill: Gold, Edge: Black, EdgeWidth: 1.5}
}

// Cross returns the red selection cross.
func Cross(size float64) MarkerStyle {
	return MarkerStyle{Shape: ShapeCross, Size: size, Fill: Red, EdgeWidth: 2}
}

// Dot returns a filled circular marker.
func Dot(size float64, fill color.Color) MarkerStyle {
	return MarkerStyle{Shape: ShapeDot, Size: size, Fill: fill}
}

// LegendEntry is one swatch and label row in a legend box.
type LegendEntry struct {
	Swatch color.Color
	Label  string
}

// Corner positions a legend on the canvas.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)
