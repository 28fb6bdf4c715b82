package render

import (
	"testing"
)

// countColored returns how many pixels differ from white inside the
// given pixel rectangle.
func countColored(c *Canvas, x0, y0, x1, y1 int) int {
	n := 0
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			if c.img.RGBAAt(px, py) != White {
				n++
			}
		}
	}
	return n
}

// ============================================================================
// Markers
// ============================================================================

func TestMarkerStar(t *testing.T) {
	c := NewPlane(40, 40, 0, 0, 39, 39)
	c.Marker(20, 19, Star(25))

	cx, cy := c.pixel(20, 19)
	if got := c.img.RGBAAt(int(cx), int(cy)); got != Gold {
		t.Errorf("star center = %v, want gold", got)
	}
	if countColored(c, 0, 0, 40, 40) == 0 {
		t.Fatal("star drew nothing")
	}
	// The edge outline leaves black pixels around the fill.
	black := 0
	for py := 0; py < 40; py++ {
		for px := 0; px < 40; px++ {
			if c.img.RGBAAt(px, py) == Black {
				black++
			}
		}
	}
	if black == 0 {
		t.Error("star has no edge pixels")
	}
}

func TestMarkerCross(t *testing.T) {
	c := NewPlane(30, 30, 0, 0, 29, 29)
	c.Marker(15, 14, Cross(15))

	cx, cy := c.pixel(15, 14)
	if got := c.img.RGBAAt(int(cx), int(cy)); got != Red {
		t.Errorf("cross center = %v, want red", got)
	}
}

func TestMarkerDot(t *testing.T) {
	c := NewPlane(20, 20, 0, 0, 19, 19)
	c.Marker(10, 9, Dot(6, SteelBlue))

	cx, cy := c.pixel(10, 9)
	if got := c.img.RGBAAt(int(cx), int(cy)); got != SteelBlue {
		t.Errorf("dot center = %v, want steel blue", got)
	}
}

func TestMarkerOffCanvas(t *testing.T) {
	c := NewPlane(10, 10, 0, 0, 9, 9)
	c.Marker(-500, -500, Star(25))
	c.Marker(500, 500, Cross(15))

	if n := countColored(c, 0, 0, 10, 10); n != 0 {
		t.Errorf("off-canvas markers painted %d pixels", n)
	}
}

func TestMarkerZeroStyle(t *testing.T) {
	c := NewPlane(10, 10, 0, 0, 9, 9)
	c.Marker(5, 5, MarkerStyle{})

	if n := countColored(c, 0, 0, 10, 10); n != 0 {
		t.Errorf("empty style painted %d pixels", n)
	}
}

// ============================================================================
// Text
// ============================================================================

func TestLabel(t *testing.T) {
	c := NewPlane(120, 40, 0, 0, 119, 39)
	c.Label(10, 20, "Palacio de Puebla", Black)

	// Text starts a fixed offset right of the anchor.
	if n := countColored(c, 10, 0, 120, 40); n == 0 {
		t.Fatal("label drew nothing")
	}
	if n := countColored(c, 0, 0, 10, 40); n != 0 {
		t.Errorf("label painted %d pixels left of the anchor", n)
	}
}

func TestTitle(t *testing.T) {
	c := NewPlane(200, 60, 0, 0, 199, 59)
	c.Title("Vista Satelital")

	if n := countColored(c, 0, 0, 200, 30); n == 0 {
		t.Error("title drew nothing in the top band")
	}
	if n := countColored(c, 0, 30, 200, 60); n != 0 {
		t.Errorf("title painted %d pixels below the top band", n)
	}
}

func TestTitleEmpty(t *testing.T) {
	c := NewPlane(40, 40, 0, 0, 39, 39)
	c.Title("")

	if n := countColored(c, 0, 0, 40, 40); n != 0 {
		t.Errorf("empty title painted %d pixels", n)
	}
}

func TestTextWidth(t *testing.T) {
	if w := textWidth("Carreteras"); w != 70 {
		t.Errorf("textWidth(Carreteras) = %d, want 70", w)
	}
	if w := textWidth(""); w != 0 {
		t.Errorf("textWidth(empty) = %d, want 0", w)
	}
}

// ============================================================================
// Legend
// ============================================================================

func TestLegendTopLeft(t *testing.T) {
	c := NewPlane(200, 200, 0, 0, 199, 199)
	c.Legend([]LegendEntry{
		{Swatch: Gold, Label: "Palacio de Puebla"},
		{Swatch: DarkGreen, Label: "Carreteras"},
	}, TopLeft)

	// Swatches sit inside the box near the top left margin.
	foundGold, foundGreen := false, false
	for py := 0; py < 80; py++ {
		for px := 0; px < 80; px++ {
			switch c.img.RGBAAt(px, py) {
			case Gold:
				foundGold = true
			case DarkGreen:
				foundGreen = true
			}
		}
	}
	if !foundGold || !foundGreen {
		t.Errorf("legend swatches missing: gold=%v green=%v", foundGold, foundGreen)
	}
	if n := countColored(c, 120, 120, 200, 200); n != 0 {
		t.Errorf("legend painted %d pixels outside the top left corner", n)
	}
}

func TestLegendCorners(t *testing.T) {
	tests := []struct {
		name           string
		corner         Corner
		x0, y0, x1, y1 int
	}{
		{"top right", TopRight, 100, 0, 200, 60},
		{"bottom left", BottomLeft, 0, 140, 100, 200},
		{"bottom right", BottomRight, 100, 140, 200, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPlane(200, 200, 0, 0, 199, 199)
			c.Legend([]LegendEntry{{Swatch: Red, Label: "Ruta"}}, tt.corner)

			if n := countColored(c, tt.x0, tt.y0, tt.x1, tt.y1); n == 0 {
				t.Error("legend not drawn in expected corner")
			}
		})
	}
}

func TestLegendEmpty(t *testing.T) {
	c := NewPlane(40, 40, 0, 0, 39, 39)
	c.Legend(nil, TopLeft)

	if n := countColored(c, 0, 0, 40, 40); n != 0 {
		t.Errorf("empty legend painted %d pixels", n)
	}
}

func TestLegendNilSwatch(t *testing.T) {
	c := NewPlane(200, 80, 0, 0, 199, 79)
	c.Legend([]LegendEntry{{Swatch: nil, Label: "Sin muestra"}}, TopLeft)

	if n := countColored(c, 0, 0, 200, 80); n == 0 {
		t.Error("legend with nil swatch drew nothing")
	}
}
