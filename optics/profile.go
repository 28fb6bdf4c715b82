package optics

import (
	"math"

	"github.com/rmonterde/fieldops/render"
)

const (
	profileWidth  = 960
	profileHeight = 480
	profileMargin = 6.0
	arcSteps      = 48
)

// Profile draws a side view of the train with the given traces: surfaces
// as vertical sections with their spherical sag, ray paths projected onto
// the y-z plane. Blocked rays are drawn in red up to the surface that
// stopped them.
func (s *System) Profile(traces []Trace) *render.Canvas {
	half := 0.0
	for _, surf := range s.surfaces {
		if surf.Diameter/2 > half {
			half = surf.Diameter / 2
		}
	}
	c := render.NewPlane(profileWidth, profileHeight,
		-profileMargin, -(half + profileMargin),
		s.TotalTrack()+profileMargin, half+profileMargin)

	c.Polyline([][2]float64{
		{-profileMargin, 0},
		{s.TotalTrack() + profileMargin, 0},
	}, render.LightGray, 1, 1)

	for i, surf := range s.surfaces {
		c.Polyline(surfaceOutline(surf, s.vertices[i]), render.Black, 1.5, 1)
	}

	for _, tr := range traces {
		if len(tr.Hits) < 2 {
			continue
		}
		pts := make([][2]float64, len(tr.Hits))
		for i, h := range tr.Hits {
			pts[i] = [2]float64{h.At.Z, h.At.Y}
		}
		col := render.SteelBlue
		if tr.Blocked {
			col = render.Red
		}
		c.Polyline(pts, col, 1, 0.35)
	}
	return c
}

// surfaceOutline samples a surface section in the y-z plane. Curved
// surfaces include their sag; the sampled half height is capped at the
// curvature radius so the arc stays on the near cap.
func surfaceOutline(surf Surface, vz float64) [][2]float64 {
	half := surf.Diameter / 2
	if surf.Rc == 0 {
		return [][2]float64{{vz, -half}, {vz, half}}
	}
	if r := math.Abs(surf.Rc); half > r {
		half = r
	}
	pts := make([][2]float64, 0, arcSteps+1)
	for i := 0; i <= arcSteps; i++ {
		y := -half + float64(i)/arcSteps*2*half
		sag := surf.Rc - math.Copysign(math.Sqrt(surf.Rc*surf.Rc-y*y), surf.Rc)
		pts = append(pts, [2]float64{vz + sag, y})
	}
	return pts
}
