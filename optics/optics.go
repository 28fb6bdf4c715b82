// Package optics implements a sequential ray tracer for axially symmetric
// trains of spherical and plane surfaces. It carries the pump focusing
// prescription used by the laser simulation: a YAG rod followed by a
// BK7/F2 doublet that focuses the collimated pump beam onto a target
// plate.
package optics

import (
	"fmt"
	"math"
	"strings"
)

// Glass names accepted by the catalog.
const (
	GlassAir = "AIR"
	GlassBK7 = "BK7"
	GlassF2  = "F2"
)

// sellmeier holds three-term dispersion coefficients. Wavelengths are in
// micrometers, C terms in square micrometers.
type sellmeier struct {
	B [3]float64
	C [3]float64
}

// Schott catalog coefficients.
var glasses = map[string]sellmeier{
	GlassBK7: {
		B: [3]float64{1.03961212, 0.231792344, 1.01046945},
		C: [3]float64{0.00600069867, 0.0200179144, 103.560653},
	},
	GlassF2: {
		B: [3]float64{1.34533359, 0.209073176, 0.937357162},
		C: [3]float64{0.00997743871, 0.0470450767, 111.886764},
	},
}

// IndexOf returns the refractive index of a catalog glass at the given
// wavelength in micrometers. Air (or an empty glass name) is 1.
func IndexOf(glass string, wavelength float64) (float64, error) {
	if wavelength <= 0 {
		return 0, fmt.Errorf("optics: wavelength must be positive, got %g", wavelength)
	}
	name := strings.ToUpper(strings.TrimSpace(glass))
	if name == "" || name == GlassAir {
		return 1.0, nil
	}
	sm, ok := glasses[name]
	if !ok {
		return 0, fmt.Errorf("optics: unknown glass %q", glass)
	}
	l2 := wavelength * wavelength
	n2 := 1.0
	for i := range sm.B {
		n2 += sm.B[i] * l2 / (l2 - sm.C[i])
	}
	return math.Sqrt(n2), nil
}

// Vec3 is a point or direction in system coordinates. The optical axis
// runs along +Z; distances are in millimeters.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v normalized to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Surface is one element of a sequential train. Rc is the radius of
// curvature in mm, with 0 meaning a plane and positive values placing the
// center of curvature past the vertex. Thickness is the axial distance to
// the next surface, and Glass names the medium that follows.
type Surface struct {
	Name      string
	Rc        float64
	Thickness float64
	Glass     string
	Diameter  float64
}

// System is a validated surface train with precomputed vertex positions.
type System struct {
	surfaces []Surface
	vertices []float64
}

// NewSystem validates a surface train and computes the vertex position of
// each surface along the axis. Thicknesses must be non-negative, diameters
// positive and every glass present in the catalog.
func NewSystem(surfaces []Surface) (*System, error) {
	if len(surfaces) < 2 {
		return nil, fmt.Errorf("optics: a system needs at least two surfaces, got %d", len(surfaces))
	}
	s := &System{
		surfaces: make([]Surface, len(surfaces)),
		vertices: make([]float64, len(surfaces)),
	}
	copy(s.surfaces, surfaces)

	z := 0.0
	for i, surf := range s.surfaces {
		if surf.Thickness < 0 {
			return nil, fmt.Errorf("optics: surface %d (%s) has negative thickness %g", i, surf.Name, surf.Thickness)
		}
		if surf.Diameter <= 0 {
			return nil, fmt.Errorf("optics: surface %d (%s) has non-positive diameter %g", i, surf.Name, surf.Diameter)
		}
		if _, err := IndexOf(surf.Glass, DefaultWavelength); err != nil {
			return nil, fmt.Errorf("optics: surface %d (%s): %w", i, surf.Name, err)
		}
		s.vertices[i] = z
		z += surf.Thickness
	}
	return s, nil
}

// Surfaces returns a copy of the surface train.
func (s *System) Surfaces() []Surface {
	out := make([]Surface, len(s.surfaces))
	copy(out, s.surfaces)
	return out
}

// TotalTrack returns the axial distance from the first vertex to the last.
func (s *System) TotalTrack() float64 {
	return s.vertices[len(s.vertices)-1]
}

// DefaultWavelength is the Nd:YAG emission line in micrometers.
const DefaultWavelength = 1.064

// Launch grid defaults: an 11x11 bundle across a 20 mm beam.
const (
	DefaultGridSize   = 5
	DefaultBeamRadius = 10.0
)

// Pump train prescription, dimensions in mm.
const (
	objectDistance  = 10.0
	crystalLength   = 5.0
	crystalToLens   = 20.0
	lensFrontRadius = 92.84706570002484
	lensFrontThick  = 6.0
	lensMidRadius   = -30.71608670000159
	lensMidThick    = 3.0
	lensBackRadius  = -78.19730726078505
	backFocal       = 97.37604742910693
	objectDiameter  = 30.0
	crystalDiameter = 10.0
	lensDiameter    = 30.0
	imageDiameter   = 100.0
)

// DefaultPumpSystem builds the stock pump train: object plane, YAG rod,
// BK7/F2 doublet and image plane at the back focus. The rod faces are
// modeled in air, so they aperture the beam without bending it.
func DefaultPumpSystem() *System {
	s, err := NewSystem([]Surface{
		{Name: "object", Thickness: objectDistance, Glass: GlassAir, Diameter: objectDiameter},
		{Name: "YAG entrance", Thickness: crystalLength, Glass: GlassAir, Diameter: crystalDiameter},
		{Name: "YAG exit", Thickness: crystalToLens, Glass: GlassAir, Diameter: crystalDiameter},
		{Name: "L1a", Rc: lensFrontRadius, Thickness: lensFrontThick, Glass: GlassBK7, Diameter: lensDiameter},
		{Name: "L1b", Rc: lensMidRadius, Thickness: lensMidThick, Glass: GlassF2, Diameter: lensDiameter},
		{Name: "L1c", Rc: lensBackRadius, Thickness: backFocal, Glass: GlassAir, Diameter: lensDiameter},
		{Name: "image", Diameter: imageDiameter},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// BareCavitySystem is the pump train with the YAG rod removed. The object
// distance absorbs the rod path so the doublet and image plane keep their
// positions.
func BareCavitySystem() *System {
	s, err := NewSystem([]Surface{
		{Name: "object", Thickness: objectDistance + crystalLength + crystalToLens, Glass: GlassAir, Diameter: objectDiameter},
		{Name: "L1a", Rc: lensFrontRadius, Thickness: lensFrontThick, Glass: GlassBK7, Diameter: lensDiameter},
		{Name: "L1b", Rc: lensMidRadius, Thickness: lensMidThick, Glass: GlassF2, Diameter: lensDiameter},
		{Name: "L1c", Rc: lensBackRadius, Thickness: backFocal, Glass: GlassAir, Diameter: lensDiameter},
		{Name: "image", Diameter: imageDiameter},
	})
	if err != nil {
		panic(err)
	}
	return s
}
