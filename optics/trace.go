package optics

import (
	"fmt"
	"math"
)

const hitEps = 1e-9

// Ray is a launch position and direction with a wavelength in
// micrometers. Dir does not need to be normalized.
type Ray struct {
	Origin     Vec3
	Dir        Vec3
	Wavelength float64
}

// Hit records where a ray met a surface.
type Hit struct {
	Surface int
	At      Vec3
}

// Trace is the path of one ray through the train. Blocked is set when the
// ray was vignetted, missed a surface or suffered total internal
// reflection; BlockedAt names the surface where it stopped and is
// meaningful only when Blocked is true.
type Trace struct {
	Hits      []Hit
	Blocked   bool
	BlockedAt int
}

// TraceRay propagates a ray surface by surface. The origin is taken to
// lie on the first surface. Rays outside an aperture, missing a spherical
// cap or totally internally reflected stop there with the trace marked
// blocked rather than returning an error.
func (s *System) TraceRay(r Ray) (Trace, error) {
	if r.Wavelength <= 0 {
		return Trace{}, fmt.Errorf("optics: wavelength must be positive, got %g", r.Wavelength)
	}
	dir := r.Dir.Unit()
	if dir == (Vec3{}) {
		return Trace{}, fmt.Errorf("optics: ray direction is zero")
	}

	tr := Trace{Hits: make([]Hit, 0, len(s.surfaces))}
	pos := r.Origin
	tr.Hits = append(tr.Hits, Hit{Surface: 0, At: pos})
	n1, _ := IndexOf(s.surfaces[0].Glass, r.Wavelength)

	for k := 1; k < len(s.surfaces); k++ {
		surf := s.surfaces[k]
		hit, ok := intersect(pos, dir, s.vertices[k], surf.Rc)
		if !ok {
			tr.Blocked = true
			tr.BlockedAt = k
			return tr, nil
		}
		tr.Hits = append(tr.Hits, Hit{Surface: k, At: hit})
		if math.Hypot(hit.X, hit.Y) > surf.Diameter/2 {
			tr.Blocked = true
			tr.BlockedAt = k
			return tr, nil
		}
		if k == len(s.surfaces)-1 {
			break
		}
		n2, _ := IndexOf(surf.Glass, r.Wavelength)
		bent, ok := refract(dir, surfaceNormal(hit, s.vertices[k], surf.Rc), n1/n2)
		if !ok {
			tr.Blocked = true
			tr.BlockedAt = k
			return tr, nil
		}
		pos, dir, n1 = hit, bent, n2
	}
	return tr, nil
}

// TraceGrid launches a parallel +z bundle from a square grid on the first
// surface, keeping starts strictly inside beamRadius. Grid index i spans
// [-gridSize, gridSize] with x = (i/gridSize)*beamRadius, and likewise
// for y. Blocked traces are included in the result.
func (s *System) TraceGrid(gridSize int, beamRadius, wavelength float64) []Trace {
	if gridSize < 1 || beamRadius <= 0 {
		return nil
	}
	traces := make([]Trace, 0, (2*gridSize+1)*(2*gridSize+1))
	for i := -gridSize; i <= gridSize; i++ {
		for j := -gridSize; j <= gridSize; j++ {
			x := float64(i) / float64(gridSize) * beamRadius
			y := float64(j) / float64(gridSize) * beamRadius
			if math.Hypot(x, y) >= beamRadius {
				continue
			}
			tr, err := s.TraceRay(Ray{Origin: Vec3{X: x, Y: y}, Dir: Vec3{Z: 1}, Wavelength: wavelength})
			if err != nil {
				continue
			}
			traces = append(traces, tr)
		}
	}
	return traces
}

// SpotRadiusRMS returns the root mean square radial distance, in mm, of
// the final hits of all unblocked traces. It returns 0 when no ray made
// it to the end of the train.
func SpotRadiusRMS(traces []Trace) float64 {
	var sum float64
	var n int
	for _, tr := range traces {
		if tr.Blocked || len(tr.Hits) == 0 {
			continue
		}
		at := tr.Hits[len(tr.Hits)-1].At
		sum += at.X*at.X + at.Y*at.Y
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// GaussianSpotRadius is the analytic estimate w = 4*lambda*f/(pi*D) for a
// focused beam. Wavelength is in micrometers, focal length and beam
// diameter in mm; the result is the spot radius in mm.
func GaussianSpotRadius(wavelength, focal, beamDiameter float64) float64 {
	if beamDiameter <= 0 {
		return 0
	}
	return 4 * (wavelength * 1e-3) * focal / (math.Pi * beamDiameter)
}

// intersect finds where a ray meets the surface whose vertex sits at vz on
// the axis. A zero rc means a plane. For spheres the root on the cap
// containing the vertex is chosen.
func intersect(o, d Vec3, vz, rc float64) (Vec3, bool) {
	if rc == 0 {
		if math.Abs(d.Z) < hitEps {
			return Vec3{}, false
		}
		t := (vz - o.Z) / d.Z
		if t < -hitEps {
			return Vec3{}, false
		}
		return o.Add(d.Scale(t)), true
	}

	center := Vec3{Z: vz + rc}
	oc := o.Sub(center)
	b := 2 * d.Dot(oc)
	c := oc.Dot(oc) - rc*rc
	disc := b*b - 4*c
	if disc < 0 {
		return Vec3{}, false
	}
	sq := math.Sqrt(disc)
	var t float64
	if rc > 0 {
		t = (-b - sq) / 2
	} else {
		t = (-b + sq) / 2
	}
	if t < -hitEps {
		return Vec3{}, false
	}
	return o.Add(d.Scale(t)), true
}

// surfaceNormal returns the unit normal at a hit point. Orientation is
// settled inside refract.
func surfaceNormal(p Vec3, vz, rc float64) Vec3 {
	if rc == 0 {
		return Vec3{Z: 1}
	}
	return p.Sub(Vec3{Z: vz + rc}).Unit()
}

// refract bends a unit direction across an interface with relative index
// eta = n1/n2. It reports false on total internal reflection.
func refract(d, n Vec3, eta float64) (Vec3, bool) {
	if d.Dot(n) > 0 {
		n = n.Scale(-1)
	}
	cosi := -d.Dot(n)
	sin2t := eta * eta * (1 - cosi*cosi)
	if sin2t > 1 {
		return Vec3{}, false
	}
	cost := math.Sqrt(1 - sin2t)
	return d.Scale(eta).Add(n.Scale(eta*cosi - cost)).Unit(), true
}
