package optics

import (
	"math"
	"strings"
	"testing"
)

// ============================================================================
// Glass catalog
// ============================================================================

func TestIndexOfCatalog(t *testing.T) {
	tests := []struct {
		glass      string
		wavelength float64
		want       float64
	}{
		{"BK7", 1.064, 1.5066},
		{"F2", 1.064, 1.6018},
		{"BK7", 0.5876, 1.5168},
		{"F2", 0.5876, 1.6200},
	}

	for _, tt := range tests {
		got, err := IndexOf(tt.glass, tt.wavelength)
		if err != nil {
			t.Fatalf("IndexOf(%q, %v) error = %v", tt.glass, tt.wavelength, err)
		}
		if math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("IndexOf(%q, %v) = %v, want %v within 1e-4", tt.glass, tt.wavelength, got, tt.want)
		}
	}
}

func TestIndexOfAir(t *testing.T) {
	for _, glass := range []string{"AIR", "air", ""} {
		got, err := IndexOf(glass, 1.064)
		if err != nil {
			t.Fatalf("IndexOf(%q) error = %v", glass, err)
		}
		if got != 1.0 {
			t.Errorf("IndexOf(%q) = %v, want 1", glass, got)
		}
	}
}

func TestIndexOfCaseInsensitive(t *testing.T) {
	upper, err := IndexOf("BK7", 1.064)
	if err != nil {
		t.Fatalf("IndexOf(BK7) error = %v", err)
	}
	lower, err := IndexOf(" bk7 ", 1.064)
	if err != nil {
		t.Fatalf("IndexOf(bk7) error = %v", err)
	}
	if upper != lower {
		t.Errorf("IndexOf case mismatch: %v vs %v", upper, lower)
	}
}

func TestIndexOfUnknownGlass(t *testing.T) {
	if _, err := IndexOf("UNOBTAINIUM", 1.064); err == nil {
		t.Fatal("IndexOf(UNOBTAINIUM) error = nil, want error")
	}
}

func TestIndexOfBadWavelength(t *testing.T) {
	if _, err := IndexOf("BK7", 0); err == nil {
		t.Fatal("IndexOf with zero wavelength error = nil, want error")
	}
	if _, err := IndexOf("BK7", -1); err == nil {
		t.Fatal("IndexOf with negative wavelength error = nil, want error")
	}
}

// ============================================================================
// Vec3
// ============================================================================

func TestVec3Unit(t *testing.T) {
	v := Vec3{X: 3, Y: 0, Z: 4}.Unit()
	if math.Abs(v.Norm()-1) > 1e-12 {
		t.Errorf("Unit().Norm() = %v, want 1", v.Norm())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Z-0.8) > 1e-12 {
		t.Errorf("Unit() = %+v, want {0.6 0 0.8}", v)
	}

	zero := Vec3{}.Unit()
	if zero != (Vec3{}) {
		t.Errorf("Unit() of zero vector = %+v, want zero", zero)
	}
}

// ============================================================================
// System construction
// ============================================================================

func TestNewSystemValidation(t *testing.T) {
	valid := []Surface{
		{Name: "object", Thickness: 10, Glass: GlassAir, Diameter: 30},
		{Name: "image", Diameter: 100},
	}
	if _, err := NewSystem(valid); err != nil {
		t.Fatalf("NewSystem(valid) error = %v", err)
	}

	tests := []struct {
		name     string
		surfaces []Surface
		wantSub  string
	}{
		{
			name:     "too few surfaces",
			surfaces: valid[:1],
			wantSub:  "at least two",
		},
		{
			name: "negative thickness",
			surfaces: []Surface{
				{Name: "object", Thickness: -1, Glass: GlassAir, Diameter: 30},
				{Name: "image", Diameter: 100},
			},
			wantSub: "negative thickness",
		},
		{
			name: "zero diameter",
			surfaces: []Surface{
				{Name: "object", Thickness: 10, Glass: GlassAir},
				{Name: "image", Diameter: 100},
			},
			wantSub: "diameter",
		},
		{
			name: "unknown glass",
			surfaces: []Surface{
				{Name: "object", Thickness: 10, Glass: "KRYPTONITE", Diameter: 30},
				{Name: "image", Diameter: 100},
			},
			wantSub: "unknown glass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSystem(tt.surfaces)
			if err == nil {
				t.Fatal("NewSystem() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("NewSystem() error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestNewSystemCopiesInput(t *testing.T) {
	surfaces := []Surface{
		{Name: "object", Thickness: 10, Glass: GlassAir, Diameter: 30},
		{Name: "image", Diameter: 100},
	}
	s, err := NewSystem(surfaces)
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}

	surfaces[0].Thickness = 999
	if got := s.Surfaces()[0].Thickness; got != 10 {
		t.Errorf("Surfaces()[0].Thickness = %v after caller mutation, want 10", got)
	}
}

func TestDefaultPumpSystem(t *testing.T) {
	s := DefaultPumpSystem()

	surfaces := s.Surfaces()
	if len(surfaces) != 7 {
		t.Fatalf("len(Surfaces()) = %d, want 7", len(surfaces))
	}
	wantNames := []string{"object", "YAG entrance", "YAG exit", "L1a", "L1b", "L1c", "image"}
	for i, want := range wantNames {
		if surfaces[i].Name != want {
			t.Errorf("Surfaces()[%d].Name = %q, want %q", i, surfaces[i].Name, want)
		}
	}
	if got := surfaces[3].Glass; got != GlassBK7 {
		t.Errorf("L1a glass = %q, want BK7", got)
	}
	if got := surfaces[4].Glass; got != GlassF2 {
		t.Errorf("L1b glass = %q, want F2", got)
	}

	const wantTrack = 141.37604742910693
	if got := s.TotalTrack(); math.Abs(got-wantTrack) > 1e-9 {
		t.Errorf("TotalTrack() = %v, want %v", got, wantTrack)
	}
}

func TestBareCavityKeepsTrack(t *testing.T) {
	pump := DefaultPumpSystem()
	bare := BareCavitySystem()

	if len(bare.Surfaces()) != 5 {
		t.Fatalf("len(Surfaces()) = %d, want 5", len(bare.Surfaces()))
	}
	if got, want := bare.TotalTrack(), pump.TotalTrack(); math.Abs(got-want) > 1e-9 {
		t.Errorf("bare TotalTrack() = %v, want %v (same as pump)", got, want)
	}
}
