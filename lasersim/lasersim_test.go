package lasersim

import (
	"math"
	"strings"
	"testing"
)

// ============================================================================
// Thermal and conversion model
// ============================================================================

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if p.Frequency != 250 || p.PulseDuration != 0.001 {
		t.Errorf("pulse train = %g Hz / %g s, want 250 / 0.001", p.Frequency, p.PulseDuration)
	}
	if p.Conductivity != 50 || p.PlateThickness != 0.001 || p.PlateRadius != 0.1 {
		t.Errorf("plate = %g W/mK, %g m thick, %g m radius, want 50 / 0.001 / 0.1",
			p.Conductivity, p.PlateThickness, p.PlateRadius)
	}
	if p.AmbientTemp != 25 || p.TargetTemp != 280 {
		t.Errorf("temperatures = %g / %g C, want 25 / 280", p.AmbientTemp, p.TargetTemp)
	}
	if p.AbsorptionEff != 0.8 || p.ORCEfficiency != 0.12 {
		t.Errorf("efficiencies = %g / %g, want 0.8 / 0.12", p.AbsorptionEff, p.ORCEfficiency)
	}
	wantV := []float64{12, 120, 240}
	if len(p.Voltages) != len(wantV) {
		t.Fatalf("len(Voltages) = %d, want %d", len(p.Voltages), len(wantV))
	}
	for i, v := range wantV {
		if p.Voltages[i] != v {
			t.Errorf("Voltages[%d] = %g, want %g", i, p.Voltages[i], v)
		}
	}
}

func TestEvaluate(t *testing.T) {
	res, err := Evaluate(1e-5, DefaultParams())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if math.Abs(res.SpotRadiusMM-0.01) > 1e-12 {
		t.Errorf("SpotRadiusMM = %v, want 0.01", res.SpotRadiusMM)
	}
	if res.DutyCycle != 0.25 {
		t.Errorf("DutyCycle = %v, want 0.25", res.DutyCycle)
	}
	if math.Abs(res.AvgPowerW-15.12) > 0.01 {
		t.Errorf("AvgPowerW = %v, want about 15.12", res.AvgPowerW)
	}
	if math.Abs(res.PeakPowerW-res.AvgPowerW/0.25) > 1e-9 {
		t.Errorf("PeakPowerW = %v, want AvgPowerW/duty = %v", res.PeakPowerW, res.AvgPowerW/0.25)
	}
	if math.Abs(res.SurfaceTempC-280) > 1e-9 {
		t.Errorf("SurfaceTempC = %v, want the 280 target", res.SurfaceTempC)
	}
	if math.Abs(res.HeatPowerW-0.8*res.AvgPowerW) > 1e-9 {
		t.Errorf("HeatPowerW = %v, want %v", res.HeatPowerW, 0.8*res.AvgPowerW)
	}
	if math.Abs(res.ElectricalPowerW-0.12*res.HeatPowerW) > 1e-9 {
		t.Errorf("ElectricalPowerW = %v, want %v", res.ElectricalPowerW, 0.12*res.HeatPowerW)
	}

	if len(res.Currents) != 3 {
		t.Fatalf("len(Currents) = %d, want 3", len(res.Currents))
	}
	for i, want := range []float64{12, 120, 240} {
		c := res.Currents[i]
		if c.Voltage != want {
			t.Errorf("Currents[%d].Voltage = %g, want %g", i, c.Voltage, want)
		}
		if math.Abs(c.Amperes-res.ElectricalPowerW/want) > 1e-12 {
			t.Errorf("Currents[%d].Amperes = %v, want %v", i, c.Amperes, res.ElectricalPowerW/want)
		}
	}
}

func TestEvaluateClampsDuty(t *testing.T) {
	p := DefaultParams()
	p.Frequency = 2000

	res, err := Evaluate(1e-5, p)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if res.DutyCycle != 1 {
		t.Errorf("DutyCycle = %v, want clamped to 1", res.DutyCycle)
	}
	if res.PeakPowerW != res.AvgPowerW {
		t.Errorf("PeakPowerW = %v, want AvgPowerW %v at full duty", res.PeakPowerW, res.AvgPowerW)
	}
}

func TestEvaluateZeroFrequency(t *testing.T) {
	p := DefaultParams()
	p.Frequency = 0

	res, err := Evaluate(1e-5, p)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if res.DutyCycle != 0 {
		t.Errorf("DutyCycle = %v, want 0", res.DutyCycle)
	}
	if res.PeakPowerW != res.AvgPowerW {
		t.Errorf("PeakPowerW = %v, want AvgPowerW %v when duty is 0", res.PeakPowerW, res.AvgPowerW)
	}
}

func TestEvaluateBadSpot(t *testing.T) {
	if _, err := Evaluate(0, DefaultParams()); err == nil {
		t.Error("Evaluate(0) error = nil, want error")
	}
	if _, err := Evaluate(-1e-5, DefaultParams()); err == nil {
		t.Error("Evaluate(negative) error = nil, want error")
	}
}

func TestEvaluateSpotExceedsPlate(t *testing.T) {
	p := DefaultParams()
	p.PlateRadius = 0.001

	_, err := Evaluate(0.002, p)
	if err == nil {
		t.Fatal("Evaluate() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "plate radius") {
		t.Errorf("Evaluate() error = %q, want plate radius message", err)
	}
}
