// Package lasersim models a plasma spark pumped YAG laser heating a thin
// steel plate. Evaluate computes the average and peak power required to
// hold a target surface temperature and the electrical yield of an
// organic Rankine cycle recovering the plate heat. Session wraps the
// model in the interactive bench loop with a fire button and a spark
// frequency knob.
package lasersim

import (
	"fmt"
	"math"
)

// Params holds the pulse train, plate and conversion constants. SI units
// throughout: Hz, seconds, W/(m*K), meters and degrees Celsius.
type Params struct {
	Frequency      float64
	PulseDuration  float64
	Conductivity   float64
	PlateThickness float64
	PlateRadius    float64
	AmbientTemp    float64
	TargetTemp     float64
	AbsorptionEff  float64
	ORCEfficiency  float64
	Voltages       []float64
}

// DefaultParams is the stock bench setup: 250 Hz sparks with 1 ms pulses
// onto a 1 mm steel plate, aiming for a 280 C surface.
func DefaultParams() Params {
	return Params{
		Frequency:      250,
		PulseDuration:  0.001,
		Conductivity:   50,
		PlateThickness: 0.001,
		PlateRadius:    0.1,
		AmbientTemp:    25,
		TargetTemp:     280,
		AbsorptionEff:  0.8,
		ORCEfficiency:  0.12,
		Voltages:       []float64{12, 120, 240},
	}
}

// CurrentAt is the deliverable current at one supply voltage.
type CurrentAt struct {
	Voltage float64
	Amperes float64
}

// Result carries everything Evaluate derives from one spot size.
type Result struct {
	SpotRadiusMM     float64
	DutyCycle        float64
	AvgPowerW        float64
	PeakPowerW       float64
	SurfaceTempC     float64
	HeatPowerW       float64
	ElectricalPowerW float64
	Currents         []CurrentAt
}

// Evaluate solves the steady-state plate model for a focused spot of the
// given radius in meters. The temperature rise of a thin plate heated at
// the center follows dT = P/(4*pi*k*t) * ln(4R/w), which is inverted for
// the average power, divided by the duty cycle for peak power and run
// forward again to confirm the surface temperature.
func Evaluate(spotRadiusM float64, p Params) (Result, error) {
	if spotRadiusM <= 0 {
		return Result{}, fmt.Errorf("lasersim: spot radius must be positive, got %g m", spotRadiusM)
	}
	if p.PlateRadius <= spotRadiusM {
		return Result{}, fmt.Errorf("lasersim: plate radius %g m must exceed the spot radius %g m", p.PlateRadius, spotRadiusM)
	}

	duty := p.Frequency * p.PulseDuration
	if duty > 1 {
		duty = 1
	}

	deltaT := p.TargetTemp - p.AmbientTemp
	spread := math.Log(4*p.PlateRadius/spotRadiusM) / (4 * math.Pi * p.Conductivity * p.PlateThickness)
	avg := deltaT / spread

	peak := avg
	if duty > 0 {
		peak = avg / duty
	}

	surface := p.AmbientTemp + avg/(4*math.Pi*p.Conductivity*p.PlateThickness)*math.Log(4*p.PlateRadius/spotRadiusM)

	heat := avg * p.AbsorptionEff
	electrical := heat * p.ORCEfficiency
	currents := make([]CurrentAt, len(p.Voltages))
	for i, v := range p.Voltages {
		currents[i] = CurrentAt{Voltage: v, Amperes: electrical / v}
	}

	return Result{
		SpotRadiusMM:     spotRadiusM * 1000,
		DutyCycle:        duty,
		AvgPowerW:        avg,
		PeakPowerW:       peak,
		SurfaceTempC:     surface,
		HeatPowerW:       heat,
		ElectricalPowerW: electrical,
		Currents:         currents,
	}, nil
}
