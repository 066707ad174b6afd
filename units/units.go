// Package units holds typed physical quantities used where values cross the
// process boundary: catalog parsing, pressure grids, reports and CLI output.
// The solvers themselves work on plain float64 in SI units.
package units

import (
	"fmt"
	"math"
)

// Temperature in kelvins.
type Temperature float64

// Pressure in pascals.
type Pressure float64

// MassFlux in kg/(m²·s).
type MassFlux float64

// HeatFlux in W/m².
type HeatFlux float64

// ThermalConductivity in W/(m·K).
type ThermalConductivity float64

// Length in meters.
type Length float64

// Speed in m/s.
type Speed float64

const celsiusOffset = 273.15

func Kelvins(v float64) Temperature     { return Temperature(v) }
func FromCelsius(v float64) Temperature { return Temperature(v + celsiusOffset) }
func (t Temperature) Kelvins() float64  { return float64(t) }
func (t Temperature) Celsius() float64  { return float64(t) - celsiusOffset }
func (t Temperature) Sub(o Temperature) Temperature {
	return t - o
}
func (t Temperature) Mean(o Temperature) Temperature {
	return (t + o) / 2
}

func Pascals(v float64) Pressure         { return Pressure(v) }
func FromMegapascals(v float64) Pressure { return Pressure(v * 1e6) }
func (p Pressure) Pascals() float64      { return float64(p) }
func (p Pressure) Megapascals() float64  { return float64(p) / 1e6 }

// Linspace returns n+1 evenly spaced pressures from lo to hi inclusive.
func Linspace(lo, hi Pressure, n int) []Pressure {
	if n <= 0 {
		return []Pressure{lo}
	}
	out := make([]Pressure, n+1)
	step := (hi - lo) / Pressure(n)
	for i := range out {
		out[i] = lo + step*Pressure(i)
	}
	out[n] = hi
	return out
}

// PascalSlice converts pressures to raw pascals for the solvers.
func PascalSlice(ps []Pressure) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = float64(p)
	}
	return out
}

func (m MassFlux) KilogramsPerSecondPerSquareMeter() float64 { return float64(m) }

func (q HeatFlux) WattsPerSquareMeter() float64 { return float64(q) }
func (q HeatFlux) Add(o HeatFlux) HeatFlux      { return q + o }
func (q HeatFlux) Scale(k float64) HeatFlux     { return HeatFlux(float64(q) * k) }

func (l ThermalConductivity) WattsPerMeterKelvin() float64 { return float64(l) }

func Meters(v float64) Length         { return Length(v) }
func Millimeters(v float64) Length    { return Length(v / 1e3) }
func (l Length) Meters() float64      { return float64(l) }
func (l Length) Millimeters() float64 { return float64(l) * 1e3 }
func (l Length) Micrometers() float64 { return float64(l) * 1e6 }

func MetersPerSecond(v float64) Speed         { return Speed(v) }
func MillimetersPerSecond(v float64) Speed    { return Speed(v / 1e3) }
func (s Speed) MetersPerSecond() float64      { return float64(s) }
func (s Speed) MillimetersPerSecond() float64 { return float64(s) * 1e3 }

// RelativeError returns |s-ref|/|ref|, or +Inf for a zero reference.
func (s Speed) RelativeError(ref Speed) float64 {
	if ref == 0 {
		return math.Inf(1)
	}
	return math.Abs(float64(s-ref)) / math.Abs(float64(ref))
}

func (t Temperature) String() string         { return fmt.Sprintf("%.2f K", float64(t)) }
func (p Pressure) String() string            { return fmt.Sprintf("%.3f MPa", p.Megapascals()) }
func (m MassFlux) String() string            { return fmt.Sprintf("%.4g kg/(m²·s)", float64(m)) }
func (q HeatFlux) String() string            { return fmt.Sprintf("%.4g W/m²", float64(q)) }
func (l ThermalConductivity) String() string { return fmt.Sprintf("%.4g W/(m·K)", float64(l)) }
func (l Length) String() string              { return fmt.Sprintf("%.4g mm", l.Millimeters()) }
func (s Speed) String() string               { return fmt.Sprintf("%.4f mm/s", s.MillimetersPerSecond()) }
