package penalty

import (
	"fmt"

	"burnrate-go/config"
)

// FromConfig builds the chain of enabled penalties in a fixed order.
func FromConfig(cfg config.Penalties) (Chain, error) {
	var ch Chain
	add := func(name string, e Evaluator, err error) error {
		if err != nil {
			return fmt.Errorf("penalty %s: %w", name, err)
		}
		ch = append(ch, e)
		return nil
	}

	if r := cfg.HeatFluxRatio; r.Enabled {
		e, err := NewHeatFluxRatio(r.Rate, r.Threshold)
		if err := add("heat_flux_ratio", e, err); err != nil {
			return nil, err
		}
	}
	if r := cfg.InterPocketFasterBurn; r.Enabled {
		e, err := NewInterPocketFasterBurn(r.Rate)
		if err := add("inter_pocket_faster_burn", e, err); err != nil {
			return nil, err
		}
	}
	if k := cfg.KineticFlameHeatFlux; k.Enabled {
		e, err := NewKineticFlameHeatFlux(k.Rate, k.MaxInterPocket, k.MaxSkeleton, k.MaxOutSkeleton)
		if err := add("kinetic_flame_heat_flux", e, err); err != nil {
			return nil, err
		}
	}
	if r := cfg.PoreDiameter; r.Enabled {
		e, err := NewPoreDiameter(r.Rate, r.Threshold)
		if err := add("pore_diameter", e, err); err != nil {
			return nil, err
		}
	}
	if r := cfg.RadiativeConductivity; r.Enabled {
		e, err := NewRadiativeConductivity(r.Rate)
		if err := add("radiative_conductivity", e, err); err != nil {
			return nil, err
		}
	}
	if r := cfg.SurfaceTemperature; r.Enabled {
		e, err := NewSurfaceTemperature(r.Rate, r.Min, r.Max)
		if err := add("surface_temperature", e, err); err != nil {
			return nil, err
		}
	}
	if r := cfg.FlameHeight; r.Enabled {
		e, err := NewFlameHeight(r.Rate, r.Min, r.Max)
		if err := add("flame_height", e, err); err != nil {
			return nil, err
		}
	}
	return ch, nil
}
