package combustion

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
)

var catalogValidate = validator.New()

// Component names used as keys of the catalog "components" object.
const (
	CombustibleBinder   = "CombustibleBinder"
	Octogen             = "Octogen"
	AmmoniumPerchlorate = "AmmoniumPerchlorate"
	Aluminum            = "Aluminum"
)

// ConfidenceInterval is one experimental point with its error bar.
type ConfidenceInterval struct {
	X    float64 `json:"x_value"`
	Y    float64 `json:"y_value"`
	Size float64 `json:"size_of_confidence_interval"`
}

// GasPhase describes a kinetic (homogeneous) flame region.
type GasPhase struct {
	LambdaGas               float64 `json:"lambda_gas" validate:"gt=0"`
	AverageMolarMass        float64 `json:"average_molar_mass" validate:"gt=0"`
	CVolume                 float64 `json:"c_volume" validate:"gt=0"`
	KineticFlameTemperature float64 `json:"T_kinetic_flame" validate:"gt=0"`
}

// PocketGasPhase describes the heterogeneous pocket region.
type PocketGasPhase struct {
	LambdaGas                 float64  `json:"lambda_gas" validate:"gt=0"`
	AverageMolarMass          float64  `json:"average_molar_mass" validate:"gt=0"`
	CVolume                   float64  `json:"c_volume" validate:"gt=0"`
	DiffusionFlameTemperature float64  `json:"T_diffusion_flame" validate:"gt=0"`
	Skeleton                  GasPhase `json:"skeleton_gas_phase"`
	OutSkeleton               GasPhase `json:"out_skeleton_gas_phase"`
}

// SkeletonLayer holds the porous metal layer properties.
type SkeletonLayer struct {
	Porosity        float64 `json:"porosity" validate:"gte=0,lt=1"`
	CondensedLambda float64 `json:"condensed_lambda" validate:"gt=0"`
}

// Component is one ingredient. Particle fields are only meaningful for
// ammonium perchlorate, agglomeration coefficients only for aluminium.
type Component struct {
	MassFraction              float64   `json:"mass_fraction" validate:"gte=0,lte=1"`
	Density                   float64   `json:"density" validate:"gt=0"`
	LargeParticlesFraction    float64   `json:"large_particles_fraction,omitempty" validate:"gte=0,lte=1"`
	AverageParticlesDiameter  float64   `json:"average_particles_diameter,omitempty" validate:"gte=0"`
	AgglomerationCoefficients []float64 `json:"agglomeration_coefficients,omitempty"`
}

// SmallParticlesFraction is 1 - LargeParticlesFraction.
func (c Component) SmallParticlesFraction() float64 {
	return 1.0 - c.LargeParticlesFraction
}

// Propellant is one catalog record.
type Propellant struct {
	Name                  string               `json:"name" validate:"required"`
	A                     float64              `json:"a" validate:"gt=0"`
	Nu                    float64              `json:"nu"`
	Density               float64              `json:"density" validate:"gt=0"`
	SpecificHeatCapacity  float64              `json:"specific_heat_capacity" validate:"gt=0"`
	InitialTemperature    float64              `json:"initial_temperature" validate:"gt=0"`
	SurfaceFractionCoeffs []float64            `json:"pocket_surface_fraction_coefficients" validate:"required,min=1"`
	ConfidenceIntervals   []ConfidenceInterval `json:"confidence_intervals,omitempty"`
	PocketMassFraction    float64              `json:"pocket_mass_fraction" validate:"gt=0,lte=1"`
	InterPocketGasPhase   GasPhase             `json:"inter_pocket_gas_phase"`
	PocketGasPhase        PocketGasPhase       `json:"pocket_gas_phase"`
	SkeletonLayer         *SkeletonLayer       `json:"skeleton_layer,omitempty"`
	Components            map[string]Component `json:"components" validate:"required"`
}

// LoadCatalog reads a JSON array of propellants from path.
func LoadCatalog(path string) ([]Propellant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	props, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return props, nil
}

// ParseCatalog decodes and validates a JSON array of propellants.
func ParseCatalog(r io.Reader) ([]Propellant, error) {
	var props []Propellant
	if err := json.NewDecoder(r).Decode(&props); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i := range props {
		if err := props[i].Validate(); err != nil {
			return nil, fmt.Errorf("propellant %d (%s): %w", i, props[i].Name, err)
		}
	}
	return props, nil
}

// Validate checks struct constraints and that the components the model
// depends on are present.
func (p *Propellant) Validate() error {
	if err := catalogValidate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPropellant, err)
	}
	for _, name := range []string{CombustibleBinder, AmmoniumPerchlorate, Aluminum} {
		c, ok := p.Components[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingComponent, name)
		}
		if err := catalogValidate.Struct(c); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPropellant, name, err)
		}
	}
	if p.SkeletonLayer != nil {
		if err := catalogValidate.Struct(p.SkeletonLayer); err != nil {
			return fmt.Errorf("%w: skeleton layer: %v", ErrInvalidPropellant, err)
		}
	}
	return nil
}

// ExperimentalBurnRate returns a·P^nu, m/s.
func (p *Propellant) ExperimentalBurnRate(pressure float64) float64 {
	return p.A * math.Pow(pressure, p.Nu)
}

// compoundMassFraction is the mass fraction of the pocket-forming compound:
// aluminium, binder and fine oxidizer.
func (p *Propellant) compoundMassFraction() float64 {
	al := p.Components[Aluminum]
	cb := p.Components[CombustibleBinder]
	ap := p.Components[AmmoniumPerchlorate]
	return al.MassFraction + cb.MassFraction + ap.MassFraction*ap.SmallParticlesFraction()
}

func (p *Propellant) regionVolumeFraction(regionMassFraction float64) float64 {
	al := p.Components[Aluminum]
	cb := p.Components[CombustibleBinder]
	ap := p.Components[AmmoniumPerchlorate]

	cmf := p.compoundMassFraction()
	if cmf == 0 {
		return 0
	}
	// Each component's share of the compound, rescaled to the region's
	// share of the whole propellant.
	scale := regionMassFraction * cmf
	vf := (al.MassFraction/cmf*scale)/al.Density +
		(cb.MassFraction/cmf*scale)/cb.Density +
		(ap.MassFraction*ap.SmallParticlesFraction()/cmf*scale)/ap.Density
	return vf * p.Density
}

// InterPocketVolumeFraction is the volume share of the inter-pocket region.
func (p *Propellant) InterPocketVolumeFraction() float64 {
	return p.regionVolumeFraction(1.0 - p.PocketMassFraction)
}

// PocketVolumeFraction is the volume share of the pocket region.
func (p *Propellant) PocketVolumeFraction() float64 {
	return p.regionVolumeFraction(p.PocketMassFraction)
}

// AverageOxidizerDiameter is the mean ammonium perchlorate particle size, m.
func (p *Propellant) AverageOxidizerDiameter() float64 {
	return p.Components[AmmoniumPerchlorate].AverageParticlesDiameter
}

// SkeletonSurfaceFraction is the share of the pocket surface covered by the
// metal skeleton at the given pressure.
func (p *Propellant) SkeletonSurfaceFraction(pressure float64) float64 {
	return polynomial(p.SurfaceFractionCoeffs, pressure/1e6) / p.PocketMassFraction
}

// MetalMeltingTemperature, K.
func (p *Propellant) MetalMeltingTemperature() float64 {
	return MetalMeltingTemperature
}

// MetalBoilingTemperature at the given pressure, K.
func (p *Propellant) MetalBoilingTemperature(pressure float64) float64 {
	return polynomial(MetalBoilingCoefficients[:], pressure/1e6)
}

// Skeleton returns the skeleton layer with defaults filled in.
func (p *Propellant) Skeleton() SkeletonLayer {
	if p.SkeletonLayer == nil {
		return SkeletonLayer{Porosity: DefaultPorosity, CondensedLambda: DefaultCondensedConductivity}
	}
	return *p.SkeletonLayer
}
