package carbon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Factors is the emission factor table: kg CO₂-equivalent per unit for each
// activity variant. The table is immutable configuration assembled once at
// process start and injected into the Evaluator; nothing in the engine
// mutates it after construction.
type Factors struct {
	GridElectricity float64 `yaml:"grid_electricity"` // kg CO₂e per kWh
	DieselFuel      float64 `yaml:"diesel_fuel"`      // kg CO₂e per liter
	Transport       float64 `yaml:"transport"`        // kg CO₂e per km
	WasteLandfill   float64 `yaml:"waste_landfill"`   // kg CO₂e per kg
	WaterSupply     float64 `yaml:"water_supply"`     // kg CO₂e per m³
}

// DefaultFactors returns the canonical factor table.
func DefaultFactors() Factors {
	return Factors{
		GridElectricity: 0.5,
		DieselFuel:      2.68,
		Transport:       0.17,
		WasteLandfill:   0.5,
		WaterSupply:     0.34,
	}
}

// LoadFactors reads a YAML factor file and overlays it onto the defaults.
// Fields omitted from the file keep their default value; non-positive values
// are rejected so a bad override cannot zero out the table.
func LoadFactors(path string) (Factors, error) {
	factors := DefaultFactors()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Factors{}, fmt.Errorf("read factor file: %w", err)
	}

	var overlay struct {
		GridElectricity *float64 `yaml:"grid_electricity"`
		DieselFuel      *float64 `yaml:"diesel_fuel"`
		Transport       *float64 `yaml:"transport"`
		WasteLandfill   *float64 `yaml:"waste_landfill"`
		WaterSupply     *float64 `yaml:"water_supply"`
	}
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Factors{}, fmt.Errorf("parse factor file: %w", err)
	}

	apply := func(dst *float64, src *float64, name string) error {
		if src == nil {
			return nil
		}
		if *src <= 0 {
			return fmt.Errorf("factor %s must be positive, got %v", name, *src)
		}
		*dst = *src
		return nil
	}

	if err := apply(&factors.GridElectricity, overlay.GridElectricity, "grid_electricity"); err != nil {
		return Factors{}, err
	}
	if err := apply(&factors.DieselFuel, overlay.DieselFuel, "diesel_fuel"); err != nil {
		return Factors{}, err
	}
	if err := apply(&factors.Transport, overlay.Transport, "transport"); err != nil {
		return Factors{}, err
	}
	if err := apply(&factors.WasteLandfill, overlay.WasteLandfill, "waste_landfill"); err != nil {
		return Factors{}, err
	}
	if err := apply(&factors.WaterSupply, overlay.WaterSupply, "water_supply"); err != nil {
		return Factors{}, err
	}

	return factors, nil
}
