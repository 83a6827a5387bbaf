package export

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Coefficients are the per-kg conversion factors for one waste category.
// They are configuration, not business logic: operators may override the
// defaults with a YAML file.
type Coefficients struct {
	CreditsPerKg float64 `yaml:"credits_per_kg"`
	CO2PerKg     float64 `yaml:"co2_per_kg"`
	CompostPerKg float64 `yaml:"compost_per_kg"`
}

type CoefficientTable map[Category]Coefficients

func DefaultCoefficients() CoefficientTable {
	return CoefficientTable{
		CategoryFertilizer: {CreditsPerKg: 3.5, CO2PerKg: 1.5, CompostPerKg: 0.3},
		CategoryBioFuel:    {CreditsPerKg: 2.5, CO2PerKg: 1.8, CompostPerKg: 0.0},
		CategoryAnimalFeed: {CreditsPerKg: 2.0, CO2PerKg: 1.2, CompostPerKg: 0.1},
	}
}

// LoadCoefficients reads a coefficient table from a YAML file. Missing
// categories fall back to the defaults; unknown categories or negative
// factors are rejected.
func LoadCoefficients(path string) (CoefficientTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coefficients file: %w", err)
	}

	var parsed map[string]Coefficients
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse coefficients file: %w", err)
	}

	table := DefaultCoefficients()
	for name, c := range parsed {
		category := Category(name)
		if !ValidCategory(category) {
			return nil, fmt.Errorf("unknown category %q in coefficients file", name)
		}
		if c.CreditsPerKg < 0 || c.CO2PerKg < 0 || c.CompostPerKg < 0 {
			return nil, fmt.Errorf("negative coefficient for category %q", name)
		}
		table[category] = c
	}

	return table, nil
}

// Derive computes the credit and impact fields for a given weight. Pure:
// same weight and category always yield identical results.
func (t CoefficientTable) Derive(weight float64, category Category) (credits int, co2Kg, compostKg float64) {
	c := t[category]
	credits = int(math.Floor(weight * c.CreditsPerKg))
	co2Kg = weight * c.CO2PerKg
	compostKg = weight * c.CompostPerKg
	return credits, co2Kg, compostKg
}
