package registry

import (
	"fmt"
	"math"

	"impact-npv-lab/internal/domain"
)

// BaselineWages holds baseline monthly wages in INR keyed by
// (location, gender, education tier, sector). Informal-sector baselines use
// the casual wage regardless of education tier; formal-sector baselines pick
// the secondary or higher-secondary salaried wage by nearest tier.
type BaselineWages struct {
	UrbanMaleSecondary       float64
	UrbanMaleHigherSecondary float64
	UrbanMaleCasual          float64

	UrbanFemaleSecondary       float64
	UrbanFemaleHigherSecondary float64
	UrbanFemaleCasual          float64

	RuralMaleSecondary       float64
	RuralMaleHigherSecondary float64
	RuralMaleCasual          float64

	RuralFemaleSecondary       float64
	RuralFemaleHigherSecondary float64
	RuralFemaleCasual          float64
}

// DefaultBaselineWages returns the PLFS 2023-24 baseline wage table.
func DefaultBaselineWages() BaselineWages {
	return BaselineWages{
		UrbanMaleSecondary:       26105,
		UrbanMaleHigherSecondary: 32800,
		UrbanMaleCasual:          13425,

		UrbanFemaleSecondary:       19879,
		UrbanFemaleHigherSecondary: 24928,
		UrbanFemaleCasual:          9129,

		RuralMaleSecondary:       18200,
		RuralMaleHigherSecondary: 22880,
		RuralMaleCasual:          11100,

		RuralFemaleSecondary:       12396,
		RuralFemaleHigherSecondary: 15558,
		RuralFemaleCasual:          7475,
	}
}

// Lookup returns the baseline monthly wage for the demographic cell.
// Components outside the enumerated sets are rejected.
func (w BaselineWages) Lookup(location domain.Location, gender domain.Gender, tier domain.EducationTier, sector domain.Sector) (float64, error) {
	type key struct {
		location domain.Location
		gender   domain.Gender
	}
	var secondary, higherSecondary, casual float64
	switch (key{location, gender}) {
	case key{domain.LocationUrban, domain.GenderMale}:
		secondary, higherSecondary, casual = w.UrbanMaleSecondary, w.UrbanMaleHigherSecondary, w.UrbanMaleCasual
	case key{domain.LocationUrban, domain.GenderFemale}:
		secondary, higherSecondary, casual = w.UrbanFemaleSecondary, w.UrbanFemaleHigherSecondary, w.UrbanFemaleCasual
	case key{domain.LocationRural, domain.GenderMale}:
		secondary, higherSecondary, casual = w.RuralMaleSecondary, w.RuralMaleHigherSecondary, w.RuralMaleCasual
	case key{domain.LocationRural, domain.GenderFemale}:
		secondary, higherSecondary, casual = w.RuralFemaleSecondary, w.RuralFemaleHigherSecondary, w.RuralFemaleCasual
	default:
		return 0, fmt.Errorf("%w: (%s, %s)", domain.ErrInvalidCell, location, gender)
	}

	switch sector {
	case domain.SectorInformal:
		return casual, nil
	case domain.SectorFormal:
		if tier >= domain.TierHigherSecondary {
			return higherSecondary, nil
		}
		return secondary, nil
	default:
		return 0, fmt.Errorf("invalid sector %q", sector)
	}
}

// RegionalParameters holds the region-specific adjustments applied on top of
// the national parameters.
type RegionalParameters struct {
	// MincerMultipliers scale the national Mincer return per region.
	MincerMultipliers map[domain.Region]float64

	// PFormalHS is the region-specific P(formal | higher secondary) used for
	// the education program's treatment path.
	PFormalHS map[domain.Region]float64

	// WagePremiums are flat proportional wage adjustments per region.
	WagePremiums map[domain.Region]float64

	// PFormalControlMultipliers scale the national counterfactual-pathway
	// formal-entry probabilities to regional labor-market conditions.
	PFormalControlMultipliers map[domain.Region]float64
}

// DefaultRegionalParameters returns the regional adjustment table.
func DefaultRegionalParameters() RegionalParameters {
	return RegionalParameters{
		MincerMultipliers: map[domain.Region]float64{
			domain.RegionNorth: 0.914, // 5.3% / 5.8%
			domain.RegionSouth: 1.069, // 6.2% / 5.8%
			domain.RegionWest:  1.000,
			domain.RegionEast:  0.879, // 5.1% / 5.8%
		},
		PFormalHS: map[domain.Region]float64{
			domain.RegionNorth: 0.15,
			domain.RegionSouth: 0.25,
			domain.RegionWest:  0.20,
			domain.RegionEast:  0.12,
		},
		WagePremiums: map[domain.Region]float64{
			domain.RegionNorth: -0.05,
			domain.RegionSouth: 0.10,
			domain.RegionWest:  0.05,
			domain.RegionEast:  -0.15,
		},
		PFormalControlMultipliers: map[domain.Region]float64{
			domain.RegionNorth: 0.90,
			domain.RegionSouth: 1.20,
			domain.RegionWest:  1.00,
			domain.RegionEast:  0.80,
		},
	}
}

// clone deep-copies the adjustment maps so a cloned registry never writes
// through to the baseline's tables.
func (rp RegionalParameters) clone() RegionalParameters {
	return RegionalParameters{
		MincerMultipliers:         cloneRegionMap(rp.MincerMultipliers),
		PFormalHS:                 cloneRegionMap(rp.PFormalHS),
		WagePremiums:              cloneRegionMap(rp.WagePremiums),
		PFormalControlMultipliers: cloneRegionMap(rp.PFormalControlMultipliers),
	}
}

func cloneRegionMap(m map[domain.Region]float64) map[domain.Region]float64 {
	c := make(map[domain.Region]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// MincerReturn applies the regional multiplier to the national return.
func (rp RegionalParameters) MincerReturn(region domain.Region, base float64) (float64, error) {
	m, ok := rp.MincerMultipliers[region]
	if !ok {
		return 0, fmt.Errorf("%w: region %q", domain.ErrInvalidCell, region)
	}
	return base * m, nil
}

// PFormal returns the region-specific P(formal | higher secondary).
func (rp RegionalParameters) PFormal(region domain.Region) (float64, error) {
	p, ok := rp.PFormalHS[region]
	if !ok {
		return 0, fmt.Errorf("%w: region %q", domain.ErrInvalidCell, region)
	}
	return p, nil
}

// AdjustWage applies the flat regional wage premium.
func (rp RegionalParameters) AdjustWage(wage float64, region domain.Region) (float64, error) {
	p, ok := rp.WagePremiums[region]
	if !ok {
		return 0, fmt.Errorf("%w: region %q", domain.ErrInvalidCell, region)
	}
	return wage * (1 + p), nil
}

// AdjustPFormalControl scales a national counterfactual formal-entry
// probability by the regional multiplier. Keeping counterfactual paths
// region-aware avoids overstating treatment effects where the general
// population already has strong formal-sector access.
func (rp RegionalParameters) AdjustPFormalControl(region domain.Region, base float64) (float64, error) {
	m, ok := rp.PFormalControlMultipliers[region]
	if !ok {
		return 0, fmt.Errorf("%w: region %q", domain.ErrInvalidCell, region)
	}
	return base * m, nil
}

// CounterfactualPathway is one schooling route a non-treated child might
// follow, with its weight in the population and its national formal-entry
// probability.
type CounterfactualPathway struct {
	Name           string
	Weight         float64
	SchoolingYears float64
	PFormal        float64
}

// CounterfactualDistribution is the schooling distribution of the
// no-intervention population.
type CounterfactualDistribution struct {
	Pathways []CounterfactualPathway
}

// DefaultCounterfactualDistribution returns the ASER 2023-24 derived
// pathway distribution.
func DefaultCounterfactualDistribution() CounterfactualDistribution {
	return CounterfactualDistribution{
		Pathways: []CounterfactualPathway{
			{Name: "government_school", Weight: 0.668, SchoolingYears: 10, PFormal: 0.12},
			{Name: "low_fee_private", Weight: 0.306, SchoolingYears: 11, PFormal: 0.15},
			{Name: "dropout", Weight: 0.026, SchoolingYears: 5, PFormal: 0.05},
		},
	}
}

// Validate checks the pathway weights sum to 1.
func (cd CounterfactualDistribution) Validate() error {
	total := 0.0
	for _, p := range cd.Pathways {
		total += p.Weight
	}
	if math.Abs(total-1.0) > 1e-3 {
		return fmt.Errorf("counterfactual pathway weights sum to %v, want 1", total)
	}
	return nil
}
