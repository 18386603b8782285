// Package domain defines the core types of the lifetime-NPV model:
// demographic dimensions, interventions, the 32-scenario grid and the
// result records consumed by the sensitivity/Monte-Carlo/break-even layers.
package domain

import "fmt"

// Gender dimension of a demographic cell.
type Gender string

// Gender constants.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Location dimension of a demographic cell.
type Location string

// Location constants.
const (
	LocationUrban Location = "urban"
	LocationRural Location = "rural"
)

// Region dimension of a demographic cell.
type Region string

// Region constants.
const (
	RegionNorth Region = "north"
	RegionSouth Region = "south"
	RegionEast  Region = "east"
	RegionWest  Region = "west"
)

// Sector is the employment sector of a wage trajectory.
type Sector string

// Sector constants.
const (
	SectorFormal   Sector = "formal"
	SectorInformal Sector = "informal"
)

// Intervention identifies the program variant being evaluated.
type Intervention string

// Intervention constants.
const (
	// InterventionEducation is the education-access program. Its benefit is
	// modeled as an education-equivalent (extra effective schooling years),
	// not a wage premium, so it carries no decay schedule.
	InterventionEducation Intervention = "education"

	// InterventionApprenticeship is the apprenticeship program. Its benefit is
	// a proportional wage premium with exponential half-life decay.
	InterventionApprenticeship Intervention = "apprenticeship"
)

// EducationTier is a schooling attainment level in completed years.
type EducationTier int

// Education tier constants (years of schooling).
const (
	TierPrimary         EducationTier = 5
	TierSecondary       EducationTier = 10
	TierHigherSecondary EducationTier = 12
	TierTertiary        EducationTier = 16
)

// DecayPolicy controls how an intervention wage premium fades over a career.
type DecayPolicy string

// Decay policy constants.
const (
	// DecayNone keeps the premium constant over the whole horizon.
	DecayNone DecayPolicy = "none"
	// DecayExponential applies standard half-life decay:
	// premium(t) = initial * exp(-ln2/halflife * t).
	DecayExponential DecayPolicy = "exponential"
	// DecayLinear decays to zero at t = 2*halflife:
	// premium(t) = max(0, initial * (1 - t/(2*halflife))).
	DecayLinear DecayPolicy = "linear"
)

// Genders lists the gender values in canonical order.
func Genders() []Gender { return []Gender{GenderMale, GenderFemale} }

// Locations lists the location values in canonical order.
func Locations() []Location { return []Location{LocationUrban, LocationRural} }

// Regions lists the region values in canonical order.
func Regions() []Region { return []Region{RegionNorth, RegionSouth, RegionEast, RegionWest} }

// Interventions lists the intervention values in canonical order.
func Interventions() []Intervention {
	return []Intervention{InterventionEducation, InterventionApprenticeship}
}

// Valid reports whether g is one of the enumerated genders.
func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// Valid reports whether l is one of the enumerated locations.
func (l Location) Valid() bool { return l == LocationUrban || l == LocationRural }

// Valid reports whether r is one of the enumerated regions.
func (r Region) Valid() bool {
	switch r {
	case RegionNorth, RegionSouth, RegionEast, RegionWest:
		return true
	}
	return false
}

// Valid reports whether s is one of the enumerated sectors.
func (s Sector) Valid() bool { return s == SectorFormal || s == SectorInformal }

// Valid reports whether i is one of the enumerated interventions.
func (i Intervention) Valid() bool {
	return i == InterventionEducation || i == InterventionApprenticeship
}

// Valid reports whether d is a known decay policy.
func (d DecayPolicy) Valid() bool {
	switch d {
	case DecayNone, DecayExponential, DecayLinear:
		return true
	}
	return false
}

// DemographicCell is the (gender, location, region) tuple keying the
// reference tables and indexing scenario results.
type DemographicCell struct {
	Gender   Gender
	Location Location
	Region   Region
}

// Validate rejects cells with components outside the enumerated sets.
// An invalid cell is a programming error, never silently defaulted.
func (c DemographicCell) Validate() error {
	if !c.Gender.Valid() {
		return fmt.Errorf("%w: gender %q", ErrInvalidCell, c.Gender)
	}
	if !c.Location.Valid() {
		return fmt.Errorf("%w: location %q", ErrInvalidCell, c.Location)
	}
	if !c.Region.Valid() {
		return fmt.Errorf("%w: region %q", ErrInvalidCell, c.Region)
	}
	return nil
}
