package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	// ErrInvalidCell is returned for a demographic cell component outside the
	// enumerated set.
	ErrInvalidCell = errors.New("invalid demographic cell")

	// ErrInvalidIntervention is returned for an intervention outside the
	// enumerated set.
	ErrInvalidIntervention = errors.New("invalid intervention")
)

// Scenario is one (intervention, demographic cell) combination of the fixed
// 32-scenario grid. ScenarioID is derived once at construction and used as
// the join key across all downstream layers.
type Scenario struct {
	Intervention Intervention
	Cell         DemographicCell
	ScenarioID   string
}

// NewScenario builds a scenario and its derived identifier.
// Returns an error for components outside the enumerated sets.
func NewScenario(intervention Intervention, cell DemographicCell) (Scenario, error) {
	if !intervention.Valid() {
		return Scenario{}, fmt.Errorf("%w: %q", ErrInvalidIntervention, intervention)
	}
	if err := cell.Validate(); err != nil {
		return Scenario{}, err
	}
	return Scenario{
		Intervention: intervention,
		Cell:         cell,
		ScenarioID:   ScenarioID(intervention, cell),
	}, nil
}

// ScenarioID derives the human-readable identifier
// {intervention}_{region}_{gender}_{location}.
func ScenarioID(intervention Intervention, cell DemographicCell) string {
	return fmt.Sprintf("%s_%s_%s_%s", intervention, cell.Region, cell.Gender, cell.Location)
}

// AllScenarios enumerates the full cross product
// {2 interventions} x {4 regions} x {2 genders} x {2 locations} = 32
// in insertion-stable order.
func AllScenarios() []Scenario {
	scenarios := make([]Scenario, 0, 32)
	for _, intervention := range Interventions() {
		for _, region := range Regions() {
			for _, gender := range Genders() {
				for _, location := range Locations() {
					scenarios = append(scenarios, Scenario{
						Intervention: intervention,
						Cell:         DemographicCell{Gender: gender, Location: location, Region: region},
						ScenarioID:   ScenarioID(intervention, DemographicCell{Gender: gender, Location: location, Region: region}),
					})
				}
			}
		}
	}
	return scenarios
}
