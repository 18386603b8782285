package sensitivity

import (
	"fmt"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/npv"
	"impact-npv-lab/internal/registry"
)

// Bound is a named assumption bundle: coordinated parameter overrides plus a
// post-hoc selection-bias discount multiplied into the resulting LNPV. The
// discount models doubt about whether the observed effect is inflated by
// selection, so it applies to the outcome, never back through the wage model.
type Bound struct {
	Name string

	SelectionBiasDiscount float64
	TestScoreGain         float64
	DecayHalfLife         float64
	PFormalMultiplier     float64

	Description string
}

// Strictest benefit-cost-ratio threshold used for the headline break-even
// figure in bounds output.
const strictestThreshold = 3.0

// DefaultBounds returns the three standard assumption bundles in
// pessimistic, baseline, optimistic order.
func DefaultBounds() []Bound {
	return []Bound{
		{
			Name:                  "pessimistic",
			SelectionBiasDiscount: 0.6,
			TestScoreGain:         0.15,
			DecayHalfLife:         7,
			PFormalMultiplier:     0.8,
			Description:           "High selection bias, low school quality, rapid decay",
		},
		{
			Name:                  "baseline",
			SelectionBiasDiscount: 1.0,
			TestScoreGain:         0.23,
			DecayHalfLife:         10,
			PFormalMultiplier:     1.0,
			Description:           "Point estimates from data",
		},
		{
			Name:                  "optimistic",
			SelectionBiasDiscount: 1.0,
			TestScoreGain:         0.28,
			DecayHalfLife:         25,
			PFormalMultiplier:     1.15,
			Description:           "No selection bias, high-quality schools, persistent effects",
		},
	}
}

// Bounds computes every scenario's LNPV under each assumption bundle.
func (s *Sweeper) Bounds(bounds []Bound) ([]domain.BoundsResult, error) {
	if bounds == nil {
		bounds = DefaultBounds()
	}

	baseHS, err := s.base.Lookup(registry.ParamPFormalHigherSecondary)
	if err != nil {
		return nil, err
	}
	baseApp, err := s.base.Lookup(registry.ParamPFormalApprentice)
	if err != nil {
		return nil, err
	}

	var results []domain.BoundsResult
	for _, bound := range bounds {
		reg := s.base.Clone()
		overrides := map[string]float64{
			registry.ParamTestScoreGain:           bound.TestScoreGain,
			registry.ParamApprenticeDecayHalfLife: bound.DecayHalfLife,
			registry.ParamPFormalHigherSecondary:  clipProbability(baseHS.Value * bound.PFormalMultiplier),
			registry.ParamPFormalApprentice:       clipProbability(baseApp.Value * bound.PFormalMultiplier),
		}
		for name, value := range overrides {
			if err := reg.Override(name, value); err != nil {
				return nil, fmt.Errorf("bound %s: %w", bound.Name, err)
			}
		}

		calc := npv.NewCalculator(reg)
		for _, sc := range domain.AllScenarios() {
			res, err := calc.Compute(sc)
			if err != nil {
				return nil, fmt.Errorf("bound %s scenario %s: %w", bound.Name, sc.ScenarioID, err)
			}
			adjusted := res.LNPV * bound.SelectionBiasDiscount

			maxCost := 0.0
			if adjusted > 0 {
				maxCost = adjusted / strictestThreshold
			}
			results = append(results, domain.BoundsResult{
				BoundName:  bound.Name,
				ScenarioID: sc.ScenarioID,
				LNPV:       adjusted,
				MaxCostTop: maxCost,
			})
		}
	}
	return results, nil
}
