// Package sensitivity implements the deterministic uncertainty layers:
// one-way parameter sweeps, two-way value grids, and the named
// pessimistic/baseline/optimistic assumption bundles. Every variant run
// clones the baseline registry and mutates only the copy.
package sensitivity

import (
	"fmt"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/npv"
	"impact-npv-lab/internal/registry"
)

// Default sweep grids.
var (
	// DefaultPremiumMultipliers scale the intervention initial premium.
	DefaultPremiumMultipliers = []float64{0.7, 0.85, 1.0, 1.15, 1.3}

	// DefaultHalfLives in years; 50 approximates no decay.
	DefaultHalfLives = []float64{5, 10, 15, 20, 50}

	// DefaultFormalEntryDeltas are additive shifts in percentage points.
	DefaultFormalEntryDeltas = []float64{-0.05, -0.025, 0, 0.025, 0.05}

	// DefaultTestScores are test-score gains in standard deviations.
	DefaultTestScores = []float64{0.15, 0.20, 0.23, 0.26, 0.30}
)

// SweepOutcome carries the points of a sweep plus per-combination failures.
// A failed (value, scenario) pair never aborts the rest of the sweep.
type SweepOutcome struct {
	Points []domain.SweepPoint
	Errors []error
}

// Sweeper runs sensitivity passes against a read-only baseline registry.
type Sweeper struct {
	base *registry.Registry
}

// NewSweeper builds a sweeper over the baseline. The baseline is cloned per
// variant, never mutated.
func NewSweeper(base *registry.Registry) *Sweeper {
	return &Sweeper{base: base}
}

// Sweep runs a one-way sweep of one parameter over the given override values,
// producing one point per (value, scenario) for the scenarios given (all 32
// when scenarios is nil). An unknown parameter name fails immediately;
// per-scenario computation failures are collected in the outcome.
func (s *Sweeper) Sweep(param string, values []float64, scenarios []domain.Scenario) (SweepOutcome, error) {
	if _, err := s.base.Lookup(param); err != nil {
		return SweepOutcome{}, err
	}
	if scenarios == nil {
		scenarios = domain.AllScenarios()
	}

	var out SweepOutcome
	for _, value := range values {
		reg := s.base.Clone()
		if err := reg.Override(param, value); err != nil {
			return SweepOutcome{}, err
		}
		calc := npv.NewCalculator(reg)

		for _, sc := range scenarios {
			res, err := calc.Compute(sc)
			if err != nil {
				out.Errors = append(out.Errors, fmt.Errorf("sweep %s=%v scenario %s: %w", param, value, sc.ScenarioID, err))
				continue
			}
			out.Points = append(out.Points, domain.SweepPoint{
				ScenarioID:   res.ScenarioID,
				Intervention: res.Intervention,
				Region:       res.Region,
				Gender:       res.Gender,
				Location:     res.Location,
				Param:        param,
				Value:        value,
				LNPV:         res.LNPV,
			})
		}
	}
	return out, nil
}

// SweepInitialPremium scales each intervention's initial premium by the given
// multipliers across the full grid. The education premium parameter is swept
// for completeness even though the education benefit is carried through
// schooling years rather than the premium.
func (s *Sweeper) SweepInitialPremium(multipliers []float64) (SweepOutcome, error) {
	if multipliers == nil {
		multipliers = DefaultPremiumMultipliers
	}

	var out SweepOutcome
	for _, intervention := range domain.Interventions() {
		param := registry.ParamEducationInitialPremium
		if intervention == domain.InterventionApprenticeship {
			param = registry.ParamApprenticeInitialPremium
		}
		base, err := s.base.Lookup(param)
		if err != nil {
			return SweepOutcome{}, err
		}

		values := make([]float64, len(multipliers))
		for i, m := range multipliers {
			values[i] = base.Value * m
		}
		partial, err := s.Sweep(param, values, interventionScenarios(intervention))
		if err != nil {
			return SweepOutcome{}, err
		}
		out.Points = append(out.Points, partial.Points...)
		out.Errors = append(out.Errors, partial.Errors...)
	}
	return out, nil
}

// SweepHalfLife varies the apprenticeship decay half-life. Education
// scenarios are included for comparison even though they carry no decay.
func (s *Sweeper) SweepHalfLife(halfLives []float64) (SweepOutcome, error) {
	if halfLives == nil {
		halfLives = DefaultHalfLives
	}
	return s.Sweep(registry.ParamApprenticeDecayHalfLife, halfLives, nil)
}

// SweepFormalEntry shifts the treatment formal-entry probabilities by
// additive percentage-point deltas, clipped to [0.05, 0.95].
func (s *Sweeper) SweepFormalEntry(deltas []float64) (SweepOutcome, error) {
	if deltas == nil {
		deltas = DefaultFormalEntryDeltas
	}
	baseHS, err := s.base.Lookup(registry.ParamPFormalHigherSecondary)
	if err != nil {
		return SweepOutcome{}, err
	}
	baseApp, err := s.base.Lookup(registry.ParamPFormalApprentice)
	if err != nil {
		return SweepOutcome{}, err
	}

	var out SweepOutcome
	for _, delta := range deltas {
		reg := s.base.Clone()
		if err := reg.Override(registry.ParamPFormalHigherSecondary, clipProbability(baseHS.Value+delta)); err != nil {
			return SweepOutcome{}, err
		}
		if err := reg.Override(registry.ParamPFormalApprentice, clipProbability(baseApp.Value+delta)); err != nil {
			return SweepOutcome{}, err
		}
		calc := npv.NewCalculator(reg)

		for _, sc := range domain.AllScenarios() {
			res, err := calc.Compute(sc)
			if err != nil {
				out.Errors = append(out.Errors, fmt.Errorf("formal-entry delta %v scenario %s: %w", delta, sc.ScenarioID, err))
				continue
			}
			out.Points = append(out.Points, domain.SweepPoint{
				ScenarioID:   res.ScenarioID,
				Intervention: res.Intervention,
				Region:       res.Region,
				Gender:       res.Gender,
				Location:     res.Location,
				Param:        registry.ParamPFormalApprentice,
				Value:        delta,
				LNPV:         res.LNPV,
			})
		}
	}
	return out, nil
}

// SweepTestScore varies the education test-score gain over the education
// scenarios only.
func (s *Sweeper) SweepTestScore(testScores []float64) (SweepOutcome, error) {
	if testScores == nil {
		testScores = DefaultTestScores
	}
	return s.Sweep(registry.ParamTestScoreGain, testScores, interventionScenarios(domain.InterventionEducation))
}

// interventionScenarios filters the fixed grid to one intervention.
func interventionScenarios(intervention domain.Intervention) []domain.Scenario {
	var out []domain.Scenario
	for _, sc := range domain.AllScenarios() {
		if sc.Intervention == intervention {
			out = append(out, sc)
		}
	}
	return out
}

func clipProbability(p float64) float64 {
	if p < 0.05 {
		return 0.05
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}
