// Package npv implements the lifetime NPV calculator, the central unit of the
// engine: it turns one (intervention, demographic cell) pair into a single
// discounted present-value differential between a treatment wage path and a
// counterfactual control path.
package npv

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/model"
	"impact-npv-lab/internal/registry"
)

// Calculator errors.
var (
	// ErrInvalidDiscountRate rejects discount rates at or below -1, which make
	// the compounding denominator zero or sign-flipping.
	ErrInvalidDiscountRate = errors.New("discount rate must be greater than -1")
)

// Calculator computes the lifetime NPV of an intervention for one scenario
// at a time. A Calculator reads its registry and never mutates it, so a
// single instance is safe for concurrent use; variant runs construct a new
// Calculator over a cloned registry.
type Calculator struct {
	reg        *registry.Registry
	wages      *model.WageModel
	employment *model.EmploymentModel
}

// NewCalculator builds a calculator over the given registry snapshot.
func NewCalculator(reg *registry.Registry) *Calculator {
	return &Calculator{
		reg:        reg,
		wages:      model.NewWageModel(reg),
		employment: model.NewEmploymentModel(),
	}
}

// Compute resolves one scenario with the registry's social discount rate.
func (c *Calculator) Compute(sc domain.Scenario) (domain.ScenarioResult, error) {
	return c.ComputeWithDiscount(sc, c.reg.SocialDiscountRate.Value)
}

// ComputeWithDiscount resolves one scenario at an explicit discount rate.
// The rate affects only the discounting step; the annual differential is
// identical across rates.
func (c *Calculator) ComputeWithDiscount(sc domain.Scenario, discountRate float64) (domain.ScenarioResult, error) {
	if !sc.Intervention.Valid() {
		return domain.ScenarioResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidIntervention, sc.Intervention)
	}
	if err := sc.Cell.Validate(); err != nil {
		return domain.ScenarioResult{}, err
	}
	if discountRate <= -1 {
		return domain.ScenarioResult{}, fmt.Errorf("%w: %v", ErrInvalidDiscountRate, discountRate)
	}

	treatment, pFormal, err := c.treatmentTrajectory(sc.Intervention, sc.Cell)
	if err != nil {
		return domain.ScenarioResult{}, err
	}
	control, err := c.controlTrajectory(sc.Cell)
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	differential := make([]float64, len(treatment))
	npv, treatmentTotal, controlTotal := 0.0, 0.0, 0.0
	for t := range treatment {
		differential[t] = treatment[t] - control[t]
		npv += differential[t] / math.Pow(1+discountRate, float64(t))
		treatmentTotal += treatment[t]
		controlTotal += control[t]
	}

	return domain.ScenarioResult{
		Intervention: sc.Intervention,
		Region:       sc.Cell.Region,
		Gender:       sc.Cell.Gender,
		Location:     sc.Cell.Location,
		ScenarioID:   domain.ScenarioID(sc.Intervention, sc.Cell),

		LNPV:                      npv,
		TreatmentLifetimeEarnings: treatmentTotal,
		ControlLifetimeEarnings:   controlTotal,
		PFormalTreatment:          pFormal,
		AnnualDifferential:        differential,
		DiscountRate:              discountRate,
	}, nil
}

// treatmentTrajectory builds the intervention path: formal and informal
// trajectories blended by the intervention's formal-entry probability, then
// employment-adjusted.
//
// The probability source differs by intervention on purpose. The education
// program places graduates through the general regional labor market, so it
// uses the region-specific P(formal | HS). The apprenticeship program places
// through its own employer relationships, so it uses the single national
// absorption rate with no regional adjustment.
func (c *Calculator) treatmentTrajectory(intervention domain.Intervention, cell domain.DemographicCell) ([]float64, float64, error) {
	var (
		pFormal        float64
		yearsSchooling float64
		premium        model.PremiumSchedule
	)
	switch intervention {
	case domain.InterventionEducation:
		p, err := c.reg.Regional.PFormal(cell.Region)
		if err != nil {
			return nil, 0, err
		}
		pFormal = p
		// Benefit modeled as extra effective schooling years from test-score
		// gains, not a wage premium, so no decay schedule.
		yearsSchooling = 12 + c.reg.TestScoreGain.Value*c.reg.TestScoreToYears.Value
		premium = model.NoPremium()

	case domain.InterventionApprenticeship:
		pFormal = c.reg.PFormalApprentice.Value
		yearsSchooling = 12
		// Annual premium in INR normalized over a notional 12 x 20,000 INR
		// baseline year to get a proportional uplift.
		premium = model.PremiumSchedule{
			Initial:  c.reg.ApprenticeInitialPremium.Value / (12 * 20000),
			Decay:    domain.DecayExponential,
			HalfLife: c.reg.ApprenticeDecayHalfLife.Value,
		}

	default:
		return nil, 0, fmt.Errorf("%w: %q", domain.ErrInvalidIntervention, intervention)
	}

	workingYears := int(c.reg.WorkingLifeFormal.Value)

	formal, err := c.wages.Trajectory(model.TrajectoryRequest{
		YearsSchooling: yearsSchooling,
		Sector:         domain.SectorFormal,
		Cell:           cell,
		WorkingYears:   workingYears,
		Premium:        premium,
	})
	if err != nil {
		return nil, 0, err
	}
	informal, err := c.wages.Trajectory(model.TrajectoryRequest{
		YearsSchooling: yearsSchooling,
		Sector:         domain.SectorInformal,
		Cell:           cell,
		WorkingYears:   workingYears,
		Premium:        model.NoPremium(), // premium applies to formal placement only
	})
	if err != nil {
		return nil, 0, err
	}

	expected := blend(pFormal, formal, informal)
	expected = c.employment.ExpectedWages(expected, int(c.reg.LaborMarketEntryAge.Value), domain.TierHigherSecondary)
	return expected, pFormal, nil
}

// controlTrajectory builds the counterfactual path: a weighted blend of the
// schooling pathways a non-treated child follows, each itself a
// formal/informal blend at a regionally adjusted formal-entry probability.
func (c *Calculator) controlTrajectory(cell domain.DemographicCell) ([]float64, error) {
	workingYears := int(c.reg.WorkingLifeFormal.Value)
	total := make([]float64, workingYears)

	for _, pathway := range c.reg.Counterfactual.Pathways {
		pFormal, err := c.reg.Regional.AdjustPFormalControl(cell.Region, pathway.PFormal)
		if err != nil {
			return nil, err
		}

		formal, err := c.wages.Trajectory(model.TrajectoryRequest{
			YearsSchooling: pathway.SchoolingYears,
			Sector:         domain.SectorFormal,
			Cell:           cell,
			WorkingYears:   workingYears,
			Premium:        model.NoPremium(),
		})
		if err != nil {
			return nil, err
		}
		informal, err := c.wages.Trajectory(model.TrajectoryRequest{
			YearsSchooling: pathway.SchoolingYears,
			Sector:         domain.SectorInformal,
			Cell:           cell,
			WorkingYears:   workingYears,
			Premium:        model.NoPremium(),
		})
		if err != nil {
			return nil, err
		}

		blended := blend(pFormal, formal, informal)
		for t := range total {
			total[t] += pathway.Weight * blended[t]
		}
	}

	return c.employment.ExpectedWages(total, int(c.reg.LaborMarketEntryAge.Value), domain.TierHigherSecondary), nil
}

// ComputeAll resolves every scenario of the fixed 32-element grid in
// enumeration order.
func (c *Calculator) ComputeAll() ([]domain.ScenarioResult, error) {
	scenarios := domain.AllScenarios()
	results := make([]domain.ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := c.Compute(sc)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.ScenarioID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// ComputeAllParallel resolves the grid across a bounded worker pool. Output
// order matches ComputeAll exactly; the calculator is read-only so all
// workers share it.
func (c *Calculator) ComputeAllParallel(ctx context.Context, workers int) ([]domain.ScenarioResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scenarios := domain.AllScenarios()
	results := make([]domain.ScenarioResult, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.Compute(sc)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.ScenarioID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// blend mixes formal and informal series by the formal-entry probability.
func blend(pFormal float64, formal, informal []float64) []float64 {
	out := make([]float64, len(formal))
	for t := range formal {
		out[t] = pFormal*formal[t] + (1-pFormal)*informal[t]
	}
	return out
}
