package sensitivity

import (
	"fmt"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/npv"
	"impact-npv-lab/internal/registry"
)

// GridRequest describes a two-way sweep: the cross product of two value
// axes evaluated for a small set of representative scenarios.
type GridRequest struct {
	RowParam  string
	ColParam  string
	RowValues []float64
	ColValues []float64

	// Scenarios to evaluate; defaults to one representative scenario per
	// intervention (west, male, urban) to keep grid count bounded.
	Scenarios []domain.Scenario

	// Apply sets the registry for one (row, col) cell. When nil both
	// parameters are overridden directly.
	Apply func(reg *registry.Registry, row, col float64) error
}

// Grid evaluates the two-way cross product, one value grid per scenario.
func (s *Sweeper) Grid(req GridRequest) ([]domain.SweepGrid, error) {
	scenarios := req.Scenarios
	if scenarios == nil {
		scenarios = RepresentativeScenarios()
	}
	apply := req.Apply
	if apply == nil {
		apply = func(reg *registry.Registry, row, col float64) error {
			if err := reg.Override(req.RowParam, row); err != nil {
				return err
			}
			return reg.Override(req.ColParam, col)
		}
	}

	grids := make([]domain.SweepGrid, 0, len(scenarios))
	for _, sc := range scenarios {
		grid := domain.SweepGrid{
			ScenarioID: sc.ScenarioID,
			RowParam:   req.RowParam,
			ColParam:   req.ColParam,
			RowValues:  req.RowValues,
			ColValues:  req.ColValues,
			Values:     make([][]float64, len(req.RowValues)),
		}
		for i, row := range req.RowValues {
			grid.Values[i] = make([]float64, len(req.ColValues))
			for j, col := range req.ColValues {
				reg := s.base.Clone()
				if err := apply(reg, row, col); err != nil {
					return nil, fmt.Errorf("grid cell (%v, %v): %w", row, col, err)
				}
				res, err := npv.NewCalculator(reg).Compute(sc)
				if err != nil {
					return nil, fmt.Errorf("grid cell (%v, %v) scenario %s: %w", row, col, sc.ScenarioID, err)
				}
				grid.Values[i][j] = res.LNPV
			}
		}
		grids = append(grids, grid)
	}
	return grids, nil
}

// RepresentativeScenarios returns the default two-way sweep scenarios: one
// per intervention, fixed at (west, male, urban).
func RepresentativeScenarios() []domain.Scenario {
	cell := domain.DemographicCell{
		Gender:   domain.GenderMale,
		Location: domain.LocationUrban,
		Region:   domain.RegionWest,
	}
	out := make([]domain.Scenario, 0, 2)
	for _, intervention := range domain.Interventions() {
		out = append(out, domain.Scenario{
			Intervention: intervention,
			Cell:         cell,
			ScenarioID:   domain.ScenarioID(intervention, cell),
		})
	}
	return out
}

// PremiumHalfLifeGrid crosses premium multipliers against decay half-lives.
// The premium axis is expressed as multipliers of each scenario's
// intervention premium, so each scenario gets its own grid.
func (s *Sweeper) PremiumHalfLifeGrid(halfLives, multipliers []float64) ([]domain.SweepGrid, error) {
	if halfLives == nil {
		halfLives = []float64{5, 7, 10, 15, 20, 30}
	}
	if multipliers == nil {
		multipliers = linspace(0.5, 1.5, 11)
	}

	var grids []domain.SweepGrid
	for _, sc := range RepresentativeScenarios() {
		premiumParam := registry.ParamEducationInitialPremium
		if sc.Intervention == domain.InterventionApprenticeship {
			premiumParam = registry.ParamApprenticeInitialPremium
		}
		base, err := s.base.Lookup(premiumParam)
		if err != nil {
			return nil, err
		}

		scGrids, err := s.Grid(GridRequest{
			RowParam:  registry.ParamApprenticeDecayHalfLife,
			ColParam:  premiumParam,
			RowValues: halfLives,
			ColValues: multipliers,
			Scenarios: []domain.Scenario{sc},
			Apply: func(reg *registry.Registry, halfLife, mult float64) error {
				if err := reg.Override(registry.ParamApprenticeDecayHalfLife, halfLife); err != nil {
					return err
				}
				return reg.Override(premiumParam, base.Value*mult)
			},
		})
		if err != nil {
			return nil, err
		}
		grids = append(grids, scGrids...)
	}
	return grids, nil
}

// FormalMincerGrid crosses the Mincer return against the formal-entry
// probability. The apprenticeship placement rate is moved in proportion to
// the swept higher-secondary probability, capped at 0.95.
func (s *Sweeper) FormalMincerGrid(mincerValues, pFormalValues []float64) ([]domain.SweepGrid, error) {
	if mincerValues == nil {
		mincerValues = linspace(0.05, 0.07, 9)
	}
	if pFormalValues == nil {
		pFormalValues = linspace(0.10, 0.30, 9)
	}

	const placementRatio = 0.75 / 0.20

	return s.Grid(GridRequest{
		RowParam:  registry.ParamMincerReturnHS,
		ColParam:  registry.ParamPFormalHigherSecondary,
		RowValues: mincerValues,
		ColValues: pFormalValues,
		Apply: func(reg *registry.Registry, mincer, pFormal float64) error {
			if err := reg.Override(registry.ParamMincerReturnHS, mincer); err != nil {
				return err
			}
			if err := reg.Override(registry.ParamPFormalHigherSecondary, pFormal); err != nil {
				return err
			}
			placement := pFormal * placementRatio
			if placement > 0.95 {
				placement = 0.95
			}
			return reg.Override(registry.ParamPFormalApprentice, placement)
		},
	})
}

// linspace returns n evenly spaced values over [lo, hi] inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
