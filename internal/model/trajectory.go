package model

import (
	"errors"
	"fmt"
	"math"

	"impact-npv-lab/internal/domain"
)

// Trajectory errors.
var (
	// ErrInvalidHorizon rejects non-positive working-life lengths.
	ErrInvalidHorizon = errors.New("working-life length must be positive")
)

// PremiumSchedule describes how an intervention wage premium evolves over a
// career: an initial proportional value plus a decay policy.
type PremiumSchedule struct {
	Initial  float64
	Decay    domain.DecayPolicy
	HalfLife float64
}

// NoPremium is the zero schedule used for non-intervention trajectories.
func NoPremium() PremiumSchedule {
	return PremiumSchedule{Decay: domain.DecayNone}
}

// At returns the premium in year t of working life.
func (s PremiumSchedule) At(t int) (float64, error) {
	switch s.Decay {
	case domain.DecayNone:
		return s.Initial, nil
	case domain.DecayExponential:
		return s.Initial * math.Exp(-math.Ln2/s.HalfLife*float64(t)), nil
	case domain.DecayLinear:
		return s.Initial * math.Max(0, 1-float64(t)/(2*s.HalfLife)), nil
	default:
		return 0, fmt.Errorf("unknown decay policy %q", s.Decay)
	}
}

// TrajectoryRequest fixes one (schooling, sector, cell, premium schedule)
// combination for which a full working-life wage series is wanted.
type TrajectoryRequest struct {
	YearsSchooling float64
	Sector         domain.Sector
	Cell           domain.DemographicCell
	WorkingYears   int
	Premium        PremiumSchedule

	// RealWageGrowth overrides the registry's rate when non-nil.
	RealWageGrowth *float64
}

// Trajectory produces the annual wage series for the request: for each year
// t, the Mincer monthly wage at experience t with the decayed premium,
// compounded by (1+g)^t real growth, times 12. The series is immutable once
// returned.
func (m *WageModel) Trajectory(req TrajectoryRequest) ([]float64, error) {
	if req.WorkingYears <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, req.WorkingYears)
	}
	growth := m.reg.RealWageGrowth.Value
	if req.RealWageGrowth != nil {
		growth = *req.RealWageGrowth
	}

	wages := make([]float64, req.WorkingYears)
	for t := 0; t < req.WorkingYears; t++ {
		premium, err := req.Premium.At(t)
		if err != nil {
			return nil, err
		}
		monthly, err := m.MonthlyWage(req.YearsSchooling, float64(t), req.Sector, req.Cell, premium)
		if err != nil {
			return nil, err
		}
		monthly *= math.Pow(1+growth, float64(t))
		wages[t] = monthly * 12
	}
	return wages, nil
}
