// Package model implements the earnings machinery: the Mincer wage equation,
// the age-band employment adjustment, and the working-life trajectory
// generator that composes the two with premium decay and real wage growth.
package model

import (
	"math"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/registry"
)

// WageModel computes monthly wages from schooling, experience and
// demographics via a Mincer-style log-linear equation over the registry's
// baseline wage and regional tables.
type WageModel struct {
	reg *registry.Registry
}

// NewWageModel builds a wage model over the given registry. The registry is
// read, never mutated.
func NewWageModel(reg *registry.Registry) *WageModel {
	return &WageModel{reg: reg}
}

// MonthlyWage returns the monthly wage in INR for the given schooling,
// experience, sector and demographic cell, with an additional proportional
// premium applied on top.
//
// Factors compose by simple product: baseline wage, education premium
// exp(region_mincer * (schooling - 12)), experience premium
// exp(b1*exp + b2*exp^2), regional wage adjustment, the formal-sector
// multiplier (formal only), and (1 + premium). A premium of exactly -1
// zeroes the wage; negative wages are not clamped, callers guarantee
// premium > -1.
func (m *WageModel) MonthlyWage(yearsSchooling, experience float64, sector domain.Sector, cell domain.DemographicCell, premium float64) (float64, error) {
	if err := cell.Validate(); err != nil {
		return 0, err
	}

	mincerReturn, err := m.reg.Regional.MincerReturn(cell.Region, m.reg.MincerReturnHS.Value)
	if err != nil {
		return 0, err
	}
	educationPremium := math.Exp(mincerReturn * (yearsSchooling - 12))

	b1 := m.reg.ExperienceLinear.Value
	b2 := m.reg.ExperienceQuad.Value
	experiencePremium := math.Exp(b1*experience + b2*experience*experience)

	// Nearest education tier for the baseline lookup.
	tier := domain.TierSecondary
	if yearsSchooling >= 12 {
		tier = domain.TierHigherSecondary
	}
	baseWage, err := m.reg.Wages.Lookup(cell.Location, cell.Gender, tier, sector)
	if err != nil {
		return 0, err
	}
	baseWage, err = m.reg.Regional.AdjustWage(baseWage, cell.Region)
	if err != nil {
		return 0, err
	}

	formalMultiplier := 1.0
	if sector == domain.SectorFormal {
		formalMultiplier = m.reg.FormalMultiplier.Value
	}

	return baseWage * educationPremium * experiencePremium * formalMultiplier * (1 + premium), nil
}
