package model

import "impact-npv-lab/internal/domain"

// ageBand is an inclusive age range with its unemployment rate.
type ageBand struct {
	minAge, maxAge int
	rate           float64
}

// defaultUnemploymentRate applies outside every band.
const defaultUnemploymentRate = 0.05

// EmploymentModel converts raw wages into expected wages by applying
// age-band unemployment rates, with a modest reduction for higher-secondary
// and above education.
type EmploymentModel struct {
	bands []ageBand
}

// NewEmploymentModel builds the model with PLFS-derived age-band rates.
func NewEmploymentModel() *EmploymentModel {
	return &EmploymentModel{
		bands: []ageBand{
			{18, 25, 0.15}, // youth
			{26, 35, 0.05},
			{36, 55, 0.04},
			{56, 65, 0.08},
		},
	}
}

// UnemploymentRate returns the unemployment rate for the given age and
// education tier.
func (m *EmploymentModel) UnemploymentRate(age int, tier domain.EducationTier) float64 {
	rate := defaultUnemploymentRate
	for _, b := range m.bands {
		if age >= b.minAge && age <= b.maxAge {
			rate = b.rate
			break
		}
	}
	if tier >= domain.TierHigherSecondary {
		rate *= 0.9
	}
	return rate
}

// EmploymentProbability returns P(employed) for the given age and tier.
func (m *EmploymentModel) EmploymentProbability(age int, tier domain.EducationTier) float64 {
	return 1 - m.UnemploymentRate(age, tier)
}

// ExpectedWages multiplies each year's wage by the employment probability at
// the corresponding age. The input is not modified; the result has the same
// length.
func (m *EmploymentModel) ExpectedWages(wages []float64, entryAge int, tier domain.EducationTier) []float64 {
	out := make([]float64, len(wages))
	for t, w := range wages {
		out[t] = w * m.EmploymentProbability(entryAge+t, tier)
	}
	return out
}
