package domain

// ScenarioResult is the output record for one (intervention, cell) pair as
// produced by the lifetime NPV calculator. Consumed by the sensitivity,
// Monte-Carlo and break-even layers and by external reporting.
type ScenarioResult struct {
	Intervention Intervention
	Region       Region
	Gender       Gender
	Location     Location
	ScenarioID   string

	// LNPV is the discounted sum of the annual treatment-control differential.
	LNPV float64

	// Undiscounted lifetime earnings of each path, after the employment
	// adjustment.
	TreatmentLifetimeEarnings float64
	ControlLifetimeEarnings   float64

	// PFormalTreatment is the formal-sector entry probability actually used
	// for the treatment path (regional for education, national for
	// apprenticeship).
	PFormalTreatment float64

	// AnnualDifferential is treatment expected wages minus control expected
	// wages, year by working-life year, before discounting.
	AnnualDifferential []float64

	// DiscountRate is the rate applied to the differential.
	DiscountRate float64
}

// SweepPoint is one (override value, scenario) observation of a one-way
// sensitivity sweep.
type SweepPoint struct {
	ScenarioID   string
	Intervention Intervention
	Region       Region
	Gender       Gender
	Location     Location

	Param string  // registry name of the swept parameter
	Value float64 // override value applied
	LNPV  float64
}

// SweepGrid is the value grid of a two-way sensitivity sweep for a single
// scenario, indexed [row][col] by the two swept axes.
type SweepGrid struct {
	ScenarioID string
	RowParam   string
	ColParam   string
	RowValues  []float64
	ColValues  []float64
	Values     [][]float64 // len(RowValues) x len(ColValues)
}

// BoundsResult is the LNPV of one scenario under one named assumption bundle
// (pessimistic/baseline/optimistic), after the post-hoc selection-bias
// discount has been applied.
type BoundsResult struct {
	BoundName  string
	ScenarioID string
	LNPV       float64
	MaxCostTop float64 // break-even cost at the strictest BCR threshold
}

// TrialRecord is one Monte-Carlo draw for one scenario: the sampled parameter
// values and the resulting LNPV.
type TrialRecord struct {
	Trial      int
	ScenarioID string
	LNPV       float64
	Sampled    map[string]float64
}

// MonteCarloSummary aggregates the per-trial LNPV distribution of one
// scenario.
type MonteCarloSummary struct {
	ScenarioID   string
	Intervention Intervention
	Region       Region
	Gender       Gender
	Location     Location

	Trials       int
	Mean         float64
	Median       float64
	Std          float64
	P5           float64
	P25          float64
	P75          float64
	P95          float64
	ProbPositive float64
}

// BreakevenRow is the break-even record for one scenario: maximum allowable
// cost per beneficiary at each benefit-cost-ratio threshold.
type BreakevenRow struct {
	ScenarioID   string
	Intervention Intervention
	Region       Region
	Gender       Gender
	Location     Location

	LNPVBaseline float64

	// Thresholds and MaxCost are parallel; MaxCost[i] = LNPV/Thresholds[i],
	// floored at 0 when LNPV <= 0.
	Thresholds []float64
	MaxCost    []float64

	// CostTolerance is the spread between the loosest and strictest
	// threshold's allowable cost.
	CostTolerance float64

	// RobustnessRank orders scenarios by allowable cost at the strictest
	// threshold, 1 = most robust.
	RobustnessRank int
}

// RegionalBreakeven is the break-even aggregation over one
// (intervention, region) group: mean of the per-scenario figures.
type RegionalBreakeven struct {
	Intervention  Intervention
	Region        Region
	MeanLNPV      float64
	Thresholds    []float64
	MeanMaxCost   []float64
	MeanTolerance float64
}

// PercentileBreakeven is break-even derived from Monte-Carlo percentiles
// rather than the point estimate, one record per scenario.
type PercentileBreakeven struct {
	ScenarioID string
	Thresholds []float64

	// MaxCostP5/Median/P95 are parallel to Thresholds.
	MaxCostP5     []float64
	MaxCostMedian []float64
	MaxCostP95    []float64
}
