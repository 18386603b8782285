package reporting

import "time"

// Report represents the full analysis report structure.
type Report struct {
	// Metadata
	GeneratedAt   time.Time
	ScenarioCount int
	DiscountRate  float64

	// Baseline scenario results (sorted by scenario_id)
	Baseline []ScenarioRow

	// Break-even economics derived from the baseline
	Breakeven []BreakevenRow
	Regional  []RegionalRow

	// Monte Carlo distribution summaries (sorted by scenario_id)
	MonteCarlo []MonteCarloRow

	// Bounds analysis under named assumption bundles, if run
	Bounds []BoundsRow
}

// ScenarioRow represents one row in the baseline results table.
type ScenarioRow struct {
	ScenarioID   string
	Intervention string
	Region       string
	Gender       string
	Location     string

	LNPV                      float64
	TreatmentLifetimeEarnings float64
	ControlLifetimeEarnings   float64
	PFormalTreatment          float64
}

// BreakevenRow represents one row in the break-even table. Thresholds and
// MaxCost are parallel.
type BreakevenRow struct {
	ScenarioID    string
	LNPV          float64
	Thresholds    []float64
	MaxCost       []float64
	CostTolerance float64
	Rank          int
}

// RegionalRow aggregates break-even economics over one (intervention, region).
type RegionalRow struct {
	Intervention string
	Region       string
	MeanLNPV     float64
	Thresholds   []float64
	MeanMaxCost  []float64
}

// MonteCarloRow represents one row in the distribution summary table.
type MonteCarloRow struct {
	ScenarioID   string
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

// BoundsRow represents one scenario under one assumption bundle.
type BoundsRow struct {
	BoundName  string
	ScenarioID string
	LNPV       float64
	MaxCostTop float64
}
