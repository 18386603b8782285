package reporting

import (
	"context"
	"time"

	"impact-npv-lab/internal/breakeven"
	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	resultStore  storage.ScenarioResultStore
	summaryStore storage.MonteCarloSummaryStore
	analyzer     *breakeven.Analyzer
	bounds       []domain.BoundsResult
	now          func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. The summary store may be nil
// when Monte Carlo was not run.
func NewGenerator(resultStore storage.ScenarioResultStore, summaryStore storage.MonteCarloSummaryStore) *Generator {
	return &Generator{
		resultStore:  resultStore,
		summaryStore: summaryStore,
		analyzer:     breakeven.NewAnalyzer(nil),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithBounds attaches bounds-analysis results to the generated report.
func (g *Generator) WithBounds(bounds []domain.BoundsResult) *Generator {
	g.bounds = bounds
	return g
}

// Generate produces a complete report from stored results.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	stored, err := g.resultStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ScenarioResult, 0, len(stored))
	baseline := make([]ScenarioRow, 0, len(stored))
	discountRate := 0.0
	for _, r := range stored {
		results = append(results, *r)
		baseline = append(baseline, ScenarioRow{
			ScenarioID:                r.ScenarioID,
			Intervention:              string(r.Intervention),
			Region:                    string(r.Region),
			Gender:                    string(r.Gender),
			Location:                  string(r.Location),
			LNPV:                      r.LNPV,
			TreatmentLifetimeEarnings: r.TreatmentLifetimeEarnings,
			ControlLifetimeEarnings:   r.ControlLifetimeEarnings,
			PFormalTreatment:          r.PFormalTreatment,
		})
		discountRate = r.DiscountRate
	}

	breakevenRows := g.analyzer.Baseline(results)
	regional := g.analyzer.Regional(breakevenRows)

	report := &Report{
		GeneratedAt:   g.now(),
		ScenarioCount: len(baseline),
		DiscountRate:  discountRate,
		Baseline:      baseline,
		Breakeven:     convertBreakeven(breakevenRows),
		Regional:      convertRegional(regional),
	}

	if g.summaryStore != nil {
		summaries, err := g.summaryStore.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range summaries {
			report.MonteCarlo = append(report.MonteCarlo, MonteCarloRow{
				ScenarioID:   s.ScenarioID,
				Trials:       s.Trials,
				Mean:         s.Mean,
				Median:       s.Median,
				Std:          s.Std,
				P5:           s.P5,
				P25:          s.P25,
				P75:          s.P75,
				P95:          s.P95,
				ProbPositive: s.ProbPositive,
			})
		}
	}

	for _, b := range g.bounds {
		report.Bounds = append(report.Bounds, BoundsRow{
			BoundName:  b.BoundName,
			ScenarioID: b.ScenarioID,
			LNPV:       b.LNPV,
			MaxCostTop: b.MaxCostTop,
		})
	}

	return report, nil
}

func convertBreakeven(rows []domain.BreakevenRow) []BreakevenRow {
	out := make([]BreakevenRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, BreakevenRow{
			ScenarioID:    r.ScenarioID,
			LNPV:          r.LNPVBaseline,
			Thresholds:    r.Thresholds,
			MaxCost:       r.MaxCost,
			CostTolerance: r.CostTolerance,
			Rank:          r.RobustnessRank,
		})
	}
	return out
}

func convertRegional(rows []domain.RegionalBreakeven) []RegionalRow {
	out := make([]RegionalRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, RegionalRow{
			Intervention: string(r.Intervention),
			Region:       string(r.Region),
			MeanLNPV:     r.MeanLNPV,
			Thresholds:   r.Thresholds,
			MeanMaxCost:  r.MeanMaxCost,
		})
	}
	return out
}
