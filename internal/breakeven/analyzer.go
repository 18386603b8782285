// Package breakeven derives maximum-allowable-cost figures from NPV outputs:
// the highest per-beneficiary program cost at which the benefit-cost ratio
// still meets a threshold.
package breakeven

import (
	"sort"

	"impact-npv-lab/internal/domain"
)

// DefaultThresholds are the benefit-cost-ratio targets, loosest first.
var DefaultThresholds = []float64{1, 2, 3}

// Analyzer computes break-even records against a fixed threshold list. The
// strictest (largest) threshold drives the robustness ranking.
type Analyzer struct {
	thresholds []float64
}

// NewAnalyzer builds an analyzer; nil thresholds selects the defaults.
func NewAnalyzer(thresholds []float64) *Analyzer {
	if thresholds == nil {
		thresholds = DefaultThresholds
	}
	return &Analyzer{thresholds: thresholds}
}

// MaxCost is LNPV / threshold, defined as 0 when LNPV <= 0. A non-positive
// NPV makes the ratio undefined; the zero floor is a deliberate convention,
// not an error.
func MaxCost(lnpv, threshold float64) float64 {
	if lnpv <= 0 {
		return 0
	}
	return lnpv / threshold
}

// Baseline computes one break-even row per scenario result, with robustness
// ranks assigned by allowable cost at the strictest threshold, descending.
func (a *Analyzer) Baseline(results []domain.ScenarioResult) []domain.BreakevenRow {
	rows := make([]domain.BreakevenRow, 0, len(results))
	for _, res := range results {
		maxCost := make([]float64, len(a.thresholds))
		for i, threshold := range a.thresholds {
			maxCost[i] = MaxCost(res.LNPV, threshold)
		}
		rows = append(rows, domain.BreakevenRow{
			ScenarioID:   res.ScenarioID,
			Intervention: res.Intervention,
			Region:       res.Region,
			Gender:       res.Gender,
			Location:     res.Location,

			LNPVBaseline:  res.LNPV,
			Thresholds:    a.thresholds,
			MaxCost:       maxCost,
			CostTolerance: maxCost[0] - maxCost[len(maxCost)-1],
		})
	}
	a.rank(rows)
	return rows
}

// rank assigns robustness ranks by strictest-threshold allowable cost,
// highest cost first. Input order is preserved.
func (a *Analyzer) rank(rows []domain.BreakevenRow) {
	strictest := len(a.thresholds) - 1
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return rows[order[i]].MaxCost[strictest] > rows[order[j]].MaxCost[strictest]
	})
	for rank, idx := range order {
		rows[idx].RobustnessRank = rank + 1
	}
}

// Regional aggregates break-even rows into per (intervention, region) means,
// in grid enumeration order.
func (a *Analyzer) Regional(rows []domain.BreakevenRow) []domain.RegionalBreakeven {
	type key struct {
		intervention domain.Intervention
		region       domain.Region
	}
	groups := make(map[key][]domain.BreakevenRow)
	for _, row := range rows {
		k := key{row.Intervention, row.Region}
		groups[k] = append(groups[k], row)
	}

	var out []domain.RegionalBreakeven
	for _, intervention := range domain.Interventions() {
		for _, region := range domain.Regions() {
			group := groups[key{intervention, region}]
			if len(group) == 0 {
				continue
			}
			agg := domain.RegionalBreakeven{
				Intervention: intervention,
				Region:       region,
				Thresholds:   a.thresholds,
				MeanMaxCost:  make([]float64, len(a.thresholds)),
			}
			for _, row := range group {
				agg.MeanLNPV += row.LNPVBaseline
				agg.MeanTolerance += row.CostTolerance
				for i, c := range row.MaxCost {
					agg.MeanMaxCost[i] += c
				}
			}
			n := float64(len(group))
			agg.MeanLNPV /= n
			agg.MeanTolerance /= n
			for i := range agg.MeanMaxCost {
				agg.MeanMaxCost[i] /= n
			}
			out = append(out, agg)
		}
	}
	return out
}

// FromMonteCarlo derives break-even costs from Monte-Carlo percentiles
// rather than the point estimate: conservative (p5), central (median) and
// optimistic (p95) figures per scenario.
func (a *Analyzer) FromMonteCarlo(summaries []domain.MonteCarloSummary) []domain.PercentileBreakeven {
	out := make([]domain.PercentileBreakeven, 0, len(summaries))
	for _, s := range summaries {
		rec := domain.PercentileBreakeven{
			ScenarioID:    s.ScenarioID,
			Thresholds:    a.thresholds,
			MaxCostP5:     make([]float64, len(a.thresholds)),
			MaxCostMedian: make([]float64, len(a.thresholds)),
			MaxCostP95:    make([]float64, len(a.thresholds)),
		}
		for i, threshold := range a.thresholds {
			rec.MaxCostP5[i] = MaxCost(s.P5, threshold)
			rec.MaxCostMedian[i] = MaxCost(s.Median, threshold)
			rec.MaxCostP95[i] = MaxCost(s.P95, threshold)
		}
		out = append(out, rec)
	}
	return out
}
