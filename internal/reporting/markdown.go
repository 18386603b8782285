package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Lifetime NPV Analysis\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Scenarios: %d | Discount rate: %.4f\n\n", r.ScenarioCount, r.DiscountRate))

	// Baseline Results
	sb.WriteString("## Baseline Results\n\n")
	if len(r.Baseline) > 0 {
		sb.WriteString("| Scenario | Intervention | Region | Gender | Location | LNPV | Treatment | Control | P(formal) |\n")
		sb.WriteString("|----------|--------------|--------|--------|----------|------|-----------|---------|----------|\n")
		for _, row := range r.Baseline {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s | %.3f |\n",
				row.ScenarioID, row.Intervention, row.Region, row.Gender, row.Location,
				FormatINR(row.LNPV),
				FormatINR(row.TreatmentLifetimeEarnings),
				FormatINR(row.ControlLifetimeEarnings),
				row.PFormalTreatment))
		}
	} else {
		sb.WriteString("No baseline results available.\n")
	}
	sb.WriteString("\n")

	// Break-even
	sb.WriteString("## Break-even Costs\n\n")
	if len(r.Breakeven) > 0 {
		sb.WriteString("| Scenario | LNPV |")
		for _, th := range r.Breakeven[0].Thresholds {
			sb.WriteString(fmt.Sprintf(" Max cost %gx |", th))
		}
		sb.WriteString(" Tolerance | Rank |\n")
		sb.WriteString("|----------|------|")
		for range r.Breakeven[0].Thresholds {
			sb.WriteString("------------|")
		}
		sb.WriteString("-----------|------|\n")
		for _, row := range r.Breakeven {
			sb.WriteString(fmt.Sprintf("| %s | %s |", row.ScenarioID, FormatINR(row.LNPV)))
			for _, c := range row.MaxCost {
				sb.WriteString(fmt.Sprintf(" %s |", FormatINR(c)))
			}
			sb.WriteString(fmt.Sprintf(" %s | %d |\n", FormatINR(row.CostTolerance), row.Rank))
		}
	} else {
		sb.WriteString("No break-even data available.\n")
	}
	sb.WriteString("\n")

	// Regional aggregation
	sb.WriteString("## Regional Break-even\n\n")
	if len(r.Regional) > 0 {
		sb.WriteString("| Intervention | Region | Mean LNPV |")
		for _, th := range r.Regional[0].Thresholds {
			sb.WriteString(fmt.Sprintf(" Mean max cost %gx |", th))
		}
		sb.WriteString("\n")
		sb.WriteString("|--------------|--------|-----------|")
		for range r.Regional[0].Thresholds {
			sb.WriteString("------------------|")
		}
		sb.WriteString("\n")
		for _, row := range r.Regional {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |", row.Intervention, row.Region, FormatINR(row.MeanLNPV)))
			for _, c := range row.MeanMaxCost {
				sb.WriteString(fmt.Sprintf(" %s |", FormatINR(c)))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No regional aggregation available.\n")
	}
	sb.WriteString("\n")

	// Monte Carlo
	sb.WriteString("## Monte Carlo Summary\n\n")
	if len(r.MonteCarlo) > 0 {
		sb.WriteString("| Scenario | Trials | Mean | Median | Std | P5 | P25 | P75 | P95 | P(LNPV>0) |\n")
		sb.WriteString("|----------|--------|------|--------|-----|----|-----|-----|-----|----------|\n")
		for _, row := range r.MonteCarlo {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s | %.3f |\n",
				row.ScenarioID, row.Trials,
				FormatINR(row.Mean), FormatINR(row.Median), FormatINR(row.Std),
				FormatINR(row.P5), FormatINR(row.P25), FormatINR(row.P75), FormatINR(row.P95),
				row.ProbPositive))
		}
	} else {
		sb.WriteString("No Monte Carlo data available.\n")
	}
	sb.WriteString("\n")

	// Bounds
	sb.WriteString("## Bounds Analysis\n\n")
	if len(r.Bounds) > 0 {
		sb.WriteString("| Bound | Scenario | LNPV | Max cost (strictest) |\n")
		sb.WriteString("|-------|----------|------|----------------------|\n")
		for _, row := range r.Bounds {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				row.BoundName, row.ScenarioID, FormatINR(row.LNPV), FormatINR(row.MaxCostTop)))
		}
	} else {
		sb.WriteString("No bounds analysis available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
