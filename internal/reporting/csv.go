package reporting

import (
	"fmt"
	"strings"

	"impact-npv-lab/internal/domain"
)

// RenderBaselineCSV renders baseline scenario rows as CSV string.
func RenderBaselineCSV(rows []ScenarioRow) string {
	var sb strings.Builder

	sb.WriteString("scenario_id,intervention,region,gender,location,")
	sb.WriteString("lnpv,treatment_lifetime_earnings,control_lifetime_earnings,p_formal_treatment\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%.2f,%.2f,%.2f,%.4f\n",
			r.ScenarioID,
			r.Intervention,
			r.Region,
			r.Gender,
			r.Location,
			r.LNPV,
			r.TreatmentLifetimeEarnings,
			r.ControlLifetimeEarnings,
			r.PFormalTreatment,
		))
	}

	return sb.String()
}

// RenderSweepCSV renders one-way sweep points as CSV string.
func RenderSweepCSV(points []domain.SweepPoint) string {
	var sb strings.Builder

	sb.WriteString("scenario_id,intervention,region,gender,location,param,value,lnpv\n")

	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%.6f,%.2f\n",
			p.ScenarioID,
			p.Intervention,
			p.Region,
			p.Gender,
			p.Location,
			p.Param,
			p.Value,
			p.LNPV,
		))
	}

	return sb.String()
}

// RenderGridCSV renders a two-way sweep grid as CSV in long format, one row
// per (row value, col value) cell.
func RenderGridCSV(grid domain.SweepGrid) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("scenario_id,%s,%s,lnpv\n", grid.RowParam, grid.ColParam))

	for i, rv := range grid.RowValues {
		for j, cv := range grid.ColValues {
			sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.2f\n",
				grid.ScenarioID, rv, cv, grid.Values[i][j]))
		}
	}

	return sb.String()
}

// RenderMonteCarloCSV renders distribution summaries as CSV string.
func RenderMonteCarloCSV(rows []MonteCarloRow) string {
	var sb strings.Builder

	sb.WriteString("scenario_id,trials,mean,median,std,p5,p25,p75,p95,prob_positive\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.4f\n",
			r.ScenarioID,
			r.Trials,
			r.Mean,
			r.Median,
			r.Std,
			r.P5,
			r.P25,
			r.P75,
			r.P95,
			r.ProbPositive,
		))
	}

	return sb.String()
}

// RenderBreakevenCSV renders break-even rows as CSV string. Threshold columns
// are taken from the first row; all rows of one analysis share thresholds.
func RenderBreakevenCSV(rows []BreakevenRow) string {
	var sb strings.Builder
	if len(rows) == 0 {
		return ""
	}

	sb.WriteString("scenario_id,lnpv")
	for _, th := range rows[0].Thresholds {
		sb.WriteString(fmt.Sprintf(",max_cost_%gx", th))
	}
	sb.WriteString(",cost_tolerance,robustness_rank\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.2f", r.ScenarioID, r.LNPV))
		for _, c := range r.MaxCost {
			sb.WriteString(fmt.Sprintf(",%.2f", c))
		}
		sb.WriteString(fmt.Sprintf(",%.2f,%d\n", r.CostTolerance, r.Rank))
	}

	return sb.String()
}

// RenderBoundsCSV renders bounds analysis rows as CSV string.
func RenderBoundsCSV(rows []BoundsRow) string {
	var sb strings.Builder

	sb.WriteString("bound,scenario_id,lnpv,max_cost_top\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.2f,%.2f\n",
			r.BoundName, r.ScenarioID, r.LNPV, r.MaxCostTop))
	}

	return sb.String()
}
