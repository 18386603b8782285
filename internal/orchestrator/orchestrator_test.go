package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"impact-npv-lab/internal/storage/memory"
)

func TestOrchestrator_Run_WithoutMonteCarlo(t *testing.T) {
	ctx := context.Background()
	resultStore := memory.NewScenarioResultStore()
	summaryStore := memory.NewMonteCarloSummaryStore()

	orch := New(Options{
		ResultStore:  resultStore,
		SummaryStore: summaryStore,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.ScenariosComputed != 32 {
		t.Errorf("expected 32 scenarios, got %d", result.ScenariosComputed)
	}
	if result.TrialsRun != 0 {
		t.Errorf("expected 0 trials, got %d", result.TrialsRun)
	}
	if result.BreakevenRows != 32 {
		t.Errorf("expected 32 break-even rows, got %d", result.BreakevenRows)
	}
	if result.SweepPoints == 0 {
		t.Error("expected sweep points")
	}
	if result.GridsComputed == 0 {
		t.Error("expected grids")
	}
	if result.BoundsComputed != 96 {
		t.Errorf("expected 96 bounds results (3 bundles x 32 scenarios), got %d", result.BoundsComputed)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}

	stored, err := resultStore.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll results: %v", err)
	}
	if len(stored) != 32 {
		t.Errorf("expected 32 stored results, got %d", len(stored))
	}

	summaries, err := summaryStore.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll summaries: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries without monte carlo, got %d", len(summaries))
	}
}

func TestOrchestrator_Run_WithMonteCarloAndOutput(t *testing.T) {
	ctx := context.Background()
	resultStore := memory.NewScenarioResultStore()
	summaryStore := memory.NewMonteCarloSummaryStore()
	trialStore := memory.NewTrialStore()
	outputDir := t.TempDir()

	orch := New(Options{
		ResultStore:  resultStore,
		SummaryStore: summaryStore,
		TrialStore:   trialStore,
		Trials:       20,
		Seed:         42,
		Workers:      4,
		OutputDir:    outputDir,
	}).WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	result, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.TrialsRun != 20 {
		t.Errorf("expected 20 trials, got %d", result.TrialsRun)
	}

	summaries, err := summaryStore.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll summaries: %v", err)
	}
	if len(summaries) != 32 {
		t.Errorf("expected 32 summaries, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.Trials != 20 {
			t.Errorf("summary %s trials = %d, want 20", s.ScenarioID, s.Trials)
		}
	}

	trials, err := trialStore.GetByScenarioID(ctx, "education_west_male_urban")
	if err != nil {
		t.Fatalf("GetByScenarioID trials: %v", err)
	}
	if len(trials) != 20 {
		t.Errorf("expected 20 trial records, got %d", len(trials))
	}

	for _, name := range []string{
		"REPORT.md",
		"baseline_results.csv",
		"sensitivity_sweeps.csv",
		"montecarlo_summary.csv",
		"breakeven.csv",
		"bounds.csv",
		"breakeven_percentiles.csv",
	} {
		info, err := os.Stat(filepath.Join(outputDir, name))
		if err != nil {
			t.Errorf("missing output file %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("output file %s is empty", name)
		}
	}

	// One heatmap CSV per two-way grid: 2 grid types x 2 representative scenarios.
	heatmaps, err := filepath.Glob(filepath.Join(outputDir, "heatmap_*.csv"))
	if err != nil {
		t.Fatalf("glob heatmaps: %v", err)
	}
	if len(heatmaps) != result.GridsComputed {
		t.Errorf("got %d heatmap files, want %d (one per grid)", len(heatmaps), result.GridsComputed)
	}
	content, err := os.ReadFile(filepath.Join(outputDir,
		"heatmap_mincer_return_hs_p_formal_higher_secondary_education_west_male_urban.csv"))
	if err != nil {
		t.Fatalf("read mincer/p_formal heatmap: %v", err)
	}
	wantHeader := "scenario_id,mincer_return_hs,p_formal_higher_secondary,lnpv\n"
	if !strings.HasPrefix(string(content), wantHeader) {
		t.Errorf("heatmap header = %q, want prefix %q", string(content)[:len(wantHeader)], wantHeader)
	}
}

func TestOrchestrator_Run_DiscountOverride(t *testing.T) {
	ctx := context.Background()

	baseStore := memory.NewScenarioResultStore()
	orchBase := New(Options{ResultStore: baseStore, SummaryStore: memory.NewMonteCarloSummaryStore()})
	if _, err := orchBase.Run(ctx); err != nil {
		t.Fatalf("baseline run: %v", err)
	}

	override := 0.10
	lowStore := memory.NewScenarioResultStore()
	orchLow := New(Options{
		ResultStore:  lowStore,
		SummaryStore: memory.NewMonteCarloSummaryStore(),
		DiscountRate: &override,
	})
	if _, err := orchLow.Run(ctx); err != nil {
		t.Fatalf("discounted run: %v", err)
	}

	base, err := baseStore.GetByScenarioID(ctx, "education_west_male_urban")
	if err != nil {
		t.Fatalf("get baseline result: %v", err)
	}
	low, err := lowStore.GetByScenarioID(ctx, "education_west_male_urban")
	if err != nil {
		t.Fatalf("get discounted result: %v", err)
	}

	if low.DiscountRate != 0.10 {
		t.Errorf("discount rate = %v, want 0.10", low.DiscountRate)
	}
	if base.LNPV == low.LNPV {
		t.Error("expected different LNPV under a different discount rate")
	}
}

func TestOrchestrator_Run_ZeroDiscountOverride(t *testing.T) {
	ctx := context.Background()

	zero := 0.0
	store := memory.NewScenarioResultStore()
	orch := New(Options{
		ResultStore:  store,
		SummaryStore: memory.NewMonteCarloSummaryStore(),
		DiscountRate: &zero,
	})
	if _, err := orch.Run(ctx); err != nil {
		t.Fatalf("zero-discount run: %v", err)
	}

	res, err := store.GetByScenarioID(ctx, "education_west_male_urban")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if res.DiscountRate != 0 {
		t.Errorf("discount rate = %v, want explicit 0", res.DiscountRate)
	}

	// Undiscounted LNPV is the plain sum of the differential.
	sum := 0.0
	for _, d := range res.AnnualDifferential {
		sum += d
	}
	if diff := res.LNPV - sum; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("undiscounted LNPV %v != differential sum %v", res.LNPV, sum)
	}
}
