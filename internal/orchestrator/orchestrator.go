// Package orchestrator coordinates a full analysis run:
// baseline → sensitivity → Monte Carlo → break-even → report files.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"impact-npv-lab/internal/breakeven"
	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/montecarlo"
	"impact-npv-lab/internal/npv"
	"impact-npv-lab/internal/registry"
	"impact-npv-lab/internal/reporting"
	"impact-npv-lab/internal/sensitivity"
	"impact-npv-lab/internal/storage"
)

// Orchestrator runs every analysis phase against one baseline registry and
// persists the outputs.
type Orchestrator struct {
	reg *registry.Registry

	resultStore  storage.ScenarioResultStore
	summaryStore storage.MonteCarloSummaryStore
	trialStore   storage.TrialStore

	discountRate *float64
	trials       int
	seed         int64
	workers      int
	outputDir    string
	verbose      bool
	clock        func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Registry is the baseline parameter set; nil means registry.Default().
	Registry *registry.Registry

	// Required stores
	ResultStore  storage.ScenarioResultStore
	SummaryStore storage.MonteCarloSummaryStore

	// TrialStore is optional; when nil raw trials are not persisted.
	TrialStore storage.TrialStore

	// DiscountRate overrides the registry discount rate when non-nil. A
	// pointer distinguishes an explicit 0% run from no override.
	DiscountRate *float64

	// Trials <= 0 skips the Monte Carlo phase.
	Trials  int
	Seed    int64
	Workers int

	// OutputDir receives the report files; empty skips file output.
	OutputDir string

	Verbose bool
}

// RunResult contains results from an orchestrator run.
type RunResult struct {
	ScenariosComputed int
	SweepPoints       int
	GridsComputed     int
	BoundsComputed    int
	TrialsRun         int
	BreakevenRows     int
	Errors            []string
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	return &Orchestrator{
		reg:          reg,
		resultStore:  opts.ResultStore,
		summaryStore: opts.SummaryStore,
		trialStore:   opts.TrialStore,
		discountRate: opts.DiscountRate,
		trials:       opts.Trials,
		seed:         opts.Seed,
		workers:      opts.Workers,
		outputDir:    opts.OutputDir,
		verbose:      opts.Verbose,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic report output.
func (o *Orchestrator) WithClock(clock func() time.Time) *Orchestrator {
	o.clock = clock
	return o
}

// Run executes all phases.
// Phases:
//  1. Baseline LNPV for all 32 scenarios
//  2. Sensitivity sweeps, grids and bounds
//  3. Monte Carlo (when trials > 0)
//  4. Break-even and report files
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	// Phase 1: Baseline
	o.log("Phase 1: Computing baseline scenarios...")
	results, err := o.runBaseline(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (baseline) failed: %w", err)
	}
	result.ScenariosComputed = len(results)
	o.log("  Computed %d scenarios", len(results))

	// Phase 2: Sensitivity
	o.log("Phase 2: Running sensitivity analysis...")
	sens, sensErrors := o.runSensitivity()
	result.SweepPoints = len(sens.sweepPoints)
	result.GridsComputed = len(sens.grids)
	result.BoundsComputed = len(sens.bounds)
	result.Errors = append(result.Errors, sensErrors...)
	o.log("  %d sweep points, %d grids, %d bounds results (%d errors)",
		result.SweepPoints, result.GridsComputed, result.BoundsComputed, len(sensErrors))

	// Phase 3: Monte Carlo
	var summaries []domain.MonteCarloSummary
	if o.trials > 0 {
		o.log("Phase 3: Running Monte Carlo (%d trials)...", o.trials)
		mc, mcErrors, err := o.runMonteCarlo(ctx)
		if err != nil {
			return nil, fmt.Errorf("phase 3 (monte carlo) failed: %w", err)
		}
		summaries = mc
		result.TrialsRun = o.trials
		result.Errors = append(result.Errors, mcErrors...)
		o.log("  Summarized %d scenarios (%d trial errors)", len(summaries), len(mcErrors))
	} else {
		o.log("Phase 3: Skipping Monte Carlo (trials=%d)", o.trials)
	}

	// Phase 4: Break-even and report
	o.log("Phase 4: Break-even analysis and report...")
	rows, err := o.runReport(ctx, sens)
	if err != nil {
		return nil, fmt.Errorf("phase 4 (report) failed: %w", err)
	}
	result.BreakevenRows = rows

	o.log("Run completed: %d scenarios, %d sweep points, %d trials",
		result.ScenariosComputed, result.SweepPoints, result.TrialsRun)

	return result, nil
}

func (o *Orchestrator) runBaseline(ctx context.Context) ([]domain.ScenarioResult, error) {
	calc := npv.NewCalculator(o.reg)

	var results []domain.ScenarioResult
	if o.discountRate != nil {
		for _, sc := range domain.AllScenarios() {
			r, err := calc.ComputeWithDiscount(sc, *o.discountRate)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}
	} else {
		var err error
		results, err = calc.ComputeAllParallel(ctx, o.workers)
		if err != nil {
			return nil, err
		}
	}

	stored := make([]*domain.ScenarioResult, 0, len(results))
	for i := range results {
		stored = append(stored, &results[i])
	}
	if err := o.resultStore.InsertBulk(ctx, stored); err != nil {
		return nil, fmt.Errorf("store baseline results: %w", err)
	}
	return results, nil
}

// sensitivityOutput bundles the phase 2 artifacts handed to the report phase.
type sensitivityOutput struct {
	sweepPoints []domain.SweepPoint
	grids       []domain.SweepGrid
	bounds      []domain.BoundsResult
}

func (o *Orchestrator) runSensitivity() (sensitivityOutput, []string) {
	sweeper := sensitivity.NewSweeper(o.reg)

	var out sensitivityOutput
	var errs []string

	sweeps := []struct {
		name string
		run  func() (sensitivity.SweepOutcome, error)
	}{
		{"initial premium", func() (sensitivity.SweepOutcome, error) {
			return sweeper.SweepInitialPremium(nil)
		}},
		{"half-life", func() (sensitivity.SweepOutcome, error) {
			return sweeper.SweepHalfLife(nil)
		}},
		{"formal entry", func() (sensitivity.SweepOutcome, error) {
			return sweeper.SweepFormalEntry(nil)
		}},
		{"test score", func() (sensitivity.SweepOutcome, error) {
			return sweeper.SweepTestScore(nil)
		}},
	}
	for _, sw := range sweeps {
		outcome, err := sw.run()
		if err != nil {
			errs = append(errs, fmt.Sprintf("sweep %s: %v", sw.name, err))
			continue
		}
		out.sweepPoints = append(out.sweepPoints, outcome.Points...)
		for _, e := range outcome.Errors {
			errs = append(errs, fmt.Sprintf("sweep %s: %v", sw.name, e))
		}
	}

	premiumGrids, err := sweeper.PremiumHalfLifeGrid(nil, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("premium/half-life grid: %v", err))
	} else {
		out.grids = append(out.grids, premiumGrids...)
	}

	mincerGrids, err := sweeper.FormalMincerGrid(nil, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("formal/mincer grid: %v", err))
	} else {
		out.grids = append(out.grids, mincerGrids...)
	}

	bounds, err := sweeper.Bounds(sensitivity.DefaultBounds())
	if err != nil {
		errs = append(errs, fmt.Sprintf("bounds: %v", err))
	} else {
		out.bounds = bounds
	}

	return out, errs
}

func (o *Orchestrator) runMonteCarlo(ctx context.Context) ([]domain.MonteCarloSummary, []string, error) {
	runner := montecarlo.NewRunner(o.reg)
	mc, err := runner.Run(ctx, montecarlo.Config{
		Trials:  o.trials,
		Seed:    o.seed,
		Workers: o.workers,
	})
	if err != nil {
		return nil, nil, err
	}

	var errs []string
	for _, e := range mc.Errors {
		errs = append(errs, e.Error())
	}

	summaries := make([]*domain.MonteCarloSummary, 0, len(mc.Summaries))
	for i := range mc.Summaries {
		summaries = append(summaries, &mc.Summaries[i])
	}
	if err := o.summaryStore.InsertBulk(ctx, summaries); err != nil {
		return nil, nil, fmt.Errorf("store monte carlo summaries: %w", err)
	}

	if o.trialStore != nil {
		trials := make([]*domain.TrialRecord, 0, len(mc.Trials))
		for i := range mc.Trials {
			trials = append(trials, &mc.Trials[i])
		}
		if err := o.trialStore.InsertBulk(ctx, trials); err != nil {
			return nil, nil, fmt.Errorf("store trial records: %w", err)
		}
	}

	return mc.Summaries, errs, nil
}

func (o *Orchestrator) runReport(ctx context.Context, sens sensitivityOutput) (int, error) {
	var summaryStore storage.MonteCarloSummaryStore
	if o.trials > 0 {
		summaryStore = o.summaryStore
	}
	gen := reporting.NewGenerator(o.resultStore, summaryStore).
		WithClock(o.clock).
		WithBounds(sens.bounds)

	report, err := gen.Generate(ctx)
	if err != nil {
		return 0, err
	}

	if o.outputDir == "" {
		return len(report.Breakeven), nil
	}

	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return 0, err
	}

	files := map[string]string{
		"REPORT.md":              reporting.RenderMarkdown(report),
		"baseline_results.csv":   reporting.RenderBaselineCSV(report.Baseline),
		"sensitivity_sweeps.csv": reporting.RenderSweepCSV(sens.sweepPoints),
		"montecarlo_summary.csv": reporting.RenderMonteCarloCSV(report.MonteCarlo),
		"breakeven.csv":          reporting.RenderBreakevenCSV(report.Breakeven),
		"bounds.csv":             reporting.RenderBoundsCSV(report.Bounds),
	}
	for name, content := range files {
		path := filepath.Join(o.outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return 0, fmt.Errorf("write %s: %w", name, err)
		}
	}

	// One file per two-way sweep grid
	for _, grid := range sens.grids {
		name := fmt.Sprintf("heatmap_%s_%s_%s.csv", grid.RowParam, grid.ColParam, grid.ScenarioID)
		path := filepath.Join(o.outputDir, name)
		if err := os.WriteFile(path, []byte(reporting.RenderGridCSV(grid)), 0644); err != nil {
			return 0, fmt.Errorf("write %s: %w", name, err)
		}
	}

	// Percentile break-even from Monte Carlo, when run
	if o.trials > 0 {
		summaries, err := o.summaryStore.GetAll(ctx)
		if err != nil {
			return 0, err
		}
		vals := make([]domain.MonteCarloSummary, 0, len(summaries))
		for _, s := range summaries {
			vals = append(vals, *s)
		}
		percentiles := breakeven.NewAnalyzer(nil).FromMonteCarlo(vals)
		path := filepath.Join(o.outputDir, "breakeven_percentiles.csv")
		if err := os.WriteFile(path, []byte(renderPercentileCSV(percentiles)), 0644); err != nil {
			return 0, fmt.Errorf("write breakeven_percentiles.csv: %w", err)
		}
	}

	return len(report.Breakeven), nil
}

func renderPercentileCSV(rows []domain.PercentileBreakeven) string {
	out := "scenario_id,threshold,max_cost_p5,max_cost_median,max_cost_p95\n"
	for _, r := range rows {
		for i, th := range r.Thresholds {
			out += fmt.Sprintf("%s,%g,%.2f,%.2f,%.2f\n",
				r.ScenarioID, th, r.MaxCostP5[i], r.MaxCostMedian[i], r.MaxCostP95[i])
		}
	}
	return out
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
