// Package montecarlo propagates parameter uncertainty through the NPV
// calculator: N independent trials, each drawing the high-uncertainty
// parameters plus a standing set of lower-tier extras (Mincer return,
// discount rate) from their declared distributions and resolving all 32
// scenarios, aggregated into per-scenario summary statistics.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/npv"
	"impact-npv-lab/internal/registry"
)

// Runner errors.
var (
	// ErrInvalidTrials rejects non-positive trial counts.
	ErrInvalidTrials = errors.New("trial count must be positive")
)

// Default run settings.
const (
	DefaultTrials = 1000
	DefaultSeed   = 42
)

// DefaultExtraParams are the lower-tier parameters still resampled every
// trial alongside the tier selection: the Mincer return and the social
// discount rate.
var DefaultExtraParams = []string{
	registry.ParamMincerReturnHS,
	registry.ParamSocialDiscountRate,
}

// Config controls one Monte Carlo run.
type Config struct {
	Trials int
	Seed   int64

	// Workers caps concurrent trials; defaults to GOMAXPROCS.
	Workers int

	// Tiers selects which uncertainty tiers are resampled per trial;
	// defaults to tier 1 only.
	Tiers []int

	// ExtraParams names individual parameters resampled per trial on top of
	// the tier selection. Nil selects DefaultExtraParams; an empty slice
	// selects none.
	ExtraParams []string
}

// Result is the outcome of a run: per-scenario summaries in grid order, the
// raw per-trial records in (trial, scenario) order, and per-trial failures.
// A failed trial never aborts the remaining trials.
type Result struct {
	Summaries []domain.MonteCarloSummary
	Trials    []domain.TrialRecord
	Errors    []error
}

// Runner executes Monte Carlo runs against a read-only baseline registry.
type Runner struct {
	base *registry.Registry
}

// NewRunner builds a runner over the baseline. Each trial clones the
// baseline before sampling; the baseline itself is never written.
func NewRunner(base *registry.Registry) *Runner {
	return &Runner{base: base}
}

// Run executes cfg.Trials independent trials across a worker pool and
// aggregates the per-scenario NPV distributions.
//
// Reproducibility: trial i derives its own generator from seed + i, so
// results are bit-identical regardless of worker count or scheduling order.
func (r *Runner) Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Trials <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidTrials, cfg.Trials)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tiers := cfg.Tiers
	if tiers == nil {
		tiers = []int{1}
	}
	extraParams := cfg.ExtraParams
	if extraParams == nil {
		extraParams = DefaultExtraParams
	}

	scenarios := domain.AllScenarios()

	// Per-trial slots keep output deterministic under parallel execution.
	trialRecords := make([][]domain.TrialRecord, cfg.Trials)
	trialErrs := make([]error, cfg.Trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for trial := 0; trial < cfg.Trials; trial++ {
		trial := trial
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := r.runTrial(cfg.Seed, trial, tiers, extraParams, scenarios)
			if err != nil {
				// Isolated: recorded, remaining trials proceed.
				trialErrs[trial] = fmt.Errorf("trial %d: %w", trial, err)
				return nil
			}
			trialRecords[trial] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{}
	lnpvsByScenario := make(map[string][]float64, len(scenarios))
	for trial := 0; trial < cfg.Trials; trial++ {
		if err := trialErrs[trial]; err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		for _, rec := range trialRecords[trial] {
			result.Trials = append(result.Trials, rec)
			lnpvsByScenario[rec.ScenarioID] = append(lnpvsByScenario[rec.ScenarioID], rec.LNPV)
		}
	}

	for _, sc := range scenarios {
		result.Summaries = append(result.Summaries, summarize(sc, lnpvsByScenario[sc.ScenarioID]))
	}
	return result, nil
}

// runTrial samples one registry variant and resolves every scenario with it.
func (r *Runner) runTrial(seed int64, trial int, tiers []int, extraParams []string, scenarios []domain.Scenario) ([]domain.TrialRecord, error) {
	rng := rand.New(rand.NewSource(seed + int64(trial)))

	reg := r.base.Clone()
	sampled, err := reg.SampleTiers(rng, tiers...)
	if err != nil {
		return nil, err
	}

	// Extras already covered by the tier selection are not drawn twice.
	extras := make([]string, 0, len(extraParams))
	for _, name := range extraParams {
		if _, ok := sampled[name]; !ok {
			extras = append(extras, name)
		}
	}
	extraSampled, err := reg.SampleParams(rng, extras)
	if err != nil {
		return nil, err
	}
	for name, v := range extraSampled {
		sampled[name] = v
	}

	calc := npv.NewCalculator(reg)
	records := make([]domain.TrialRecord, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := calc.Compute(sc)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.ScenarioID, err)
		}
		records = append(records, domain.TrialRecord{
			Trial:      trial,
			ScenarioID: sc.ScenarioID,
			LNPV:       res.LNPV,
			Sampled:    sampled,
		})
	}
	return records, nil
}

// summarize aggregates one scenario's trial NPVs.
func summarize(sc domain.Scenario, lnpvs []float64) domain.MonteCarloSummary {
	sorted := make([]float64, len(lnpvs))
	copy(sorted, lnpvs)
	sort.Float64s(sorted)

	m := mean(lnpvs)
	return domain.MonteCarloSummary{
		ScenarioID:   sc.ScenarioID,
		Intervention: sc.Intervention,
		Region:       sc.Cell.Region,
		Gender:       sc.Cell.Gender,
		Location:     sc.Cell.Location,

		Trials:       len(lnpvs),
		Mean:         m,
		Median:       percentile(sorted, 0.50),
		Std:          sampleStddev(lnpvs, m),
		P5:           percentile(sorted, 0.05),
		P25:          percentile(sorted, 0.25),
		P75:          percentile(sorted, 0.75),
		P95:          percentile(sorted, 0.95),
		ProbPositive: probPositive(lnpvs),
	}
}
