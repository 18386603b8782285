package montecarlo

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"

	"impact-npv-lab/internal/registry"
)

func TestRunRejectsNonPositiveTrials(t *testing.T) {
	r := NewRunner(registry.Default())
	if _, err := r.Run(context.Background(), Config{Trials: 0}); !errors.Is(err, ErrInvalidTrials) {
		t.Errorf("want ErrInvalidTrials, got %v", err)
	}
}

func TestRunReproducibleAcrossWorkerCounts(t *testing.T) {
	base := registry.Default()

	serial, err := NewRunner(base).Run(context.Background(), Config{Trials: 50, Seed: 42, Workers: 1})
	if err != nil {
		t.Fatalf("serial run: %v", err)
	}
	parallel, err := NewRunner(base).Run(context.Background(), Config{Trials: 50, Seed: 42, Workers: 8})
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}

	if len(serial.Summaries) != 32 || len(parallel.Summaries) != 32 {
		t.Fatalf("summary counts: %d and %d, want 32", len(serial.Summaries), len(parallel.Summaries))
	}
	for i := range serial.Summaries {
		a, b := serial.Summaries[i], parallel.Summaries[i]
		if a.ScenarioID != b.ScenarioID {
			t.Fatalf("summary order differs: %s vs %s", a.ScenarioID, b.ScenarioID)
		}
		if a.Mean != b.Mean || a.Median != b.Median || a.Std != b.Std ||
			a.P5 != b.P5 || a.P25 != b.P25 || a.P75 != b.P75 || a.P95 != b.P95 ||
			a.ProbPositive != b.ProbPositive {
			t.Errorf("%s: summaries differ across worker counts", a.ScenarioID)
		}
	}
}

func TestRunDifferentSeedsDiffer(t *testing.T) {
	base := registry.Default()

	a, err := NewRunner(base).Run(context.Background(), Config{Trials: 20, Seed: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := NewRunner(base).Run(context.Background(), Config{Trials: 20, Seed: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	same := true
	for i := range a.Summaries {
		if a.Summaries[i].Mean != b.Summaries[i].Mean {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical summaries")
	}
}

func TestRunSamplesExtraParamsByDefault(t *testing.T) {
	base := registry.Default()

	res, err := NewRunner(base).Run(context.Background(), Config{Trials: 10, Seed: 42, Workers: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{registry.ParamMincerReturnHS, registry.ParamSocialDiscountRate} {
		values := map[float64]struct{}{}
		for _, rec := range res.Trials {
			v, ok := rec.Sampled[name]
			if !ok {
				t.Fatalf("trial %d: %s missing from sampled parameters", rec.Trial, name)
			}
			values[v] = struct{}{}
		}
		if len(values) < 2 {
			t.Errorf("%s held constant across trials, want per-trial draws", name)
		}
	}
}

func TestRunEmptyExtraParamsDisablesThem(t *testing.T) {
	base := registry.Default()

	res, err := NewRunner(base).Run(context.Background(), Config{
		Trials: 5, Seed: 42, Workers: 1, ExtraParams: []string{},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, rec := range res.Trials {
		if _, ok := rec.Sampled[registry.ParamMincerReturnHS]; ok {
			t.Fatal("mincer return sampled despite empty extra-parameter list")
		}
		if _, ok := rec.Sampled[registry.ParamSocialDiscountRate]; ok {
			t.Fatal("discount rate sampled despite empty extra-parameter list")
		}
	}
}

func TestRunLeavesBaselineUntouched(t *testing.T) {
	base := registry.Default()
	if _, err := NewRunner(base).Run(context.Background(), Config{Trials: 10, Seed: 7}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if base.TestScoreGain.Value != 0.23 || base.PFormalApprentice.Value != 0.72 {
		t.Error("baseline registry mutated by Monte Carlo run")
	}
}

func TestTrialRecordsCoverGrid(t *testing.T) {
	res, err := NewRunner(registry.Default()).Run(context.Background(), Config{Trials: 5, Seed: 42})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("trial errors: %v", res.Errors)
	}
	if len(res.Trials) != 5*32 {
		t.Fatalf("got %d trial records, want %d", len(res.Trials), 5*32)
	}

	// Each trial must carry the draws it used: all of tier 1 plus the
	// standing lower-tier extras, and nothing else.
	for _, rec := range res.Trials {
		if len(rec.Sampled) == 0 {
			t.Fatalf("trial %d scenario %s: no sampled parameters recorded", rec.Trial, rec.ScenarioID)
		}
		if _, ok := rec.Sampled[registry.ParamTestScoreGain]; !ok {
			t.Fatalf("trial %d: tier-1 parameter missing from samples", rec.Trial)
		}
		if _, ok := rec.Sampled[registry.ParamSocialDiscountRate]; !ok {
			t.Fatalf("trial %d: discount rate missing from samples", rec.Trial)
		}
		if _, ok := rec.Sampled[registry.ParamExperienceLinear]; ok {
			t.Fatalf("trial %d: unselected tier-3 parameter sampled", rec.Trial)
		}
	}
}

func TestSummaryStatisticsConsistent(t *testing.T) {
	res, err := NewRunner(registry.Default()).Run(context.Background(), Config{Trials: 200, Seed: 42})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	byScenario := make(map[string][]float64)
	for _, rec := range res.Trials {
		byScenario[rec.ScenarioID] = append(byScenario[rec.ScenarioID], rec.LNPV)
	}

	for _, s := range res.Summaries {
		lnpvs := byScenario[s.ScenarioID]
		if s.Trials != len(lnpvs) {
			t.Fatalf("%s: summary counts %d trials, records show %d", s.ScenarioID, s.Trials, len(lnpvs))
		}
		if !(s.P5 <= s.P25 && s.P25 <= s.Median && s.Median <= s.P75 && s.P75 <= s.P95) {
			t.Errorf("%s: percentiles out of order: %v %v %v %v %v",
				s.ScenarioID, s.P5, s.P25, s.Median, s.P75, s.P95)
		}
		if s.ProbPositive < 0 || s.ProbPositive > 1 {
			t.Errorf("%s: prob positive %v outside [0,1]", s.ScenarioID, s.ProbPositive)
		}

		sorted := make([]float64, len(lnpvs))
		copy(sorted, lnpvs)
		sort.Float64s(sorted)
		if got := percentile(sorted, 0.50); math.Abs(got-s.Median) > 1e-9 {
			t.Errorf("%s: median %v does not match recomputation %v", s.ScenarioID, s.Median, got)
		}
	}
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.5, 2.5},
		{1, 4},
		{0.25, 1.75},
	}
	for _, tc := range cases {
		if got := percentile(sorted, tc.p); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("percentile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}

	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("empty percentile = %v, want 0", got)
	}
	if got := percentile([]float64{7}, 0.9); got != 7 {
		t.Errorf("single-element percentile = %v, want 7", got)
	}
}

func TestSampleStddev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m := mean(values)
	got := sampleStddev(values, m)
	want := math.Sqrt(32.0 / 7.0) // sample variance with n-1
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("stddev = %v, want %v", got, want)
	}
	if sampleStddev([]float64{1}, 1) != 0 {
		t.Error("stddev of one sample should be 0")
	}
}
