package npv

import (
	"context"
	"errors"
	"math"
	"testing"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/registry"
)

func mustScenario(t *testing.T, intervention domain.Intervention, cell domain.DemographicCell) domain.Scenario {
	t.Helper()
	sc, err := domain.NewScenario(intervention, cell)
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	return sc
}

func westUrbanMale() domain.DemographicCell {
	return domain.DemographicCell{
		Gender:   domain.GenderMale,
		Location: domain.LocationUrban,
		Region:   domain.RegionWest,
	}
}

func TestApprenticeshipUsesNationalPlacement(t *testing.T) {
	calc := NewCalculator(registry.Default())

	// The apprenticeship placement probability is national. Every region must
	// report the same p_formal, equal to the registry's absorption rate.
	for _, region := range domain.Regions() {
		cell := domain.DemographicCell{Gender: domain.GenderMale, Location: domain.LocationUrban, Region: region}
		res, err := calc.Compute(mustScenario(t, domain.InterventionApprenticeship, cell))
		if err != nil {
			t.Fatalf("%s: %v", region, err)
		}
		if res.PFormalTreatment != 0.72 {
			t.Errorf("%s: p_formal = %v, want national 0.72", region, res.PFormalTreatment)
		}
	}
}

func TestEducationUsesRegionalPlacement(t *testing.T) {
	calc := NewCalculator(registry.Default())

	want := map[domain.Region]float64{
		domain.RegionNorth: 0.15,
		domain.RegionSouth: 0.25,
		domain.RegionWest:  0.20,
		domain.RegionEast:  0.12,
	}
	for region, p := range want {
		cell := domain.DemographicCell{Gender: domain.GenderFemale, Location: domain.LocationRural, Region: region}
		res, err := calc.Compute(mustScenario(t, domain.InterventionEducation, cell))
		if err != nil {
			t.Fatalf("%s: %v", region, err)
		}
		if res.PFormalTreatment != p {
			t.Errorf("%s: p_formal = %v, want regional %v", region, res.PFormalTreatment, p)
		}
	}
}

func TestDiscountRateOnlyRescales(t *testing.T) {
	calc := NewCalculator(registry.Default())
	sc := mustScenario(t, domain.InterventionApprenticeship, westUrbanMale())

	low, err := calc.ComputeWithDiscount(sc, 0.03)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	high, err := calc.ComputeWithDiscount(sc, 0.08)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if len(low.AnnualDifferential) != len(high.AnnualDifferential) {
		t.Fatal("differential lengths differ across discount rates")
	}
	for year, d := range low.AnnualDifferential {
		if d != high.AnnualDifferential[year] {
			t.Fatalf("year %d: differential changed with discount rate (%v vs %v)", year, d, high.AnnualDifferential[year])
		}
	}
	if low.LNPV <= high.LNPV {
		t.Errorf("positive-differential NPV should shrink as the rate rises: %v vs %v", low.LNPV, high.LNPV)
	}

	// Recompute the NPV from the differential to confirm discounting is the
	// only transformation applied.
	sum := 0.0
	for year, d := range high.AnnualDifferential {
		sum += d / math.Pow(1.08, float64(year))
	}
	if math.Abs(sum-high.LNPV) > 1e-6 {
		t.Errorf("NPV %v does not match discounted differential sum %v", high.LNPV, sum)
	}
}

func TestPremiumMonotonicity(t *testing.T) {
	sc := mustScenario(t, domain.InterventionApprenticeship, westUrbanMale())

	prev := math.Inf(-1)
	for _, premium := range []float64{50000, 84000, 120000, 200000} {
		reg := registry.Default()
		if err := reg.Override(registry.ParamApprenticeInitialPremium, premium); err != nil {
			t.Fatalf("override: %v", err)
		}
		res, err := NewCalculator(reg).Compute(sc)
		if err != nil {
			t.Fatalf("premium %v: %v", premium, err)
		}
		if res.LNPV < prev {
			t.Errorf("NPV decreased as premium rose to %v: %v < %v", premium, res.LNPV, prev)
		}
		prev = res.LNPV
	}
}

func TestZeroFormalProbabilityUsesInformalOnly(t *testing.T) {
	reg := registry.Default()
	if err := reg.Override(registry.ParamPFormalApprentice, 0); err != nil {
		t.Fatalf("override: %v", err)
	}
	calc := NewCalculator(reg)
	sc := mustScenario(t, domain.InterventionApprenticeship, westUrbanMale())

	res, err := calc.Compute(sc)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.PFormalTreatment != 0 {
		t.Fatalf("p_formal = %v, want 0", res.PFormalTreatment)
	}

	// With p_formal = 0 the formal multiplier must leave no trace: doubling
	// it cannot change the treatment path.
	reg2 := reg.Clone()
	if err := reg2.Override(registry.ParamFormalMultiplier, 4.5); err != nil {
		t.Fatalf("override: %v", err)
	}
	// The control path still blends in formal wages, so compare treatment
	// earnings only.
	res2, err := NewCalculator(reg2).Compute(sc)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if math.Abs(res.TreatmentLifetimeEarnings-res2.TreatmentLifetimeEarnings) > 1e-6 {
		t.Errorf("treatment earnings depend on formal trajectory despite p_formal = 0: %v vs %v",
			res.TreatmentLifetimeEarnings, res2.TreatmentLifetimeEarnings)
	}
}

func TestLifetimeEarningsAreUndiscountedSums(t *testing.T) {
	calc := NewCalculator(registry.Default())
	sc := mustScenario(t, domain.InterventionEducation, westUrbanMale())

	res, err := calc.Compute(sc)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.TreatmentLifetimeEarnings <= res.ControlLifetimeEarnings {
		t.Errorf("treatment lifetime earnings %v should exceed control %v at defaults",
			res.TreatmentLifetimeEarnings, res.ControlLifetimeEarnings)
	}

	diffSum := 0.0
	for _, d := range res.AnnualDifferential {
		diffSum += d
	}
	if math.Abs(diffSum-(res.TreatmentLifetimeEarnings-res.ControlLifetimeEarnings)) > 1e-6 {
		t.Errorf("differential sum %v does not match earnings gap %v",
			diffSum, res.TreatmentLifetimeEarnings-res.ControlLifetimeEarnings)
	}
}

func TestComputeAllCoversGrid(t *testing.T) {
	results, err := NewCalculator(registry.Default()).ComputeAll()
	if err != nil {
		t.Fatalf("compute all: %v", err)
	}
	if len(results) != 32 {
		t.Fatalf("got %d results, want 32", len(results))
	}
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if seen[r.ScenarioID] {
			t.Errorf("duplicate scenario id %s", r.ScenarioID)
		}
		seen[r.ScenarioID] = true
		if len(r.AnnualDifferential) != 40 {
			t.Errorf("%s: differential length %d, want 40", r.ScenarioID, len(r.AnnualDifferential))
		}
	}
}

func TestComputeAllParallelMatchesSequential(t *testing.T) {
	calc := NewCalculator(registry.Default())

	sequential, err := calc.ComputeAll()
	if err != nil {
		t.Fatalf("compute all: %v", err)
	}
	parallel, err := calc.ComputeAllParallel(context.Background(), 8)
	if err != nil {
		t.Fatalf("compute all parallel: %v", err)
	}

	if len(parallel) != len(sequential) {
		t.Fatalf("got %d results, want %d", len(parallel), len(sequential))
	}
	for i := range sequential {
		if parallel[i].ScenarioID != sequential[i].ScenarioID {
			t.Errorf("position %d: %s vs %s", i, parallel[i].ScenarioID, sequential[i].ScenarioID)
		}
		if parallel[i].LNPV != sequential[i].LNPV {
			t.Errorf("%s: parallel LNPV %v != sequential %v",
				sequential[i].ScenarioID, parallel[i].LNPV, sequential[i].LNPV)
		}
	}
}

func TestComputeRejectsBadInputs(t *testing.T) {
	calc := NewCalculator(registry.Default())

	badCell := domain.Scenario{
		Intervention: domain.InterventionEducation,
		Cell:         domain.DemographicCell{Gender: domain.GenderMale, Location: "offshore", Region: domain.RegionWest},
	}
	if _, err := calc.Compute(badCell); !errors.Is(err, domain.ErrInvalidCell) {
		t.Errorf("want ErrInvalidCell, got %v", err)
	}

	badIntervention := domain.Scenario{
		Intervention: "midday_meals",
		Cell:         westUrbanMale(),
	}
	if _, err := calc.Compute(badIntervention); !errors.Is(err, domain.ErrInvalidIntervention) {
		t.Errorf("want ErrInvalidIntervention, got %v", err)
	}

	sc := mustScenario(t, domain.InterventionEducation, westUrbanMale())
	if _, err := calc.ComputeWithDiscount(sc, -1); !errors.Is(err, ErrInvalidDiscountRate) {
		t.Errorf("want ErrInvalidDiscountRate, got %v", err)
	}
}
