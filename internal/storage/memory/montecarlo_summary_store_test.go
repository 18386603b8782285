package memory

import (
	"context"
	"errors"
	"testing"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

func sampleSummary(id string) *domain.MonteCarloSummary {
	return &domain.MonteCarloSummary{
		ScenarioID:   id,
		Intervention: domain.InterventionEducation,
		Region:       domain.RegionSouth,
		Gender:       domain.GenderFemale,
		Location:     domain.LocationRural,
		Trials:       1000,
		Mean:         950000,
		Median:       920000,
		Std:          180000,
		P5:           610000,
		P25:          810000,
		P75:          1080000,
		P95:          1260000,
		ProbPositive: 0.97,
	}
}

func TestMonteCarloSummaryStore_InsertAndGet(t *testing.T) {
	store := NewMonteCarloSummaryStore()
	ctx := context.Background()

	sum := sampleSummary("education_south_female_rural")
	if err := store.Insert(ctx, sum); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByScenarioID(ctx, "education_south_female_rural")
	if err != nil {
		t.Fatalf("GetByScenarioID failed: %v", err)
	}
	if got.Mean != 950000 {
		t.Errorf("Mean mismatch: got %f", got.Mean)
	}
	if got.Trials != 1000 {
		t.Errorf("Trials mismatch: got %d", got.Trials)
	}
}

func TestMonteCarloSummaryStore_Duplicate(t *testing.T) {
	store := NewMonteCarloSummaryStore()
	ctx := context.Background()

	sum := sampleSummary("education_south_female_rural")
	if err := store.Insert(ctx, sum); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, sum); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestMonteCarloSummaryStore_NotFound(t *testing.T) {
	store := NewMonteCarloSummaryStore()

	_, err := store.GetByScenarioID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMonteCarloSummaryStore_InsertBulkAtomicity(t *testing.T) {
	store := NewMonteCarloSummaryStore()
	ctx := context.Background()

	if err := store.Insert(ctx, sampleSummary("a")); err != nil {
		t.Fatalf("Seed insert failed: %v", err)
	}

	batch := []*domain.MonteCarloSummary{sampleSummary("b"), sampleSummary("a")}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// The non-conflicting row must not have been inserted.
	if _, err := store.GetByScenarioID(ctx, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected b absent after failed batch, got %v", err)
	}
}

func TestMonteCarloSummaryStore_GetAllSorted(t *testing.T) {
	store := NewMonteCarloSummaryStore()
	ctx := context.Background()

	batch := []*domain.MonteCarloSummary{sampleSummary("c"), sampleSummary("a"), sampleSummary("b")}
	if err := store.InsertBulk(ctx, batch); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d summaries, want 3", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ScenarioID != want {
			t.Errorf("position %d: got %s, want %s", i, all[i].ScenarioID, want)
		}
	}
}

func TestMonteCarloSummaryStore_CopySemantics(t *testing.T) {
	store := NewMonteCarloSummaryStore()
	ctx := context.Background()

	sum := sampleSummary("s1")
	if err := store.Insert(ctx, sum); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	sum.Mean = -1

	got, err := store.GetByScenarioID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByScenarioID failed: %v", err)
	}
	if got.Mean != 950000 {
		t.Errorf("stored summary mutated through caller pointer: Mean %f", got.Mean)
	}
}
