// Package storage defines the persistence interfaces for analysis outputs.
// Implementations are append-only: results are written once per run and
// never updated in place.
package storage

import (
	"context"

	"impact-npv-lab/internal/domain"
)

// ScenarioResultStore provides access to baseline scenario results.
type ScenarioResultStore interface {
	// Insert adds a new result. Returns ErrDuplicateKey if scenario_id exists.
	Insert(ctx context.Context, r *domain.ScenarioResult) error

	// InsertBulk adds multiple results atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, results []*domain.ScenarioResult) error

	// GetByScenarioID retrieves a result by its ID. Returns ErrNotFound if not exists.
	GetByScenarioID(ctx context.Context, scenarioID string) (*domain.ScenarioResult, error)

	// GetByIntervention retrieves all results for one intervention, ordered by scenario_id ASC.
	GetByIntervention(ctx context.Context, intervention domain.Intervention) ([]*domain.ScenarioResult, error)

	// GetAll retrieves all results, ordered by scenario_id ASC.
	GetAll(ctx context.Context) ([]*domain.ScenarioResult, error)
}

// MonteCarloSummaryStore provides access to per-scenario Monte Carlo aggregates.
type MonteCarloSummaryStore interface {
	// Insert adds a new summary. Returns ErrDuplicateKey if scenario_id exists.
	Insert(ctx context.Context, s *domain.MonteCarloSummary) error

	// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, summaries []*domain.MonteCarloSummary) error

	// GetByScenarioID retrieves a summary by its ID. Returns ErrNotFound if not exists.
	GetByScenarioID(ctx context.Context, scenarioID string) (*domain.MonteCarloSummary, error)

	// GetAll retrieves all summaries, ordered by scenario_id ASC.
	GetAll(ctx context.Context) ([]*domain.MonteCarloSummary, error)
}

// TrialStore provides access to raw Monte Carlo trial records. Trial data is
// high-volume (trials x 32 scenarios per run) and only ever written in bulk.
type TrialStore interface {
	// InsertBulk adds multiple trial records. Fails entire batch on duplicate
	// (scenario_id, trial).
	InsertBulk(ctx context.Context, trials []*domain.TrialRecord) error

	// GetByScenarioID retrieves all trials for a scenario, ordered by trial ASC.
	GetByScenarioID(ctx context.Context, scenarioID string) ([]*domain.TrialRecord, error)

	// GetByTrialRange retrieves trials for a scenario within [start, end] (inclusive).
	GetByTrialRange(ctx context.Context, scenarioID string, start, end int) ([]*domain.TrialRecord, error)
}
