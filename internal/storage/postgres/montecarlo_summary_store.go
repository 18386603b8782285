package postgres

import (
	"context"
	"fmt"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

// MonteCarloSummaryStore implements storage.MonteCarloSummaryStore using PostgreSQL.
type MonteCarloSummaryStore struct {
	pool *Pool
}

// NewMonteCarloSummaryStore creates a new MonteCarloSummaryStore.
func NewMonteCarloSummaryStore(pool *Pool) *MonteCarloSummaryStore {
	return &MonteCarloSummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MonteCarloSummaryStore = (*MonteCarloSummaryStore)(nil)

const insertSummaryQuery = `
	INSERT INTO montecarlo_summaries (
		scenario_id, intervention, region, gender, location,
		trials, mean, median, std,
		p5, p25, p75, p95, prob_positive
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12, $13, $14
	)
`

// Insert adds a new summary. Returns ErrDuplicateKey if scenario_id exists.
func (s *MonteCarloSummaryStore) Insert(ctx context.Context, sum *domain.MonteCarloSummary) error {
	if sum == nil || sum.ScenarioID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertSummaryQuery,
		sum.ScenarioID, sum.Intervention, sum.Region, sum.Gender, sum.Location,
		sum.Trials, sum.Mean, sum.Median, sum.Std,
		sum.P5, sum.P25, sum.P75, sum.P95, sum.ProbPositive,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert montecarlo summary: %w", err)
	}
	return nil
}

// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
func (s *MonteCarloSummaryStore) InsertBulk(ctx context.Context, summaries []*domain.MonteCarloSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sum := range summaries {
		if sum == nil || sum.ScenarioID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertSummaryQuery,
			sum.ScenarioID, sum.Intervention, sum.Region, sum.Gender, sum.Location,
			sum.Trials, sum.Mean, sum.Median, sum.Std,
			sum.P5, sum.P25, sum.P75, sum.P95, sum.ProbPositive,
		); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert montecarlo summary %s: %w", sum.ScenarioID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectSummaryColumns = `
	scenario_id, intervention, region, gender, location,
	trials, mean, median, std,
	p5, p25, p75, p95, prob_positive
`

// GetByScenarioID retrieves a summary by its ID. Returns ErrNotFound if not exists.
func (s *MonteCarloSummaryStore) GetByScenarioID(ctx context.Context, scenarioID string) (*domain.MonteCarloSummary, error) {
	query := `SELECT ` + selectSummaryColumns + ` FROM montecarlo_summaries WHERE scenario_id = $1`

	var sum domain.MonteCarloSummary
	err := s.pool.QueryRow(ctx, query, scenarioID).Scan(
		&sum.ScenarioID, &sum.Intervention, &sum.Region, &sum.Gender, &sum.Location,
		&sum.Trials, &sum.Mean, &sum.Median, &sum.Std,
		&sum.P5, &sum.P25, &sum.P75, &sum.P95, &sum.ProbPositive,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get montecarlo summary: %w", err)
	}
	return &sum, nil
}

// GetAll retrieves all summaries, ordered by scenario_id ASC.
func (s *MonteCarloSummaryStore) GetAll(ctx context.Context) ([]*domain.MonteCarloSummary, error) {
	query := `SELECT ` + selectSummaryColumns + ` FROM montecarlo_summaries ORDER BY scenario_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query montecarlo summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.MonteCarloSummary
	for rows.Next() {
		var sum domain.MonteCarloSummary
		if err := rows.Scan(
			&sum.ScenarioID, &sum.Intervention, &sum.Region, &sum.Gender, &sum.Location,
			&sum.Trials, &sum.Mean, &sum.Median, &sum.Std,
			&sum.P5, &sum.P25, &sum.P75, &sum.P95, &sum.ProbPositive,
		); err != nil {
			return nil, fmt.Errorf("scan montecarlo summary: %w", err)
		}
		summaries = append(summaries, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate montecarlo summaries: %w", err)
	}
	return summaries, nil
}
