package postgres

import (
	"context"
	"fmt"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

// ScenarioResultStore implements storage.ScenarioResultStore using PostgreSQL.
type ScenarioResultStore struct {
	pool *Pool
}

// NewScenarioResultStore creates a new ScenarioResultStore.
func NewScenarioResultStore(pool *Pool) *ScenarioResultStore {
	return &ScenarioResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScenarioResultStore = (*ScenarioResultStore)(nil)

const insertScenarioResultQuery = `
	INSERT INTO scenario_results (
		scenario_id, intervention, region, gender, location,
		lnpv, treatment_lifetime_earnings, control_lifetime_earnings,
		p_formal_treatment, annual_differential, discount_rate
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11
	)
`

// Insert adds a new result. Returns ErrDuplicateKey if scenario_id exists.
func (s *ScenarioResultStore) Insert(ctx context.Context, r *domain.ScenarioResult) error {
	if r == nil || r.ScenarioID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertScenarioResultQuery,
		r.ScenarioID, r.Intervention, r.Region, r.Gender, r.Location,
		r.LNPV, r.TreatmentLifetimeEarnings, r.ControlLifetimeEarnings,
		r.PFormalTreatment, r.AnnualDifferential, r.DiscountRate,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert scenario result: %w", err)
	}
	return nil
}

// InsertBulk adds multiple results atomically. Fails entire batch on any duplicate.
func (s *ScenarioResultStore) InsertBulk(ctx context.Context, results []*domain.ScenarioResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range results {
		if r == nil || r.ScenarioID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertScenarioResultQuery,
			r.ScenarioID, r.Intervention, r.Region, r.Gender, r.Location,
			r.LNPV, r.TreatmentLifetimeEarnings, r.ControlLifetimeEarnings,
			r.PFormalTreatment, r.AnnualDifferential, r.DiscountRate,
		); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert scenario result %s: %w", r.ScenarioID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectScenarioResultColumns = `
	scenario_id, intervention, region, gender, location,
	lnpv, treatment_lifetime_earnings, control_lifetime_earnings,
	p_formal_treatment, annual_differential, discount_rate
`

// GetByScenarioID retrieves a result by its ID. Returns ErrNotFound if not exists.
func (s *ScenarioResultStore) GetByScenarioID(ctx context.Context, scenarioID string) (*domain.ScenarioResult, error) {
	query := `SELECT ` + selectScenarioResultColumns + ` FROM scenario_results WHERE scenario_id = $1`

	var r domain.ScenarioResult
	err := s.pool.QueryRow(ctx, query, scenarioID).Scan(
		&r.ScenarioID, &r.Intervention, &r.Region, &r.Gender, &r.Location,
		&r.LNPV, &r.TreatmentLifetimeEarnings, &r.ControlLifetimeEarnings,
		&r.PFormalTreatment, &r.AnnualDifferential, &r.DiscountRate,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get scenario result: %w", err)
	}
	return &r, nil
}

// GetByIntervention retrieves all results for one intervention, ordered by scenario_id ASC.
func (s *ScenarioResultStore) GetByIntervention(ctx context.Context, intervention domain.Intervention) ([]*domain.ScenarioResult, error) {
	query := `SELECT ` + selectScenarioResultColumns + `
		FROM scenario_results WHERE intervention = $1 ORDER BY scenario_id ASC`

	rows, err := s.pool.Query(ctx, query, intervention)
	if err != nil {
		return nil, fmt.Errorf("query scenario results: %w", err)
	}
	defer rows.Close()

	return scanScenarioResults(rows)
}

// GetAll retrieves all results, ordered by scenario_id ASC.
func (s *ScenarioResultStore) GetAll(ctx context.Context) ([]*domain.ScenarioResult, error) {
	query := `SELECT ` + selectScenarioResultColumns + ` FROM scenario_results ORDER BY scenario_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query scenario results: %w", err)
	}
	defer rows.Close()

	return scanScenarioResults(rows)
}

// scanScenarioResults scans all rows into results.
func scanScenarioResults(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*domain.ScenarioResult, error) {
	var results []*domain.ScenarioResult
	for rows.Next() {
		var r domain.ScenarioResult
		if err := rows.Scan(
			&r.ScenarioID, &r.Intervention, &r.Region, &r.Gender, &r.Location,
			&r.LNPV, &r.TreatmentLifetimeEarnings, &r.ControlLifetimeEarnings,
			&r.PFormalTreatment, &r.AnnualDifferential, &r.DiscountRate,
		); err != nil {
			return nil, fmt.Errorf("scan scenario result: %w", err)
		}
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario results: %w", err)
	}
	return results, nil
}
