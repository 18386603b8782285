package clickhouse

import (
	"context"
	"fmt"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

// TrialStore implements storage.TrialStore using ClickHouse. Trial records are
// the high-volume output of a Monte Carlo run and are only ever written in bulk.
type TrialStore struct {
	conn *Conn
}

// NewTrialStore creates a new TrialStore.
func NewTrialStore(conn *Conn) *TrialStore {
	return &TrialStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TrialStore = (*TrialStore)(nil)

// InsertBulk adds multiple trial records. Fails entire batch on duplicate
// (scenario_id, trial).
func (s *TrialStore) InsertBulk(ctx context.Context, trials []*domain.TrialRecord) error {
	if len(trials) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, t := range trials {
		if t == nil || t.ScenarioID == "" || t.Trial < 0 {
			return storage.ErrInvalidInput
		}
		key := fmt.Sprintf("%s|%d", t.ScenarioID, t.Trial)
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	// MergeTree doesn't enforce uniqueness, so check against existing rows.
	// Trials are written per scenario in contiguous ranges, so probing the
	// covered range per scenario keeps this to one query per scenario.
	ranges := make(map[string][2]int32)
	for _, t := range trials {
		r, ok := ranges[t.ScenarioID]
		trial := int32(t.Trial)
		if !ok {
			ranges[t.ScenarioID] = [2]int32{trial, trial}
			continue
		}
		if trial < r[0] {
			r[0] = trial
		}
		if trial > r[1] {
			r[1] = trial
		}
		ranges[t.ScenarioID] = r
	}
	for scenarioID, r := range ranges {
		exists, err := s.existsInRange(ctx, scenarioID, r[0], r[1])
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trial_records (scenario_id, trial, lnpv, sampled)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trials {
		sampled := t.Sampled
		if sampled == nil {
			sampled = map[string]float64{}
		}
		if err := batch.Append(t.ScenarioID, int32(t.Trial), t.LNPV, sampled); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByScenarioID retrieves all trials for a scenario, ordered by trial ASC.
func (s *TrialStore) GetByScenarioID(ctx context.Context, scenarioID string) ([]*domain.TrialRecord, error) {
	query := `
		SELECT scenario_id, trial, lnpv, sampled
		FROM trial_records
		WHERE scenario_id = ?
		ORDER BY trial ASC
	`
	return s.queryTrials(ctx, query, scenarioID)
}

// GetByTrialRange retrieves trials for a scenario within [start, end] (inclusive).
func (s *TrialStore) GetByTrialRange(ctx context.Context, scenarioID string, start, end int) ([]*domain.TrialRecord, error) {
	if start > end {
		return nil, storage.ErrInvalidInput
	}
	query := `
		SELECT scenario_id, trial, lnpv, sampled
		FROM trial_records
		WHERE scenario_id = ? AND trial >= ? AND trial <= ?
		ORDER BY trial ASC
	`
	return s.queryTrials(ctx, query, scenarioID, int32(start), int32(end))
}

func (s *TrialStore) queryTrials(ctx context.Context, query string, args ...any) ([]*domain.TrialRecord, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trial records: %w", err)
	}
	defer rows.Close()

	var trials []*domain.TrialRecord
	for rows.Next() {
		var (
			t     domain.TrialRecord
			trial int32
		)
		if err := rows.Scan(&t.ScenarioID, &trial, &t.LNPV, &t.Sampled); err != nil {
			return nil, fmt.Errorf("scan trial record: %w", err)
		}
		t.Trial = int(trial)
		trials = append(trials, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trial records: %w", err)
	}
	return trials, nil
}

func (s *TrialStore) existsInRange(ctx context.Context, scenarioID string, start, end int32) (bool, error) {
	query := `
		SELECT count() FROM trial_records
		WHERE scenario_id = ? AND trial >= ? AND trial <= ?
	`
	var count uint64
	if err := s.conn.QueryRow(ctx, query, scenarioID, start, end).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
