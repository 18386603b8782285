// Package memory provides in-memory store implementations, used as the
// default backend when no database is configured and as fixtures in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

// ScenarioResultStore is an in-memory implementation of storage.ScenarioResultStore.
type ScenarioResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScenarioResult // keyed by scenario_id
}

// NewScenarioResultStore creates a new in-memory scenario result store.
func NewScenarioResultStore() *ScenarioResultStore {
	return &ScenarioResultStore{
		data: make(map[string]*domain.ScenarioResult),
	}
}

// Compile-time interface check.
var _ storage.ScenarioResultStore = (*ScenarioResultStore)(nil)

// Insert adds a new result. Returns ErrDuplicateKey if scenario_id exists.
func (s *ScenarioResultStore) Insert(_ context.Context, r *domain.ScenarioResult) error {
	if r == nil || r.ScenarioID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ScenarioID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[r.ScenarioID] = copyResult(r)
	return nil
}

// InsertBulk adds multiple results atomically. Fails entire batch on any duplicate.
func (s *ScenarioResultStore) InsertBulk(_ context.Context, results []*domain.ScenarioResult) error {
	if len(results) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r == nil || r.ScenarioID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.ScenarioID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.ScenarioID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.ScenarioID] = struct{}{}
	}

	for _, r := range results {
		s.data[r.ScenarioID] = copyResult(r)
	}
	return nil
}

// GetByScenarioID retrieves a result by its ID. Returns ErrNotFound if not exists.
func (s *ScenarioResultStore) GetByScenarioID(_ context.Context, scenarioID string) (*domain.ScenarioResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[scenarioID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyResult(r), nil
}

// GetByIntervention retrieves all results for one intervention, ordered by scenario_id ASC.
func (s *ScenarioResultStore) GetByIntervention(_ context.Context, intervention domain.Intervention) ([]*domain.ScenarioResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScenarioResult
	for _, r := range s.data {
		if r.Intervention == intervention {
			result = append(result, copyResult(r))
		}
	}
	sortResults(result)
	return result, nil
}

// GetAll retrieves all results, ordered by scenario_id ASC.
func (s *ScenarioResultStore) GetAll(_ context.Context) ([]*domain.ScenarioResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScenarioResult, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, copyResult(r))
	}
	sortResults(result)
	return result, nil
}

// copyResult deep-copies a result so callers never share the stored slice.
func copyResult(r *domain.ScenarioResult) *domain.ScenarioResult {
	c := *r
	if r.AnnualDifferential != nil {
		c.AnnualDifferential = make([]float64, len(r.AnnualDifferential))
		copy(c.AnnualDifferential, r.AnnualDifferential)
	}
	return &c
}

func sortResults(results []*domain.ScenarioResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].ScenarioID < results[j].ScenarioID
	})
}
