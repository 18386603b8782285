package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

// TrialStore is an in-memory implementation of storage.TrialStore.
type TrialStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TrialRecord // keyed by (scenario_id, trial)
}

// NewTrialStore creates a new in-memory trial store.
func NewTrialStore() *TrialStore {
	return &TrialStore{
		data: make(map[string]*domain.TrialRecord),
	}
}

// Compile-time interface check.
var _ storage.TrialStore = (*TrialStore)(nil)

// trialKey generates a unique key for a trial record.
func trialKey(scenarioID string, trial int) string {
	return fmt.Sprintf("%s|%d", scenarioID, trial)
}

// InsertBulk adds multiple trial records. Fails entire batch on duplicate
// (scenario_id, trial).
func (s *TrialStore) InsertBulk(_ context.Context, trials []*domain.TrialRecord) error {
	if len(trials) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(trials))
	for _, t := range trials {
		if t == nil || t.ScenarioID == "" || t.Trial < 0 {
			return storage.ErrInvalidInput
		}
		key := trialKey(t.ScenarioID, t.Trial)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, t := range trials {
		s.data[trialKey(t.ScenarioID, t.Trial)] = copyTrial(t)
	}
	return nil
}

// GetByScenarioID retrieves all trials for a scenario, ordered by trial ASC.
func (s *TrialStore) GetByScenarioID(_ context.Context, scenarioID string) ([]*domain.TrialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TrialRecord
	for _, t := range s.data {
		if t.ScenarioID == scenarioID {
			result = append(result, copyTrial(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Trial < result[j].Trial
	})
	return result, nil
}

// GetByTrialRange retrieves trials for a scenario within [start, end] (inclusive).
func (s *TrialStore) GetByTrialRange(_ context.Context, scenarioID string, start, end int) ([]*domain.TrialRecord, error) {
	if start > end {
		return nil, fmt.Errorf("%w: trial range [%d, %d] is inverted", storage.ErrInvalidInput, start, end)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TrialRecord
	for _, t := range s.data {
		if t.ScenarioID == scenarioID && t.Trial >= start && t.Trial <= end {
			result = append(result, copyTrial(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Trial < result[j].Trial
	})
	return result, nil
}

// copyTrial deep-copies a record so callers never share the stored map.
func copyTrial(t *domain.TrialRecord) *domain.TrialRecord {
	c := *t
	if t.Sampled != nil {
		c.Sampled = make(map[string]float64, len(t.Sampled))
		for k, v := range t.Sampled {
			c.Sampled[k] = v
		}
	}
	return &c
}
