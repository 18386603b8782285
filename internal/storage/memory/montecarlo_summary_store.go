package memory

import (
	"context"
	"sort"
	"sync"

	"impact-npv-lab/internal/domain"
	"impact-npv-lab/internal/storage"
)

// MonteCarloSummaryStore is an in-memory implementation of storage.MonteCarloSummaryStore.
type MonteCarloSummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MonteCarloSummary // keyed by scenario_id
}

// NewMonteCarloSummaryStore creates a new in-memory summary store.
func NewMonteCarloSummaryStore() *MonteCarloSummaryStore {
	return &MonteCarloSummaryStore{
		data: make(map[string]*domain.MonteCarloSummary),
	}
}

// Compile-time interface check.
var _ storage.MonteCarloSummaryStore = (*MonteCarloSummaryStore)(nil)

// Insert adds a new summary. Returns ErrDuplicateKey if scenario_id exists.
func (s *MonteCarloSummaryStore) Insert(_ context.Context, sum *domain.MonteCarloSummary) error {
	if sum == nil || sum.ScenarioID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sum.ScenarioID]; exists {
		return storage.ErrDuplicateKey
	}
	c := *sum
	s.data[sum.ScenarioID] = &c
	return nil
}

// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
func (s *MonteCarloSummaryStore) InsertBulk(_ context.Context, summaries []*domain.MonteCarloSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(summaries))
	for _, sum := range summaries {
		if sum == nil || sum.ScenarioID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[sum.ScenarioID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[sum.ScenarioID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[sum.ScenarioID] = struct{}{}
	}

	for _, sum := range summaries {
		c := *sum
		s.data[sum.ScenarioID] = &c
	}
	return nil
}

// GetByScenarioID retrieves a summary by its ID. Returns ErrNotFound if not exists.
func (s *MonteCarloSummaryStore) GetByScenarioID(_ context.Context, scenarioID string) (*domain.MonteCarloSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, exists := s.data[scenarioID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	c := *sum
	return &c, nil
}

// GetAll retrieves all summaries, ordered by scenario_id ASC.
func (s *MonteCarloSummaryStore) GetAll(_ context.Context) ([]*domain.MonteCarloSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.MonteCarloSummary, 0, len(s.data))
	for _, sum := range s.data {
		c := *sum
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScenarioID < result[j].ScenarioID
	})
	return result, nil
}
