package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/valuechange"
)

type ValueChangeRepository struct {
	mu       sync.RWMutex
	byPlayer map[string]map[int]valuechange.ValueChange
}

func NewValueChangeRepository() *ValueChangeRepository {
	return &ValueChangeRepository{byPlayer: make(map[string]map[int]valuechange.ValueChange)}
}

func (r *ValueChangeRepository) ListByPlayers(_ context.Context, playerIDs []string) ([]valuechange.ValueChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]valuechange.ValueChange, 0)
	for _, playerID := range playerIDs {
		for _, item := range r.byPlayer[playerID] {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].Round < out[j].Round
	})
	return out, nil
}

func (r *ValueChangeRepository) GetLatestAtOrBefore(_ context.Context, playerID string, round int) (valuechange.ValueChange, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		latest valuechange.ValueChange
		found  bool
	)
	for _, item := range r.byPlayer[playerID] {
		if item.Round > round {
			continue
		}
		if !found || item.Round > latest.Round {
			latest, found = item, true
		}
	}
	return latest, found, nil
}

func (r *ValueChangeRepository) UpsertMany(_ context.Context, items []valuechange.ValueChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		rounds, ok := r.byPlayer[item.PlayerID]
		if !ok {
			rounds = make(map[int]valuechange.ValueChange)
			r.byPlayer[item.PlayerID] = rounds
		}
		rounds[item.Round] = item
	}
	return nil
}
