package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	mu     sync.RWMutex
	byGame map[string]map[string]playerstats.Stats
}

func NewPlayerStatsRepository(items []playerstats.Stats) *PlayerStatsRepository {
	r := &PlayerStatsRepository{byGame: make(map[string]map[string]playerstats.Stats)}
	for _, item := range items {
		r.putLocked(item)
	}
	return r
}

func (r *PlayerStatsRepository) GetByPlayerAndGame(_ context.Context, playerID, gameID string) (playerstats.Stats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byGame[gameID][playerID]
	return item, ok, nil
}

func (r *PlayerStatsRepository) ListByGames(_ context.Context, gameIDs []string) ([]playerstats.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.Stats, 0)
	for _, gameID := range gameIDs {
		for _, item := range r.byGame[gameID] {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, item playerstats.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.putLocked(item)
	return nil
}

func (r *PlayerStatsRepository) putLocked(item playerstats.Stats) {
	byPlayer, ok := r.byGame[item.GameID]
	if !ok {
		byPlayer = make(map[string]playerstats.Stats)
		r.byGame[item.GameID] = byPlayer
	}
	byPlayer[item.PlayerID] = item
}
