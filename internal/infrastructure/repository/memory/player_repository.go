package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
)

type PlayerRepository struct {
	mu       sync.RWMutex
	byID     map[string]player.Player
	bySeason map[string][]string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byID := make(map[string]player.Player, len(players))
	bySeason := make(map[string][]string)

	for _, p := range players {
		byID[p.ID] = p
		bySeason[p.SeasonID] = append(bySeason[p.SeasonID], p.ID)
	}

	return &PlayerRepository{
		byID:     byID,
		bySeason: bySeason,
	}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.byID[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *PlayerRepository) ListBySeason(_ context.Context, seasonID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.bySeason[seasonID]
	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
