package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
)

type GameRepository struct {
	mu     sync.RWMutex
	byID   map[string]game.Game
	byWeek map[string][]string
}

func NewGameRepository(games []game.Game) *GameRepository {
	byID := make(map[string]game.Game, len(games))
	byWeek := make(map[string][]string)
	for _, item := range games {
		byID[item.ID] = item
		byWeek[item.WeekID] = append(byWeek[item.WeekID], item.ID)
	}
	return &GameRepository{byID: byID, byWeek: byWeek}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[gameID]
	return item, ok, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, weekID string) ([]game.Game, error) {
	return r.ListByWeeks(ctx, []string{weekID})
}

func (r *GameRepository) ListByWeeks(_ context.Context, weekIDs []string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, weekID := range weekIDs {
		for _, id := range r.byWeek[weekID] {
			out = append(out, r.byID[id])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
