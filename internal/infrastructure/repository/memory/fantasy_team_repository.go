package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
)

type FantasyTeamRepository struct {
	mu    sync.RWMutex
	items map[string]fantasyteam.Team
}

func NewFantasyTeamRepository(teams []fantasyteam.Team) *FantasyTeamRepository {
	items := make(map[string]fantasyteam.Team, len(teams))
	for _, item := range teams {
		items[item.ID] = item
	}
	return &FantasyTeamRepository{items: items}
}

func (r *FantasyTeamRepository) GetByID(_ context.Context, teamID string) (fantasyteam.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}
