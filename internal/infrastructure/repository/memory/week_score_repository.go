package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/scoring"
)

type WeekScoreRepository struct {
	mu    sync.RWMutex
	items map[string]scoring.WeekScore
}

func NewWeekScoreRepository() *WeekScoreRepository {
	return &WeekScoreRepository{items: make(map[string]scoring.WeekScore)}
}

func (r *WeekScoreRepository) GetByTeamAndWeek(_ context.Context, teamID, weekID string) (scoring.WeekScore, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamWeekKey(teamID, weekID)]
	if !ok {
		return scoring.WeekScore{}, false, nil
	}
	return cloneWeekScore(item), true, nil
}

func (r *WeekScoreRepository) ListByTeam(_ context.Context, teamID string) ([]scoring.WeekScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.WeekScore, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, cloneWeekScore(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekID < out[j].WeekID })
	return out, nil
}

func (r *WeekScoreRepository) Upsert(_ context.Context, item scoring.WeekScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[teamWeekKey(item.TeamID, item.WeekID)] = cloneWeekScore(item)
	return nil
}

func cloneWeekScore(s scoring.WeekScore) scoring.WeekScore {
	copied := s
	copied.Substitutions = append([]scoring.Substitution(nil), s.Substitutions...)
	return copied
}
