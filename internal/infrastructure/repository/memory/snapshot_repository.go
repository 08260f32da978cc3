package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
)

type SnapshotRepository struct {
	mu    sync.RWMutex
	items map[string]snapshot.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{items: make(map[string]snapshot.Snapshot)}
}

func (r *SnapshotRepository) GetByTeamAndWeek(_ context.Context, teamID, weekID string) (snapshot.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamWeekKey(teamID, weekID)]
	if !ok {
		return snapshot.Snapshot{}, false, nil
	}
	return cloneSnapshot(item), true, nil
}

func (r *SnapshotRepository) ListByTeam(_ context.Context, teamID string) ([]snapshot.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]snapshot.Snapshot, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, cloneSnapshot(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *SnapshotRepository) ListTeamIDsByWeek(_ context.Context, weekID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, item := range r.items {
		if item.WeekID == weekID {
			out = append(out, item.TeamID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *SnapshotRepository) Create(_ context.Context, item snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := teamWeekKey(item.TeamID, item.WeekID)
	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%w: team=%s week=%s", snapshot.ErrAlreadyExists, item.TeamID, item.WeekID)
	}
	r.items[key] = cloneSnapshot(item)
	return nil
}

func (r *SnapshotRepository) Replace(_ context.Context, item snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[teamWeekKey(item.TeamID, item.WeekID)] = cloneSnapshot(item)
	return nil
}

func (r *SnapshotRepository) DeleteByTeamAndWeek(_ context.Context, teamID, weekID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := teamWeekKey(teamID, weekID)
	if _, exists := r.items[key]; !exists {
		return false, nil
	}
	delete(r.items, key)
	return true, nil
}

func teamWeekKey(teamID, weekID string) string {
	return teamID + "::" + weekID
}

func cloneSnapshot(s snapshot.Snapshot) snapshot.Snapshot {
	copied := s
	copied.Slots = append([]snapshot.Slot(nil), s.Slots...)
	return copied
}
