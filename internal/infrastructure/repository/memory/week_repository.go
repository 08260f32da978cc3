package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
)

// WeekRepository serializes window updates behind one mutex, which is what
// lets UpdateWindow run its guard against a stable view of the season.
type WeekRepository struct {
	mu    sync.RWMutex
	items map[string]week.Week
}

func NewWeekRepository(weeks []week.Week) *WeekRepository {
	items := make(map[string]week.Week, len(weeks))
	for _, item := range weeks {
		items[item.ID] = cloneWeek(item)
	}
	return &WeekRepository{items: items}
}

func (r *WeekRepository) GetByID(_ context.Context, weekID string) (week.Week, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[weekID]
	if !ok {
		return week.Week{}, false, nil
	}
	return cloneWeek(item), true, nil
}

func (r *WeekRepository) ListBySeason(_ context.Context, seasonID string) ([]week.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listBySeasonLocked(seasonID), nil
}

func (r *WeekRepository) UpdateWindow(_ context.Context, w week.Week, guard week.WindowGuard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[w.ID]
	if !ok {
		return fmt.Errorf("week not found: %s", w.ID)
	}
	if guard != nil {
		if err := guard(r.listBySeasonLocked(current.SeasonID)); err != nil {
			return err
		}
	}

	current.TransferWindowOpen = w.TransferWindowOpen
	current.TransferCutoffTime = cloneTime(w.TransferCutoffTime)
	current.TransferWindowClosedAt = cloneTime(w.TransferWindowClosedAt)
	r.items[w.ID] = current
	return nil
}

func (r *WeekRepository) MarkPricesCalculated(_ context.Context, weekID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[weekID]
	if !ok {
		return fmt.Errorf("week not found: %s", weekID)
	}
	current.PricesCalculated = true
	r.items[weekID] = current
	return nil
}

func (r *WeekRepository) listBySeasonLocked(seasonID string) []week.Week {
	out := make([]week.Week, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, cloneWeek(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func cloneWeek(w week.Week) week.Week {
	copied := w
	copied.TransferCutoffTime = cloneTime(w.TransferCutoffTime)
	copied.TransferWindowClosedAt = cloneTime(w.TransferWindowClosedAt)
	return copied
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
