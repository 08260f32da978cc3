package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
)

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed()
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if len(seed.Seasons) != 1 || !seed.Seasons[0].Active {
		t.Fatalf("expected one active season, got %+v", seed.Seasons)
	}
	if got := len(seed.Weeks); got != 4 {
		t.Fatalf("unexpected weeks: got=%d want=4", got)
	}

	counts := make(map[player.Position]int)
	for _, p := range seed.Players {
		counts[p.Position]++
	}
	for _, pos := range player.Positions {
		if counts[pos] < 4 {
			t.Fatalf("not enough %s players to field a roster: %d", pos, counts[pos])
		}
	}
}

func TestParseSeed_RejectsUnknownPosition(t *testing.T) {
	raw := []byte(`
players:
  - {id: x, season_id: s, name: X, team_name: T, position: goalkeeper, starting_value: "10"}
`)
	if _, err := ParseSeed(raw); !errors.Is(err, player.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestWeekRepository_UpdateWindowRunsGuardUnderLock(t *testing.T) {
	repo := NewWeekRepository([]week.Week{
		{ID: "w1", SeasonID: "s", Number: 1, TransferWindowOpen: true},
		{ID: "w2", SeasonID: "s", Number: 2},
	})

	guardErr := errors.New("guard rejected")
	var seen int
	err := repo.UpdateWindow(context.Background(), week.Week{ID: "w2", TransferWindowOpen: true}, func(weeks []week.Week) error {
		seen = len(weeks)
		return guardErr
	})
	if !errors.Is(err, guardErr) {
		t.Fatalf("expected guard error, got %v", err)
	}
	if seen != 2 {
		t.Fatalf("guard saw %d weeks, want 2", seen)
	}

	w2, _, _ := repo.GetByID(context.Background(), "w2")
	if w2.TransferWindowOpen {
		t.Fatalf("week must stay closed when the guard fails")
	}
}

func TestSnapshotRepository_CreateRejectsDuplicate(t *testing.T) {
	repo := NewSnapshotRepository()
	ctx := context.Background()
	item := snapshot.Snapshot{ID: "a", TeamID: "t", WeekID: "w"}

	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	item.ID = "b"
	if err := repo.Create(ctx, item); !errors.Is(err, snapshot.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := repo.Replace(ctx, item); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, ok, _ := repo.GetByTeamAndWeek(ctx, "t", "w")
	if !ok || got.ID != "b" {
		t.Fatalf("unexpected snapshot after replace: ok=%v id=%s", ok, got.ID)
	}
}
