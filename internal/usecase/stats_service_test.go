package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestStatsService_RecordGameStats_RescoresWeek(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	for _, weekID := range []string{"w1", "w2"} {
		if _, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", weekID)); err != nil {
			t.Fatalf("create snapshot %s: %v", weekID, err)
		}
	}

	result, err := f.statsSvc.RecordGameStats(ctx, RecordGameStatsInput{
		GameID:     "g1",
		PlayerID:   "c1",
		Goals:      2,
		Assists:    1,
		Blocks:     1,
		Drops:      1,
		Throwaways: 1,
		Played:     true,
	})
	if err != nil {
		t.Fatalf("record stats: %v", err)
	}
	// 2*3 + 1*3 + 1*2 - 2 - 1
	if result.Stats.Points != 8 {
		t.Fatalf("unexpected derived points: got=%d want=8", result.Stats.Points)
	}
	if result.Recalculation.SuccessCount != 1 || result.Recalculation.Teams[0].Weeks != 2 {
		t.Fatalf("unexpected recalculation: %+v", result.Recalculation)
	}

	score, err := f.scoreSvc.GetWeekScore(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("get week score: %v", err)
	}
	if score.TotalPoints != 8 {
		t.Fatalf("unexpected week 1 total: got=%d want=8", score.TotalPoints)
	}

	override := 3
	if _, err := f.statsSvc.RecordGameStats(ctx, RecordGameStatsInput{
		GameID:   "g1",
		PlayerID: "c1",
		Goals:    2,
		Played:   true,
		Points:   &override,
	}); err != nil {
		t.Fatalf("correct stats: %v", err)
	}
	score, err = f.scoreSvc.GetWeekScore(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("get corrected score: %v", err)
	}
	if score.TotalPoints != 3 {
		t.Fatalf("correction was not re-scored: got=%d want=3", score.TotalPoints)
	}
}

func TestStatsService_RecordGameStats_Rejections(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RecordGameStatsInput
		kind  error
	}{
		{name: "negative counter", input: RecordGameStatsInput{GameID: "g1", PlayerID: "c1", Drops: -1}, kind: ErrValidationFailed},
		{name: "missing player id", input: RecordGameStatsInput{GameID: "g1"}, kind: ErrValidationFailed},
		{name: "unknown game", input: RecordGameStatsInput{GameID: "g9", PlayerID: "c1"}, kind: ErrNotFound},
		{name: "unknown player", input: RecordGameStatsInput{GameID: "g1", PlayerID: "ghost"}, kind: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.statsSvc.RecordGameStats(ctx, tc.input); !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
		})
	}
}

func TestStatsService_UnplayedLineScoresNothing(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	result, err := f.statsSvc.RecordGameStats(context.Background(), RecordGameStatsInput{
		GameID:   "g2",
		PlayerID: "h2",
		Goals:    4,
	})
	if err != nil {
		t.Fatalf("record stats: %v", err)
	}
	if result.Stats.Points != 0 {
		t.Fatalf("unplayed line must not earn points: got=%d", result.Stats.Points)
	}
}
