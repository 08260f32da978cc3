package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func seedWeekOneStats(t *testing.T, f *engineFixture) {
	t.Helper()

	f.recordStats(t, "g1", "h1", 6, true)
	f.recordStats(t, "g1", "h2", 5, true)
	f.recordStats(t, "g1", "h3", 0, false)
	f.recordStats(t, "g1", "h4", 4, true)
	f.recordStats(t, "g1", "c1", 3, true)
	f.recordStats(t, "g1", "c2", 2, true)
	f.recordStats(t, "g1", "r1", 1, true)
	f.recordStats(t, "g1", "r2", 0, true)
}

func TestScoringService_CalculateWeekScore(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	seedWeekOneStats(t, f)

	if _, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", "w1")); err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	got, err := f.scoreSvc.CalculateWeekScore(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("calculate week score: %v", err)
	}
	if got.TotalPoints != 15 {
		t.Fatalf("unexpected total points: got=%d want=15", got.TotalPoints)
	}
	if got.CaptainPoints != 12 {
		t.Fatalf("unexpected captain points: got=%d want=12", got.CaptainPoints)
	}
	if len(got.Substitutions) != 1 || got.Substitutions[0].OutPlayerID != "h3" || got.Substitutions[0].InPlayerID != "h4" {
		t.Fatalf("unexpected substitutions: %+v", got.Substitutions)
	}

	stored, err := f.scoreSvc.GetWeekScore(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("get week score: %v", err)
	}
	if stored.Points() != 27 {
		t.Fatalf("unexpected stored points: got=%d want=27", stored.Points())
	}
}

func TestScoringService_CalculateWeekScore_NoGamesScoresZero(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	// w2 has a game but no stats, which scores the same as no games at all.
	if _, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", "w2")); err != nil {
		t.Fatalf("create snapshot: %v", err)
	}
	got, err := f.scoreSvc.CalculateWeekScore(ctx, "t1", "w2")
	if err != nil {
		t.Fatalf("calculate week score: %v", err)
	}
	if got.Points() != 0 || len(got.Substitutions) != 0 {
		t.Fatalf("expected empty score, got %+v", got)
	}
}

func TestScoringService_CalculateWeekScore_MissingSnapshot(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	_, err := f.scoreSvc.CalculateWeekScore(context.Background(), "t1", "w1")
	if !errors.Is(err, ErrSnapshotNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestScoringService_RecalculateAllSubsequentWeeks_Idempotent(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	seedWeekOneStats(t, f)
	f.recordStats(t, "g3", "h1", 10, true)

	for _, weekID := range []string{"w1", "w3"} {
		if _, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", weekID)); err != nil {
			t.Fatalf("create snapshot %s: %v", weekID, err)
		}
	}

	first, err := f.scoreSvc.RecalculateAllSubsequentWeeks(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("first recalculation: %v", err)
	}
	if len(first) != 2 || first[0].WeekID != "w1" || first[1].WeekID != "w3" {
		t.Fatalf("expected weeks w1 then w3, got %+v", first)
	}
	if first[1].CaptainPoints != 20 {
		t.Fatalf("unexpected week 3 captain points: got=%d want=20", first[1].CaptainPoints)
	}

	f.clock.Advance(time.Hour)
	second, err := f.scoreSvc.RecalculateAllSubsequentWeeks(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("second recalculation: %v", err)
	}
	for i := range first {
		first[i].CalculatedAt = time.Time{}
		second[i].CalculatedAt = time.Time{}
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recalculation is not idempotent:\nfirst=%+v\nsecond=%+v", first, second)
	}

	fromW3, err := f.scoreSvc.RecalculateAllSubsequentWeeks(ctx, "t1", "w3")
	if err != nil {
		t.Fatalf("recalculate from w3: %v", err)
	}
	if len(fromW3) != 1 {
		t.Fatalf("expected only week 3, got %d weeks", len(fromW3))
	}
}

func TestScoringService_RecalculateWeekForAllTeams(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	seedWeekOneStats(t, f)

	for _, teamID := range []string{"t2", "t1"} {
		if _, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput(teamID, "w1")); err != nil {
			t.Fatalf("create snapshot %s: %v", teamID, err)
		}
	}

	summary, err := f.scoreSvc.RecalculateWeekForAllTeams(ctx, "w1")
	if err != nil {
		t.Fatalf("recalculate week: %v", err)
	}
	if summary.SuccessCount != 2 || summary.FailedCount != 0 {
		t.Fatalf("unexpected counts: success=%d failed=%d", summary.SuccessCount, summary.FailedCount)
	}
	if len(summary.Teams) != 2 || summary.Teams[0].TeamID != "t1" || summary.Teams[1].TeamID != "t2" {
		t.Fatalf("unexpected team rows: %+v", summary.Teams)
	}

	for _, teamID := range []string{"t1", "t2"} {
		score, err := f.scoreSvc.GetWeekScore(ctx, teamID, "w1")
		if err != nil {
			t.Fatalf("get score %s: %v", teamID, err)
		}
		if score.Points() != 27 {
			t.Fatalf("unexpected points for %s: got=%d want=27", teamID, score.Points())
		}
	}

	empty, err := f.scoreSvc.RecalculateWeekForAllTeams(ctx, "w2")
	if err != nil {
		t.Fatalf("recalculate empty week: %v", err)
	}
	if len(empty.Teams) != 0 {
		t.Fatalf("expected no teams for w2, got %+v", empty.Teams)
	}
}

func TestScoringService_RecalculateAllSubsequentWeeks_StaysInSeasonFromWeek(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	seedWeekOneStats(t, f)

	for _, weekID := range []string{"w1", "w2", "w3"} {
		if _, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", weekID)); err != nil {
			t.Fatalf("create snapshot %s: %v", weekID, err)
		}
	}
	// A later-numbered week of another season, written straight to the store.
	other, err := f.snapSvc.GetSnapshot(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	other.ID = "snap-other-season"
	other.WeekID = "s0-w9"
	if err := f.snaps.Create(ctx, other); err != nil {
		t.Fatalf("store other season snapshot: %v", err)
	}

	got, err := f.scoreSvc.RecalculateAllSubsequentWeeks(ctx, "t1", "w2")
	if err != nil {
		t.Fatalf("recalculate from w2: %v", err)
	}
	if len(got) != 2 || got[0].WeekID != "w2" || got[1].WeekID != "w3" {
		t.Fatalf("expected weeks w2 then w3, got %+v", got)
	}

	for _, weekID := range []string{"w1", "s0-w9"} {
		if _, err := f.scoreSvc.GetWeekScore(ctx, "t1", weekID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("week %s must not be re-scored, got err=%v", weekID, err)
		}
	}
}

func TestScoringService_ListTeamScores(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	seedWeekOneStats(t, f)
	f.recordStats(t, "g3", "h1", 10, true)

	for _, weekID := range []string{"w3", "w1"} {
		if _, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", weekID)); err != nil {
			t.Fatalf("create snapshot %s: %v", weekID, err)
		}
	}
	if _, err := f.scoreSvc.RecalculateAllSubsequentWeeks(ctx, "t1", "w1"); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	history, err := f.scoreSvc.ListTeamScores(ctx, "t1")
	if err != nil {
		t.Fatalf("list team scores: %v", err)
	}
	if len(history.Weeks) != 2 || history.Weeks[0].WeekNumber != 1 || history.Weeks[1].WeekNumber != 3 {
		t.Fatalf("unexpected weeks: %+v", history.Weeks)
	}
	if history.Weeks[0].SeasonID != "s1" {
		t.Fatalf("unexpected season: got=%s want=s1", history.Weeks[0].SeasonID)
	}
	if history.TotalPoints != 47 {
		t.Fatalf("unexpected total points: got=%d want=47", history.TotalPoints)
	}

	empty, err := f.scoreSvc.ListTeamScores(ctx, "t2")
	if err != nil {
		t.Fatalf("list empty history: %v", err)
	}
	if len(empty.Weeks) != 0 || empty.TotalPoints != 0 {
		t.Fatalf("expected empty history, got %+v", empty)
	}

	if _, err := f.scoreSvc.ListTeamScores(ctx, " "); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for blank team, got %v", err)
	}
}
