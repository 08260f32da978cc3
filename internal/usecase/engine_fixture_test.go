package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/season"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	"github.com/riskibarqy/ultimate-fantasy/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
)

var engineNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type sequenceIDGenerator struct {
	next atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("snap-%03d", g.next.Add(1)), nil
}

// engineFixture is a three-week season with a ten-player roster worth 1000
// against a cap of 1200, plus spare players for transfers. Season s0 holds a
// single late week used to check season boundaries.
type engineFixture struct {
	clock *clockwork.FakeClock

	seasons  *memory.SeasonRepository
	weeks    *memory.WeekRepository
	players  *memory.PlayerRepository
	games    *memory.GameRepository
	stats    *memory.PlayerStatsRepository
	values   *memory.ValueChangeRepository
	teams    *memory.FantasyTeamRepository
	snaps    *memory.SnapshotRepository
	scores   *memory.WeekScoreRepository
	priceSvc *PriceService
	snapSvc  *SnapshotService
	scoreSvc *ScoringService
	windows  *TransferWindowService
	budget   *BudgetService
	statsSvc *StatsService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	f := &engineFixture{clock: clockwork.NewFakeClockAt(engineNow)}

	f.seasons = memory.NewSeasonRepository([]season.Season{
		{ID: "s1", Name: "Summer", Active: true, SalaryCap: decimal.NewFromInt(1200)},
		{ID: "s0", Name: "Spring"},
	})
	f.weeks = memory.NewWeekRepository([]week.Week{
		{ID: "w1", SeasonID: "s1", Number: 1, GameDate: engineNow.Add(24 * time.Hour)},
		{ID: "w2", SeasonID: "s1", Number: 2, GameDate: engineNow.Add(8 * 24 * time.Hour)},
		{ID: "w3", SeasonID: "s1", Number: 3, GameDate: engineNow.Add(15 * 24 * time.Hour)},
		{ID: "s0-w9", SeasonID: "s0", Number: 9, GameDate: engineNow.Add(-30 * 24 * time.Hour)},
	})
	f.players = memory.NewPlayerRepository([]player.Player{
		enginePlayer("h1", player.Handler, 120),
		enginePlayer("h2", player.Handler, 110),
		enginePlayer("h3", player.Handler, 100),
		enginePlayer("h4", player.Handler, 90),
		enginePlayer("h5", player.Handler, 80),
		enginePlayer("c1", player.Cutter, 100),
		enginePlayer("c2", player.Cutter, 100),
		enginePlayer("c3", player.Cutter, 90),
		enginePlayer("c4", player.Cutter, 85),
		enginePlayer("r1", player.Receiver, 100),
		enginePlayer("r2", player.Receiver, 100),
		enginePlayer("r3", player.Receiver, 90),
		enginePlayer("r4", player.Receiver, 300),
		{ID: "x1", SeasonID: "s0", Name: "x1", Position: player.Handler, StartingValue: decimal.NewFromInt(50), Active: true},
	})
	f.games = memory.NewGameRepository([]game.Game{
		{ID: "g1", WeekID: "w1", StartsAt: engineNow.Add(24 * time.Hour)},
		{ID: "g2", WeekID: "w2", StartsAt: engineNow.Add(8 * 24 * time.Hour)},
		{ID: "g3", WeekID: "w3", StartsAt: engineNow.Add(15 * 24 * time.Hour)},
	})
	f.stats = memory.NewPlayerStatsRepository(nil)
	f.values = memory.NewValueChangeRepository()
	f.teams = memory.NewFantasyTeamRepository([]fantasyteam.Team{
		{ID: "t1", SeasonID: "s1", OwnerUserID: "u1", Name: "Layout Legends"},
		{ID: "t2", SeasonID: "s1", OwnerUserID: "u2", Name: "Huck Finns"},
	})
	f.snaps = memory.NewSnapshotRepository()
	f.scores = memory.NewWeekScoreRepository()

	f.priceSvc = NewPriceService(f.seasons, f.weeks, f.games, f.players, f.stats, f.values, nil)
	f.snapSvc = NewSnapshotService(f.teams, f.weeks, f.players, f.snaps, f.priceSvc, &sequenceIDGenerator{}, nil)
	f.snapSvc.clock = f.clock
	f.scoreSvc = NewScoringService(f.weeks, f.snaps, f.games, f.stats, f.scores, 2, nil)
	f.scoreSvc.clock = f.clock
	f.windows = NewTransferWindowService(f.weeks, []string{" admin-1 "}, nil)
	f.windows.clock = f.clock
	f.budget = NewBudgetService(f.seasons, f.weeks, f.teams, f.players, f.priceSvc, f.snapSvc, decimal.NewFromInt(1000), nil)
	f.statsSvc = NewStatsService(f.games, f.players, f.stats, playerstats.DefaultRules(), f.scoreSvc, nil)

	return f
}

func enginePlayer(id string, pos player.Position, value int64) player.Player {
	return player.Player{
		ID:            id,
		SeasonID:      "s1",
		Name:          id,
		Position:      pos,
		StartingValue: decimal.NewFromInt(value),
		Active:        true,
	}
}

func fullRosterInput(teamID, weekID string) CreateSnapshotInput {
	return CreateSnapshotInput{
		TeamID: teamID,
		WeekID: weekID,
		Slots: []SnapshotSlotInput{
			{PlayerID: "h1", Position: "handler", IsCaptain: true},
			{PlayerID: "h2", Position: "handler"},
			{PlayerID: "h3", Position: "handler"},
			{PlayerID: "c1", Position: "cutter"},
			{PlayerID: "c2", Position: "cutter"},
			{PlayerID: "r1", Position: "receiver"},
			{PlayerID: "r2", Position: "receiver"},
			{PlayerID: "h4", Position: "handler", IsBenched: true},
			{PlayerID: "c3", Position: "cutter", IsBenched: true},
			{PlayerID: "r3", Position: "receiver", IsBenched: true},
		},
	}
}

func (f *engineFixture) recordStats(t *testing.T, gameID, playerID string, points int, played bool) {
	t.Helper()

	err := f.stats.Upsert(context.Background(), playerstats.Stats{
		PlayerID: playerID,
		GameID:   gameID,
		Points:   points,
		Played:   played,
	})
	if err != nil {
		t.Fatalf("record stats: %v", err)
	}
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()

	v, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return v
}
