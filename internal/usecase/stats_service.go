package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
)

// WeekRecalculator re-scores every team affected by a change to a week.
type WeekRecalculator interface {
	RecalculateWeekForAllTeams(ctx context.Context, weekID string) (RecalculationSummary, error)
}

// RecordGameStatsInput is a player's stat line for a game. Points, when set,
// overrides the value derived from the counters.
type RecordGameStatsInput struct {
	GameID     string
	PlayerID   string
	Goals      int
	Assists    int
	Blocks     int
	Drops      int
	Throwaways int
	Played     bool
	Points     *int
}

type RecordGameStatsResult struct {
	Stats         playerstats.Stats
	Recalculation RecalculationSummary
}

type StatsService struct {
	gameRepo     game.Repository
	playerRepo   player.Repository
	statsRepo    playerstats.Repository
	rules        playerstats.Rules
	recalculator WeekRecalculator
	logger       *logging.Logger
}

func NewStatsService(
	gameRepo game.Repository,
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	rules playerstats.Rules,
	recalculator WeekRecalculator,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatsService{
		gameRepo:     gameRepo,
		playerRepo:   playerRepo,
		statsRepo:    statsRepo,
		rules:        rules,
		recalculator: recalculator,
		logger:       logger,
	}
}

// RecordGameStats stores or corrects a stat line, then re-scores the game's
// week and every later week for all teams that rostered a snapshot in it.
func (s *StatsService) RecordGameStats(ctx context.Context, input RecordGameStatsInput) (RecordGameStatsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RecordGameStats")
	defer span.End()

	item := playerstats.Stats{
		PlayerID:   strings.TrimSpace(input.PlayerID),
		GameID:     strings.TrimSpace(input.GameID),
		Goals:      input.Goals,
		Assists:    input.Assists,
		Blocks:     input.Blocks,
		Drops:      input.Drops,
		Throwaways: input.Throwaways,
		Played:     input.Played,
	}
	if err := item.Validate(); err != nil {
		return RecordGameStatsResult{}, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, item.GameID)
	if err != nil {
		return RecordGameStatsResult{}, persistenceError("get game", err)
	}
	if !exists {
		return RecordGameStatsResult{}, fmt.Errorf("%w: game=%s", ErrNotFound, item.GameID)
	}
	if _, exists, err := s.playerRepo.GetByID(ctx, item.PlayerID); err != nil {
		return RecordGameStatsResult{}, persistenceError("get player", err)
	} else if !exists {
		return RecordGameStatsResult{}, fmt.Errorf("%w: player=%s", ErrNotFound, item.PlayerID)
	}

	switch {
	case input.Points != nil:
		item.Points = *input.Points
	case item.Played:
		item.Points = s.rules.Points(item)
	}

	if err := s.statsRepo.Upsert(ctx, item); err != nil {
		return RecordGameStatsResult{}, persistenceError("upsert player stats", err)
	}

	summary, err := s.recalculator.RecalculateWeekForAllTeams(ctx, g.WeekID)
	if err != nil {
		return RecordGameStatsResult{Stats: item}, err
	}

	s.logger.InfoContext(ctx, "player stats recorded",
		"game_id", item.GameID,
		"player_id", item.PlayerID,
		"points", item.Points,
		"played", item.Played,
		"teams_recalculated", summary.SuccessCount,
		"teams_failed", summary.FailedCount,
	)
	return RecordGameStatsResult{Stats: item, Recalculation: summary}, nil
}
