package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/season"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/valuechange"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/resilience"
	"github.com/shopspring/decimal"
)

// PlayerPriceTable is one player's computed value per round.
type PlayerPriceTable struct {
	PlayerID string
	Rounds   []valuechange.RoundValue
}

type FinalizePricesResult struct {
	WeekID       string
	PricedRound  int
	PlayersCount int
	RowsSaved    int
}

type PriceService struct {
	seasonRepo season.Repository
	weekRepo   week.Repository
	gameRepo   game.Repository
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	valueRepo  valuechange.Repository
	logger     *logging.Logger

	finalizeGroup resilience.SingleFlight[FinalizePricesResult]
}

func NewPriceService(
	seasonRepo season.Repository,
	weekRepo week.Repository,
	gameRepo game.Repository,
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	valueRepo valuechange.Repository,
	logger *logging.Logger,
) *PriceService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PriceService{
		seasonRepo: seasonRepo,
		weekRepo:   weekRepo,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		valueRepo:  valueRepo,
		logger:     logger,
	}
}

// CalculateSeasonPrices prices every player of the season for rounds
// 1..throughRound from the recorded stats. Nothing is written.
func (s *PriceService) CalculateSeasonPrices(ctx context.Context, seasonID string, throughRound int) ([]PlayerPriceTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PriceService.CalculateSeasonPrices")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrValidationFailed)
	}
	if throughRound < 1 {
		return nil, fmt.Errorf("%w: round must be >= 1", ErrValidationFailed)
	}
	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, persistenceError("get season", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	players, err := s.playerRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, persistenceError("list season players", err)
	}
	history, err := s.loadSeasonHistory(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerPriceTable, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerPriceTable{
			PlayerID: p.ID,
			Rounds:   valuechange.CalculatePriceTable(p.StartingValue, history[p.ID], throughRound),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func (s *PriceService) loadSeasonHistory(ctx context.Context, seasonID string) (map[string][]valuechange.Performance, error) {
	weeks, err := s.weekRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, persistenceError("list season weeks", err)
	}

	weekNumberByID := make(map[string]int, len(weeks))
	weekIDs := make([]string, 0, len(weeks))
	for _, w := range weeks {
		weekNumberByID[w.ID] = w.Number
		weekIDs = append(weekIDs, w.ID)
	}

	games, err := s.gameRepo.ListByWeeks(ctx, weekIDs)
	if err != nil {
		return nil, persistenceError("list season games", err)
	}
	weekNumberByGame := make(map[string]int, len(games))
	gameIDs := make([]string, 0, len(games))
	for _, g := range games {
		weekNumberByGame[g.ID] = weekNumberByID[g.WeekID]
		gameIDs = append(gameIDs, g.ID)
	}

	rows, err := s.statsRepo.ListByGames(ctx, gameIDs)
	if err != nil {
		return nil, persistenceError("list season stats", err)
	}

	out := make(map[string][]valuechange.Performance)
	for _, row := range rows {
		number, ok := weekNumberByGame[row.GameID]
		if !ok {
			continue
		}
		out[row.PlayerID] = append(out[row.PlayerID], valuechange.Performance{
			WeekNumber: number,
			Points:     row.Points,
			Played:     row.Played,
		})
	}
	return out, nil
}

// SaveCalculatedPrices upserts one value change per (player, round) for
// round 2 onwards. Round 1 always reads the starting value.
func (s *PriceService) SaveCalculatedPrices(ctx context.Context, tables []PlayerPriceTable) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PriceService.SaveCalculatedPrices")
	defer span.End()

	rows := make([]valuechange.ValueChange, 0, len(tables))
	for _, table := range tables {
		for _, item := range table.Rounds {
			if item.Round < 2 {
				continue
			}
			rows = append(rows, valuechange.ValueChange{
				PlayerID: table.PlayerID,
				Round:    item.Round,
				Value:    item.Value,
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.valueRepo.UpsertMany(ctx, rows); err != nil {
		return 0, persistenceError("upsert value changes", err)
	}
	return len(rows), nil
}

// FinalizeWeekPrices prices the round after weekID and marks the week's
// prices as calculated, which unlocks the next week's transfer window.
// Concurrent calls for one week share a single run that is detached from any
// caller's cancellation.
func (s *PriceService) FinalizeWeekPrices(ctx context.Context, weekID string) (FinalizePricesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PriceService.FinalizeWeekPrices")
	defer span.End()

	weekID = strings.TrimSpace(weekID)
	if weekID == "" {
		return FinalizePricesResult{}, fmt.Errorf("%w: week id is required", ErrValidationFailed)
	}

	shareCtx := context.WithoutCancel(ctx)
	result, shared, err := s.finalizeGroup.Do(weekID, func() (FinalizePricesResult, error) {
		return s.finalizeWeekPrices(shareCtx, weekID)
	})
	if err != nil {
		return FinalizePricesResult{}, err
	}
	if shared {
		s.logger.DebugContext(ctx, "finalize prices shared in-flight result", "week_id", weekID)
	}

	return result, nil
}

func (s *PriceService) finalizeWeekPrices(ctx context.Context, weekID string) (FinalizePricesResult, error) {
	item, exists, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return FinalizePricesResult{}, persistenceError("get week", err)
	}
	if !exists {
		return FinalizePricesResult{}, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}

	round := item.Number + 1
	tables, err := s.CalculateSeasonPrices(ctx, item.SeasonID, round)
	if err != nil {
		return FinalizePricesResult{}, err
	}
	saved, err := s.SaveCalculatedPrices(ctx, tables)
	if err != nil {
		return FinalizePricesResult{}, err
	}
	if err := s.weekRepo.MarkPricesCalculated(ctx, item.ID); err != nil {
		return FinalizePricesResult{}, persistenceError("mark prices calculated", err)
	}

	s.logger.InfoContext(ctx, "week prices finalized",
		"week_id", item.ID,
		"season_id", item.SeasonID,
		"priced_round", round,
		"players", len(tables),
		"rows", saved,
	)

	return FinalizePricesResult{
		WeekID:       item.ID,
		PricedRound:  round,
		PlayersCount: len(tables),
		RowsSaved:    saved,
	}, nil
}

// GetCurrentPlayerPrices returns each season player's latest value and its
// change from the previous round, falling back to starting values.
func (s *PriceService) GetCurrentPlayerPrices(ctx context.Context, seasonID string) ([]valuechange.CurrentPrice, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PriceService.GetCurrentPlayerPrices")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrValidationFailed)
	}

	players, err := s.playerRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, persistenceError("list season players", err)
	}
	changesByPlayer, err := s.changesByPlayer(ctx, players)
	if err != nil {
		return nil, err
	}

	out := make([]valuechange.CurrentPrice, 0, len(players))
	for _, p := range players {
		out = append(out, valuechange.Current(p.ID, p.StartingValue, changesByPlayer[p.ID]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

// PlayerValueAtWeek resolves a single player's value for the given week.
func (s *PriceService) PlayerValueAtWeek(ctx context.Context, playerID string, weekNumber int) (decimal.Decimal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PriceService.PlayerValueAtWeek")
	defer span.End()

	p, exists, err := s.playerRepo.GetByID(ctx, strings.TrimSpace(playerID))
	if err != nil {
		return decimal.Zero, persistenceError("get player", err)
	}
	if !exists {
		return decimal.Zero, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	change, found, err := s.valueRepo.GetLatestAtOrBefore(ctx, p.ID, weekNumber)
	if err != nil {
		return decimal.Zero, persistenceError("get latest value change", err)
	}
	if !found {
		return p.StartingValue, nil
	}
	return change.Value, nil
}

// ValuesAtWeek resolves the value of several players for the given week with
// a single history read.
func (s *PriceService) ValuesAtWeek(ctx context.Context, players []player.Player, weekNumber int) (map[string]decimal.Decimal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PriceService.ValuesAtWeek")
	defer span.End()

	changesByPlayer, err := s.changesByPlayer(ctx, players)
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(players))
	for _, p := range players {
		out[p.ID] = valuechange.ValueAt(p.StartingValue, changesByPlayer[p.ID], weekNumber)
	}
	return out, nil
}

func (s *PriceService) changesByPlayer(ctx context.Context, players []player.Player) (map[string][]valuechange.ValueChange, error) {
	if len(players) == 0 {
		return map[string][]valuechange.ValueChange{}, nil
	}
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}

	changes, err := s.valueRepo.ListByPlayers(ctx, ids)
	if err != nil {
		return nil, persistenceError("list value changes", err)
	}

	out := make(map[string][]valuechange.ValueChange, len(players))
	for _, item := range changes {
		out[item.PlayerID] = append(out[item.PlayerID], item)
	}
	return out, nil
}
