package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
)

const defaultRecalculationWorkers = 4

// TeamRecalculation is the outcome of re-scoring one team forward.
type TeamRecalculation struct {
	TeamID     string
	Weeks      int
	Status     string
	Message    string
	DurationMs int64
}

type RecalculationSummary struct {
	WeekID       string
	Teams        []TeamRecalculation
	SuccessCount int
	FailedCount  int
}

const (
	recalcStatusSuccess = "success"
	recalcStatusFailed  = "failed"
)

type ScoringService struct {
	weekRepo     week.Repository
	snapshotRepo snapshot.Repository
	gameRepo     game.Repository
	statsRepo    playerstats.Repository
	scoreRepo    scoring.Repository
	logger       *logging.Logger
	clock        clockwork.Clock
	workers      int
}

func NewScoringService(
	weekRepo week.Repository,
	snapshotRepo snapshot.Repository,
	gameRepo game.Repository,
	statsRepo playerstats.Repository,
	scoreRepo scoring.Repository,
	workers int,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultRecalculationWorkers
	}

	return &ScoringService{
		weekRepo:     weekRepo,
		snapshotRepo: snapshotRepo,
		gameRepo:     gameRepo,
		statsRepo:    statsRepo,
		scoreRepo:    scoreRepo,
		logger:       logger,
		clock:        clockwork.NewRealClock(),
		workers:      workers,
	}
}

// CalculateWeekScore scores the team's snapshot for the week and stores the
// result, replacing any earlier score for the same team and week.
func (s *ScoringService) CalculateWeekScore(ctx context.Context, teamID, weekID string) (scoring.WeekScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateWeekScore")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return scoring.WeekScore{}, fmt.Errorf("%w: team id is required", ErrValidationFailed)
	}
	target, err := s.getWeek(ctx, weekID)
	if err != nil {
		return scoring.WeekScore{}, err
	}

	return s.scoreWeek(ctx, teamID, target)
}

func (s *ScoringService) scoreWeek(ctx context.Context, teamID string, target week.Week) (scoring.WeekScore, error) {
	snap, exists, err := s.snapshotRepo.GetByTeamAndWeek(ctx, teamID, target.ID)
	if err != nil {
		return scoring.WeekScore{}, persistenceError("get snapshot", err)
	}
	if !exists {
		return scoring.WeekScore{}, fmt.Errorf("%w: team=%s week=%s", ErrSnapshotNotFound, teamID, target.ID)
	}

	games, err := s.gameRepo.ListByWeek(ctx, target.ID)
	if err != nil {
		return scoring.WeekScore{}, persistenceError("list week games", err)
	}

	var stats []playerstats.Stats
	if len(games) > 0 {
		gameIDs := make([]string, 0, len(games))
		for _, g := range games {
			gameIDs = append(gameIDs, g.ID)
		}
		stats, err = s.statsRepo.ListByGames(ctx, gameIDs)
		if err != nil {
			return scoring.WeekScore{}, persistenceError("list game stats", err)
		}
	}

	result := scoring.CalculateWeek(snap, games, playerstats.NewIndex(stats))
	result.CalculatedAt = s.clock.Now().UTC()

	if err := s.scoreRepo.Upsert(ctx, result); err != nil {
		return scoring.WeekScore{}, persistenceError("upsert week score", err)
	}

	s.logger.DebugContext(ctx, "week score calculated",
		"team_id", teamID,
		"week_id", target.ID,
		"total_points", result.TotalPoints,
		"captain_points", result.CaptainPoints,
		"substitutions", len(result.Substitutions),
	)
	return result, nil
}

// RecalculateAllSubsequentWeeks re-scores every week of the same season from
// fromWeekID onwards, in ascending week order, skipping weeks the team has no
// snapshot for.
func (s *ScoringService) RecalculateAllSubsequentWeeks(ctx context.Context, teamID, fromWeekID string) ([]scoring.WeekScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecalculateAllSubsequentWeeks")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrValidationFailed)
	}
	from, err := s.getWeek(ctx, fromWeekID)
	if err != nil {
		return nil, err
	}

	seasonWeeks, err := s.weekRepo.ListBySeason(ctx, from.SeasonID)
	if err != nil {
		return nil, persistenceError("list season weeks", err)
	}
	sort.Slice(seasonWeeks, func(i, j int) bool { return seasonWeeks[i].Number < seasonWeeks[j].Number })

	snaps, err := s.snapshotRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, persistenceError("list team snapshots", err)
	}
	snapshotWeeks := make(map[string]struct{}, len(snaps))
	for _, snap := range snaps {
		snapshotWeeks[snap.WeekID] = struct{}{}
	}

	out := make([]scoring.WeekScore, 0, len(seasonWeeks))
	for _, item := range seasonWeeks {
		if item.Number < from.Number {
			continue
		}
		if _, ok := snapshotWeeks[item.ID]; !ok {
			continue
		}

		result, err := s.scoreWeek(ctx, teamID, item)
		if err != nil {
			return out, fmt.Errorf("recalculate week=%d: %w", item.Number, err)
		}
		out = append(out, result)
	}

	s.logger.InfoContext(ctx, "team scores recalculated",
		"team_id", teamID,
		"from_week", from.Number,
		"weeks", len(out),
	)
	return out, nil
}

// RecalculateWeekForAllTeams runs RecalculateAllSubsequentWeeks for every team
// that has a snapshot in weekID. Teams are processed concurrently; each
// team's weeks stay sequential.
func (s *ScoringService) RecalculateWeekForAllTeams(ctx context.Context, weekID string) (RecalculationSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecalculateWeekForAllTeams")
	defer span.End()

	target, err := s.getWeek(ctx, weekID)
	if err != nil {
		return RecalculationSummary{}, err
	}

	teamIDs, err := s.snapshotRepo.ListTeamIDsByWeek(ctx, target.ID)
	if err != nil {
		return RecalculationSummary{}, persistenceError("list teams by week", err)
	}
	summary := RecalculationSummary{WeekID: target.ID}
	if len(teamIDs) == 0 {
		return summary, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(teamIDs)))
	if err != nil {
		return RecalculationSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers      sync.WaitGroup
		successCount atomic.Int64
		failedCount  atomic.Int64
		results      = make(chan TeamRecalculation, len(teamIDs))
	)
	for _, teamID := range teamIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := TeamRecalculation{TeamID: teamID, Status: recalcStatusSuccess}
			scores, err := s.RecalculateAllSubsequentWeeks(ctx, teamID, target.ID)
			row.Weeks = len(scores)
			if err != nil {
				row.Status = recalcStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "team recalculation failed", "team_id", teamID, "week_id", target.ID, "error", err)
			} else {
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return RecalculationSummary{}, fmt.Errorf("submit recalculation to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		summary.Teams = append(summary.Teams, row)
	}
	sort.SliceStable(summary.Teams, func(i, j int) bool { return summary.Teams[i].TeamID < summary.Teams[j].TeamID })

	summary.SuccessCount = int(successCount.Load())
	summary.FailedCount = int(failedCount.Load())
	return summary, nil
}

func (s *ScoringService) GetWeekScore(ctx context.Context, teamID, weekID string) (scoring.WeekScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetWeekScore")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	weekID = strings.TrimSpace(weekID)
	item, exists, err := s.scoreRepo.GetByTeamAndWeek(ctx, teamID, weekID)
	if err != nil {
		return scoring.WeekScore{}, persistenceError("get week score", err)
	}
	if !exists {
		return scoring.WeekScore{}, fmt.Errorf("%w: week score team=%s week=%s", ErrNotFound, teamID, weekID)
	}
	return item, nil
}

// ScoredWeek is a stored week score with the week it belongs to.
type ScoredWeek struct {
	SeasonID   string
	WeekNumber int
	Score      scoring.WeekScore
}

type TeamScoreHistory struct {
	TeamID      string
	Weeks       []ScoredWeek
	TotalPoints int
}

// ListTeamScores returns every stored score of the team ordered by season and
// week number. A team that was never scored has an empty history.
func (s *ScoringService) ListTeamScores(ctx context.Context, teamID string) (TeamScoreHistory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ListTeamScores")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamScoreHistory{}, fmt.Errorf("%w: team id is required", ErrValidationFailed)
	}

	scores, err := s.scoreRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return TeamScoreHistory{}, persistenceError("list team scores", err)
	}

	history := TeamScoreHistory{TeamID: teamID, Weeks: make([]ScoredWeek, 0, len(scores))}
	for _, score := range scores {
		item, exists, err := s.weekRepo.GetByID(ctx, score.WeekID)
		if err != nil {
			return TeamScoreHistory{}, persistenceError("get week", err)
		}
		if !exists {
			s.logger.WarnContext(ctx, "week score references unknown week", "team_id", teamID, "week_id", score.WeekID)
			continue
		}
		history.Weeks = append(history.Weeks, ScoredWeek{
			SeasonID:   item.SeasonID,
			WeekNumber: item.Number,
			Score:      score,
		})
		history.TotalPoints += score.Points()
	}
	sort.SliceStable(history.Weeks, func(i, j int) bool {
		if history.Weeks[i].SeasonID != history.Weeks[j].SeasonID {
			return history.Weeks[i].SeasonID < history.Weeks[j].SeasonID
		}
		return history.Weeks[i].WeekNumber < history.Weeks[j].WeekNumber
	})

	return history, nil
}

func (s *ScoringService) getWeek(ctx context.Context, weekID string) (week.Week, error) {
	weekID = strings.TrimSpace(weekID)
	if weekID == "" {
		return week.Week{}, fmt.Errorf("%w: week id is required", ErrValidationFailed)
	}
	item, exists, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return week.Week{}, persistenceError("get week", err)
	}
	if !exists {
		return week.Week{}, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}
	return item, nil
}
