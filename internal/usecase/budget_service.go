package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/season"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
	"github.com/shopspring/decimal"
)

// PriorSnapshotLookup finds the roster a team carried into a week.
type PriorSnapshotLookup interface {
	GetMostRecentSnapshotBeforeWeek(ctx context.Context, teamID, weekID string) (snapshot.Snapshot, bool, error)
}

// BudgetResult is a budget after applying transfers. A negative budget is
// reported as is, never clamped, with Deficit holding its magnitude.
type BudgetResult struct {
	Budget  decimal.Decimal
	Valid   bool
	Deficit decimal.Decimal
}

// TransferPlan is the set of transfers needed to move a team onto a roster.
type TransferPlan struct {
	Transfers []fantasyteam.Transfer
	Count     int
	Allowed   int
	Unlimited bool
}

type BudgetService struct {
	seasonRepo       season.Repository
	weekRepo         week.Repository
	teamRepo         fantasyteam.Repository
	playerRepo       player.Repository
	values           PlayerValueLookup
	snapshots        PriorSnapshotLookup
	defaultSalaryCap decimal.Decimal
	logger           *logging.Logger
}

func NewBudgetService(
	seasonRepo season.Repository,
	weekRepo week.Repository,
	teamRepo fantasyteam.Repository,
	playerRepo player.Repository,
	values PlayerValueLookup,
	snapshots PriorSnapshotLookup,
	defaultSalaryCap decimal.Decimal,
	logger *logging.Logger,
) *BudgetService {
	if logger == nil {
		logger = logging.Default()
	}

	return &BudgetService{
		seasonRepo:       seasonRepo,
		weekRepo:         weekRepo,
		teamRepo:         teamRepo,
		playerRepo:       playerRepo,
		values:           values,
		snapshots:        snapshots,
		defaultSalaryCap: defaultSalaryCap,
		logger:           logger,
	}
}

// CalculateInitialBudget is the season salary cap minus the round 1 value of
// every player on the opening roster.
func (s *BudgetService) CalculateInitialBudget(ctx context.Context, seasonID string, playerIDs []string) (decimal.Decimal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BudgetService.CalculateInitialBudget")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return decimal.Zero, fmt.Errorf("%w: season id is required", ErrValidationFailed)
	}
	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return decimal.Zero, persistenceError("get season", err)
	}
	if !exists {
		return decimal.Zero, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	players, err := s.seasonPlayers(ctx, seasonID, playerIDs)
	if err != nil {
		return decimal.Zero, err
	}
	values, err := s.values.ValuesAtWeek(ctx, players, 1)
	if err != nil {
		return decimal.Zero, err
	}

	spent := decimal.Zero
	for _, p := range players {
		spent = spent.Add(values[p.ID])
	}

	salaryCap := item.SalaryCap
	if salaryCap.IsZero() {
		salaryCap = s.defaultSalaryCap
	}
	return salaryCap.Sub(spent).Round(2), nil
}

// CalculateBudgetAfterTransfers adds the sell value of every outgoing player
// and subtracts the buy value of every incoming one, both at weekNumber.
func (s *BudgetService) CalculateBudgetAfterTransfers(
	ctx context.Context,
	previousBudget decimal.Decimal,
	transfers []fantasyteam.Transfer,
	weekNumber int,
	seasonID string,
) (BudgetResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BudgetService.CalculateBudgetAfterTransfers")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return BudgetResult{}, fmt.Errorf("%w: season id is required", ErrValidationFailed)
	}
	if weekNumber < 1 {
		return BudgetResult{}, fmt.Errorf("%w: week number must be >= 1", ErrValidationFailed)
	}

	ids := make([]string, 0, len(transfers)*2)
	for _, t := range transfers {
		if t.OutPlayerID != "" {
			ids = append(ids, t.OutPlayerID)
		}
		if t.InPlayerID != "" {
			ids = append(ids, t.InPlayerID)
		}
	}

	players, err := s.seasonPlayers(ctx, seasonID, ids)
	if err != nil {
		return BudgetResult{}, err
	}
	values, err := s.values.ValuesAtWeek(ctx, players, weekNumber)
	if err != nil {
		return BudgetResult{}, err
	}

	budget := previousBudget
	for _, t := range transfers {
		if t.OutPlayerID != "" {
			budget = budget.Add(values[t.OutPlayerID])
		}
		if t.InPlayerID != "" {
			budget = budget.Sub(values[t.InPlayerID])
		}
	}

	return newBudgetResult(budget.Round(2)), nil
}

// PlanTransfers diffs roster against the team's most recent earlier snapshot.
// A team without one is still in its opening week and may transfer freely.
func (s *BudgetService) PlanTransfers(ctx context.Context, teamID, weekID string, roster []string) (TransferPlan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BudgetService.PlanTransfers")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	weekID = strings.TrimSpace(weekID)
	if teamID == "" || weekID == "" {
		return TransferPlan{}, fmt.Errorf("%w: team id and week id are required", ErrValidationFailed)
	}

	team, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TransferPlan{}, persistenceError("get fantasy team", err)
	}
	if !exists {
		return TransferPlan{}, fmt.Errorf("%w: fantasy team=%s", ErrNotFound, teamID)
	}
	target, exists, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return TransferPlan{}, persistenceError("get week", err)
	}
	if !exists {
		return TransferPlan{}, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}
	if target.SeasonID != team.SeasonID {
		return TransferPlan{}, fmt.Errorf("%w: week=%s is not in season=%s", ErrValidationFailed, weekID, team.SeasonID)
	}

	players, err := s.seasonPlayers(ctx, team.SeasonID, roster)
	if err != nil {
		return TransferPlan{}, err
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	next := make([]fantasyteam.RosterEntry, 0, len(roster))
	for _, id := range normalizePlayerIDs(roster) {
		next = append(next, fantasyteam.RosterEntry{PlayerID: id, Position: byID[id].Position})
	}

	prior, found, err := s.snapshots.GetMostRecentSnapshotBeforeWeek(ctx, teamID, weekID)
	if err != nil {
		return TransferPlan{}, err
	}

	var previous []fantasyteam.RosterEntry
	if found {
		previous = prior.Roster()
	}
	transfers := fantasyteam.DiffRoster(previous, next)

	plan := TransferPlan{
		Transfers: transfers,
		Count:     len(transfers),
		Allowed:   fantasyteam.MaxTransfersPerWeek,
		Unlimited: !found,
	}
	if !plan.Unlimited && plan.Count > plan.Allowed {
		return TransferPlan{}, fmt.Errorf("%w: team=%s week=%s transfers=%d allowed=%d",
			ErrInvariantViolation, teamID, weekID, plan.Count, plan.Allowed)
	}

	s.logger.DebugContext(ctx, "transfers planned",
		"team_id", teamID,
		"week_id", weekID,
		"count", plan.Count,
		"unlimited", plan.Unlimited,
	)
	return plan, nil
}

// seasonPlayers loads ids, requiring each to be registered for seasonID.
func (s *BudgetService) seasonPlayers(ctx context.Context, seasonID string, ids []string) ([]player.Player, error) {
	ids = normalizePlayerIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, persistenceError("get players by ids", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: player=%s", ErrNotFound, id)
		}
		if p.SeasonID != seasonID {
			return nil, fmt.Errorf("%w: player=%s is not registered for season=%s", ErrValidationFailed, id, seasonID)
		}
		out = append(out, p)
	}
	return out, nil
}

func newBudgetResult(budget decimal.Decimal) BudgetResult {
	if budget.IsNegative() {
		return BudgetResult{Budget: budget, Valid: false, Deficit: budget.Neg()}
	}
	return BudgetResult{Budget: budget, Valid: true, Deficit: decimal.Zero}
}

// normalizePlayerIDs trims ids and drops blanks and repeats, keeping order.
func normalizePlayerIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
