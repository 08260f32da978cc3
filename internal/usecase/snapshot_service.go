package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	idgen "github.com/riskibarqy/ultimate-fantasy/internal/platform/id"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
	"github.com/shopspring/decimal"
)

// PlayerValueLookup resolves market values as of a week number.
type PlayerValueLookup interface {
	ValuesAtWeek(ctx context.Context, players []player.Player, weekNumber int) (map[string]decimal.Decimal, error)
}

type SnapshotSlotInput struct {
	PlayerID  string
	Position  string
	IsBenched bool
	IsCaptain bool
}

// CreateSnapshotInput is the roster a team wants to save for a week.
// AllowPartial relaxes the quotas to upper bounds while a team is being built.
type CreateSnapshotInput struct {
	TeamID       string
	WeekID       string
	Slots        []SnapshotSlotInput
	AllowPartial bool
}

type SnapshotService struct {
	teamRepo     fantasyteam.Repository
	weekRepo     week.Repository
	playerRepo   player.Repository
	snapshotRepo snapshot.Repository
	values       PlayerValueLookup
	idGen        idgen.Generator
	logger       *logging.Logger
	clock        clockwork.Clock
}

func NewSnapshotService(
	teamRepo fantasyteam.Repository,
	weekRepo week.Repository,
	playerRepo player.Repository,
	snapshotRepo snapshot.Repository,
	values PlayerValueLookup,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SnapshotService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SnapshotService{
		teamRepo:     teamRepo,
		weekRepo:     weekRepo,
		playerRepo:   playerRepo,
		snapshotRepo: snapshotRepo,
		values:       values,
		idGen:        idGen,
		logger:       logger,
		clock:        clockwork.NewRealClock(),
	}
}

// CreateSnapshot validates and stores a new roster snapshot. A week that
// already has a snapshot must go through ReplaceSnapshot.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, input CreateSnapshotInput) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.CreateSnapshot")
	defer span.End()

	item, err := s.buildSnapshot(ctx, input)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	_, exists, err := s.snapshotRepo.GetByTeamAndWeek(ctx, item.TeamID, item.WeekID)
	if err != nil {
		return snapshot.Snapshot{}, persistenceError("get existing snapshot", err)
	}
	if exists {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %w: team=%s week=%s", ErrInvariantViolation, snapshot.ErrAlreadyExists, item.TeamID, item.WeekID)
	}

	if err := s.snapshotRepo.Create(ctx, item); err != nil {
		if errors.Is(err, snapshot.ErrAlreadyExists) {
			return snapshot.Snapshot{}, fmt.Errorf("%w: %w", ErrInvariantViolation, err)
		}
		return snapshot.Snapshot{}, persistenceError("create snapshot", err)
	}

	s.logger.InfoContext(ctx, "snapshot created",
		"snapshot_id", item.ID,
		"team_id", item.TeamID,
		"week_id", item.WeekID,
		"players", len(item.Slots),
		"total_value", item.TotalValue.String(),
	)
	return item, nil
}

// ReplaceSnapshot destroys the team's snapshot for the week, if any, and
// records a new one in its place.
func (s *SnapshotService) ReplaceSnapshot(ctx context.Context, input CreateSnapshotInput) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.ReplaceSnapshot")
	defer span.End()

	item, err := s.buildSnapshot(ctx, input)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if err := s.snapshotRepo.Replace(ctx, item); err != nil {
		return snapshot.Snapshot{}, persistenceError("replace snapshot", err)
	}

	s.logger.InfoContext(ctx, "snapshot replaced",
		"snapshot_id", item.ID,
		"team_id", item.TeamID,
		"week_id", item.WeekID,
	)
	return item, nil
}

func (s *SnapshotService) GetSnapshot(ctx context.Context, teamID, weekID string) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.GetSnapshot")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	weekID = strings.TrimSpace(weekID)
	item, exists, err := s.snapshotRepo.GetByTeamAndWeek(ctx, teamID, weekID)
	if err != nil {
		return snapshot.Snapshot{}, persistenceError("get snapshot", err)
	}
	if !exists {
		return snapshot.Snapshot{}, fmt.Errorf("%w: team=%s week=%s", ErrSnapshotNotFound, teamID, weekID)
	}
	return item, nil
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, teamID, weekID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.DeleteSnapshot")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	weekID = strings.TrimSpace(weekID)
	deleted, err := s.snapshotRepo.DeleteByTeamAndWeek(ctx, teamID, weekID)
	if err != nil {
		return persistenceError("delete snapshot", err)
	}
	if !deleted {
		return fmt.Errorf("%w: team=%s week=%s", ErrSnapshotNotFound, teamID, weekID)
	}
	return nil
}

// GetMostRecentSnapshotBeforeWeek walks back from the week before weekID and
// returns the first snapshot the team saved. Weeks without one are skipped.
func (s *SnapshotService) GetMostRecentSnapshotBeforeWeek(ctx context.Context, teamID, weekID string) (snapshot.Snapshot, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.GetMostRecentSnapshotBeforeWeek")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	target, err := s.getWeek(ctx, weekID)
	if err != nil {
		return snapshot.Snapshot{}, false, err
	}

	seasonWeeks, err := s.weekRepo.ListBySeason(ctx, target.SeasonID)
	if err != nil {
		return snapshot.Snapshot{}, false, persistenceError("list season weeks", err)
	}
	sort.Slice(seasonWeeks, func(i, j int) bool { return seasonWeeks[i].Number > seasonWeeks[j].Number })

	for _, candidate := range seasonWeeks {
		if candidate.Number >= target.Number {
			continue
		}
		item, exists, err := s.snapshotRepo.GetByTeamAndWeek(ctx, teamID, candidate.ID)
		if err != nil {
			return snapshot.Snapshot{}, false, persistenceError("get snapshot", err)
		}
		if exists {
			return item, true, nil
		}
	}

	return snapshot.Snapshot{}, false, nil
}

func (s *SnapshotService) buildSnapshot(ctx context.Context, input CreateSnapshotInput) (snapshot.Snapshot, error) {
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.WeekID = strings.TrimSpace(input.WeekID)
	if input.TeamID == "" {
		return snapshot.Snapshot{}, fmt.Errorf("%w: team id is required", ErrValidationFailed)
	}
	if input.WeekID == "" {
		return snapshot.Snapshot{}, fmt.Errorf("%w: week id is required", ErrValidationFailed)
	}

	slots, err := parseSlots(input.Slots)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if err := snapshot.ValidateRoster(slots, input.AllowPartial); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	team, exists, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return snapshot.Snapshot{}, persistenceError("get fantasy team", err)
	}
	if !exists {
		return snapshot.Snapshot{}, fmt.Errorf("%w: fantasy team=%s", ErrNotFound, input.TeamID)
	}

	target, err := s.getWeek(ctx, input.WeekID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if target.SeasonID != team.SeasonID {
		return snapshot.Snapshot{}, fmt.Errorf("%w: week=%s is not in season=%s", ErrValidationFailed, target.ID, team.SeasonID)
	}

	players, err := s.rosterPlayers(ctx, team.SeasonID, slots)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	values, err := s.values.ValuesAtWeek(ctx, players, target.Number)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	for i := range slots {
		slots[i].ValueAtSnapshot = values[slots[i].PlayerID]
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("generate snapshot id: %w", err)
	}

	return snapshot.Snapshot{
		ID:              id,
		TeamID:          team.ID,
		WeekID:          target.ID,
		CaptainPlayerID: snapshot.CaptainID(slots),
		TotalValue:      snapshot.Total(slots),
		CreatedAt:       s.clock.Now().UTC(),
		Slots:           slots,
	}, nil
}

// rosterPlayers loads the slot players and checks they belong to the season
// at the position they are rostered at.
func (s *SnapshotService) rosterPlayers(ctx context.Context, seasonID string, slots []snapshot.Slot) ([]player.Player, error) {
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.PlayerID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, persistenceError("get players by ids", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	for _, slot := range slots {
		p, ok := byID[slot.PlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: player=%s", ErrNotFound, slot.PlayerID)
		}
		if p.SeasonID != seasonID {
			return nil, fmt.Errorf("%w: player=%s is not registered for season=%s", ErrValidationFailed, p.ID, seasonID)
		}
		if p.Position != slot.Position {
			return nil, fmt.Errorf("%w: player=%s is a %s, rostered as %s", ErrValidationFailed, p.ID, p.Position, slot.Position)
		}
	}
	return players, nil
}

func (s *SnapshotService) getWeek(ctx context.Context, weekID string) (week.Week, error) {
	weekID = strings.TrimSpace(weekID)
	item, exists, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return week.Week{}, persistenceError("get week", err)
	}
	if !exists {
		return week.Week{}, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}
	return item, nil
}

func parseSlots(inputs []SnapshotSlotInput) ([]snapshot.Slot, error) {
	out := make([]snapshot.Slot, 0, len(inputs))
	for _, in := range inputs {
		pos, err := player.ParsePosition(in.Position)
		if err != nil {
			return nil, fmt.Errorf("%w: player=%s: %w", ErrValidationFailed, strings.TrimSpace(in.PlayerID), err)
		}
		out = append(out, snapshot.Slot{
			PlayerID:  strings.TrimSpace(in.PlayerID),
			Position:  pos,
			IsBenched: in.IsBenched,
			IsCaptain: in.IsCaptain,
		})
	}
	return out, nil
}
