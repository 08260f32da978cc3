package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
)

// WindowView is a week together with its projected window state.
type WindowView struct {
	Week        week.Week
	State       week.WindowState
	PricesReady bool
}

type TransferWindowService struct {
	weekRepo    week.Repository
	bypassUsers map[string]struct{}
	logger      *logging.Logger
	clock       clockwork.Clock
}

func NewTransferWindowService(weekRepo week.Repository, bypassUserIDs []string, logger *logging.Logger) *TransferWindowService {
	if logger == nil {
		logger = logging.Default()
	}

	bypass := make(map[string]struct{}, len(bypassUserIDs))
	for _, id := range bypassUserIDs {
		if id = strings.TrimSpace(id); id != "" {
			bypass[id] = struct{}{}
		}
	}

	return &TransferWindowService{
		weekRepo:    weekRepo,
		bypassUsers: bypass,
		logger:      logger,
		clock:       clockwork.NewRealClock(),
	}
}

// OpenWindow opens the transfer window of weekID. The previous week's prices
// must be finalized and no other week of the season may be open. A nil cutoff
// keeps the week's existing cutoff.
func (s *TransferWindowService) OpenWindow(ctx context.Context, weekID string, cutoff *time.Time) (WindowView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferWindowService.OpenWindow")
	defer span.End()

	target, seasonWeeks, err := s.loadSeasonWeek(ctx, weekID)
	if err != nil {
		return WindowView{}, err
	}
	previous := previousWeek(seasonWeeks, target)
	now := s.clock.Now().UTC()

	if err := week.CheckPricesReady(target, previous); err != nil {
		return WindowView{}, fmt.Errorf("%w: %w", ErrPreconditionNotMet, err)
	}
	if err := week.CheckSingleOpenWindow(seasonWeeks, target.ID, now); err != nil {
		return WindowView{}, fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}

	opened, err := week.OpenWindow(target, previous, cutoff, now)
	if err != nil {
		return WindowView{}, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	guard := func(current []week.Week) error {
		return week.CheckSingleOpenWindow(current, opened.ID, now)
	}
	if err := s.weekRepo.UpdateWindow(ctx, opened, guard); err != nil {
		if errors.Is(err, week.ErrWindowAlreadyOpen) {
			return WindowView{}, fmt.Errorf("%w: %w", ErrInvariantViolation, err)
		}
		return WindowView{}, persistenceError("open transfer window", err)
	}

	s.logger.InfoContext(ctx, "transfer window opened",
		"week_id", opened.ID,
		"season_id", opened.SeasonID,
		"week_number", opened.Number,
		"reopened", target.TransferWindowClosedAt != nil,
	)
	return s.view(opened, previous, now), nil
}

// CloseWindow completes the window of weekID. Closing twice is a no-op.
func (s *TransferWindowService) CloseWindow(ctx context.Context, weekID string) (WindowView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferWindowService.CloseWindow")
	defer span.End()

	target, seasonWeeks, err := s.loadSeasonWeek(ctx, weekID)
	if err != nil {
		return WindowView{}, err
	}
	previous := previousWeek(seasonWeeks, target)
	now := s.clock.Now().UTC()

	if !target.TransferWindowOpen && target.TransferWindowClosedAt != nil {
		return s.view(target, previous, now), nil
	}

	closed := week.CloseWindow(target, now)
	if err := s.weekRepo.UpdateWindow(ctx, closed, nil); err != nil {
		return WindowView{}, persistenceError("close transfer window", err)
	}

	s.logger.InfoContext(ctx, "transfer window closed",
		"week_id", closed.ID,
		"season_id", closed.SeasonID,
		"week_number", closed.Number,
	)
	return s.view(closed, previous, now), nil
}

// CanMakeTransfer reports whether userID may change their roster for weekID
// right now. Allow-listed users bypass the window and cutoff checks.
func (s *TransferWindowService) CanMakeTransfer(ctx context.Context, weekID, userID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferWindowService.CanMakeTransfer")
	defer span.End()

	target, err := s.getWeek(ctx, weekID)
	if err != nil {
		return false, err
	}
	if _, ok := s.bypassUsers[strings.TrimSpace(userID)]; ok {
		return true, nil
	}
	return target.AcceptsTransfers(s.clock.Now().UTC()), nil
}

func (s *TransferWindowService) GetWindow(ctx context.Context, weekID string) (WindowView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferWindowService.GetWindow")
	defer span.End()

	target, seasonWeeks, err := s.loadSeasonWeek(ctx, weekID)
	if err != nil {
		return WindowView{}, err
	}
	return s.view(target, previousWeek(seasonWeeks, target), s.clock.Now().UTC()), nil
}

func (s *TransferWindowService) ListSeasonWindows(ctx context.Context, seasonID string) ([]WindowView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferWindowService.ListSeasonWindows")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrValidationFailed)
	}
	seasonWeeks, err := s.weekRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, persistenceError("list season weeks", err)
	}
	sort.Slice(seasonWeeks, func(i, j int) bool { return seasonWeeks[i].Number < seasonWeeks[j].Number })

	now := s.clock.Now().UTC()
	out := make([]WindowView, 0, len(seasonWeeks))
	for _, item := range seasonWeeks {
		out = append(out, s.view(item, previousWeek(seasonWeeks, item), now))
	}
	return out, nil
}

func (s *TransferWindowService) view(w week.Week, previous *week.Week, now time.Time) WindowView {
	ready := week.PricesReady(w, previous)
	return WindowView{
		Week:        w,
		State:       w.WindowState(now, ready),
		PricesReady: ready,
	}
}

func (s *TransferWindowService) loadSeasonWeek(ctx context.Context, weekID string) (week.Week, []week.Week, error) {
	target, err := s.getWeek(ctx, weekID)
	if err != nil {
		return week.Week{}, nil, err
	}
	seasonWeeks, err := s.weekRepo.ListBySeason(ctx, target.SeasonID)
	if err != nil {
		return week.Week{}, nil, persistenceError("list season weeks", err)
	}
	return target, seasonWeeks, nil
}

func (s *TransferWindowService) getWeek(ctx context.Context, weekID string) (week.Week, error) {
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

func previousWeek(seasonWeeks []week.Week, target week.Week) *week.Week {
	prev, ok := week.Previous(seasonWeeks, target)
	if !ok {
		return nil
	}
	return &prev
}
