package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	weekmock "github.com/riskibarqy/ultimate-fantasy/internal/mocks/domain/week"
	"github.com/stretchr/testify/mock"
)

func TestTransferWindowService_Lifecycle(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	view, err := f.windows.GetWindow(ctx, "w1")
	if err != nil {
		t.Fatalf("get window: %v", err)
	}
	if view.State != week.WindowReady {
		t.Fatalf("week 1 should start ready, got %s", view.State)
	}

	if _, err := f.windows.OpenWindow(ctx, "w2", nil); !errors.Is(err, ErrPreconditionNotMet) || !errors.Is(err, week.ErrPricesNotCalculated) {
		t.Fatalf("expected ErrPreconditionNotMet opening w2, got %v", err)
	}

	cutoff := engineNow.Add(6 * time.Hour)
	opened, err := f.windows.OpenWindow(ctx, "w1", &cutoff)
	if err != nil {
		t.Fatalf("open w1: %v", err)
	}
	if opened.State != week.WindowOpen {
		t.Fatalf("unexpected state after open: %s", opened.State)
	}

	if _, err := f.priceSvc.FinalizeWeekPrices(ctx, "w1"); err != nil {
		t.Fatalf("finalize w1 prices: %v", err)
	}
	if _, err := f.windows.OpenWindow(ctx, "w2", nil); !errors.Is(err, ErrInvariantViolation) || !errors.Is(err, week.ErrWindowAlreadyOpen) {
		t.Fatalf("expected ErrInvariantViolation while w1 is open, got %v", err)
	}

	closed, err := f.windows.CloseWindow(ctx, "w1")
	if err != nil {
		t.Fatalf("close w1: %v", err)
	}
	if closed.State != week.WindowCompleted || closed.Week.TransferWindowClosedAt == nil {
		t.Fatalf("unexpected closed window: %+v", closed)
	}
	firstClosedAt := *closed.Week.TransferWindowClosedAt

	f.clock.Advance(time.Minute)
	again, err := f.windows.CloseWindow(ctx, "w1")
	if err != nil {
		t.Fatalf("close w1 again: %v", err)
	}
	if !again.Week.TransferWindowClosedAt.Equal(firstClosedAt) {
		t.Fatalf("closing twice must keep the first timestamp: got=%s want=%s", again.Week.TransferWindowClosedAt, firstClosedAt)
	}

	if _, err := f.windows.OpenWindow(ctx, "w2", nil); err != nil {
		t.Fatalf("open w2 after closing w1: %v", err)
	}

	views, err := f.windows.ListSeasonWindows(ctx, "s1")
	if err != nil {
		t.Fatalf("list windows: %v", err)
	}
	want := []week.WindowState{week.WindowCompleted, week.WindowOpen, week.WindowUpcoming}
	if len(views) != len(want) {
		t.Fatalf("unexpected window count: got=%d want=%d", len(views), len(want))
	}
	open := 0
	for i, item := range views {
		if item.State != want[i] {
			t.Fatalf("unexpected state for week %d: got=%s want=%s", item.Week.Number, item.State, want[i])
		}
		if item.State == week.WindowOpen {
			open++
		}
	}
	if open != 1 {
		t.Fatalf("expected exactly one open window, got %d", open)
	}
}

func TestTransferWindowService_ReopenClearsClosedAt(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	if _, err := f.windows.OpenWindow(ctx, "w1", nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.windows.CloseWindow(ctx, "w1"); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened, err := f.windows.OpenWindow(ctx, "w1", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Week.TransferWindowClosedAt != nil || reopened.State != week.WindowOpen {
		t.Fatalf("unexpected reopened window: %+v", reopened)
	}
}

func TestTransferWindowService_OpenWindowRejectsPastCutoff(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	past := engineNow.Add(-time.Minute)
	_, err := f.windows.OpenWindow(context.Background(), "w1", &past)
	if !errors.Is(err, ErrValidationFailed) || !errors.Is(err, week.ErrCutoffNotInFuture) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestTransferWindowService_CanMakeTransfer(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	allowed, err := f.windows.CanMakeTransfer(ctx, "w1", "u1")
	if err != nil || allowed {
		t.Fatalf("closed window must refuse transfers: allowed=%v err=%v", allowed, err)
	}
	allowed, err = f.windows.CanMakeTransfer(ctx, "w1", "admin-1")
	if err != nil || !allowed {
		t.Fatalf("allow-listed user must bypass the window: allowed=%v err=%v", allowed, err)
	}

	cutoff := engineNow.Add(time.Hour)
	if _, err := f.windows.OpenWindow(ctx, "w1", &cutoff); err != nil {
		t.Fatalf("open: %v", err)
	}
	allowed, err = f.windows.CanMakeTransfer(ctx, "w1", "u1")
	if err != nil || !allowed {
		t.Fatalf("open window must accept transfers: allowed=%v err=%v", allowed, err)
	}

	f.clock.Advance(time.Hour)
	allowed, err = f.windows.CanMakeTransfer(ctx, "w1", "u1")
	if err != nil || allowed {
		t.Fatalf("transfers must stop at the cutoff: allowed=%v err=%v", allowed, err)
	}
	view, err := f.windows.GetWindow(ctx, "w1")
	if err != nil {
		t.Fatalf("get window: %v", err)
	}
	if view.State != week.WindowCompleted {
		t.Fatalf("expired window should project as completed, got %s", view.State)
	}

	if _, err := f.windows.CanMakeTransfer(ctx, "missing", "admin-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransferWindowService_OpenWindow_GuardRejectsConcurrentOpenUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	weekRepo := weekmock.NewRepository(t)
	service := NewTransferWindowService(weekRepo, nil, nil)

	target := week.Week{ID: "w1", SeasonID: "s1", Number: 1}
	rival := week.Week{ID: "w2", SeasonID: "s1", Number: 2, TransferWindowOpen: true}

	weekRepo.
		On("GetByID", mock.Anything, "w1").
		Return(target, true, nil).
		Once()
	weekRepo.
		On("ListBySeason", mock.Anything, "s1").
		Return([]week.Week{target, {ID: "w2", SeasonID: "s1", Number: 2}}, nil).
		Once()
	weekRepo.
		On("UpdateWindow", mock.Anything, mock.MatchedBy(func(w week.Week) bool {
			return w.ID == "w1" && w.TransferWindowOpen
		}), mock.Anything).
		Return(func(_ context.Context, _ week.Week, guard week.WindowGuard) error {
			// Another writer opened w2 between the read and the locked write.
			return guard([]week.Week{target, rival})
		}).
		Once()

	_, err := service.OpenWindow(ctx, "w1", nil)
	if !errors.Is(err, ErrInvariantViolation) || !errors.Is(err, week.ErrWindowAlreadyOpen) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}

func TestTransferWindowService_CloseWindow_StoreFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	weekRepo := weekmock.NewRepository(t)
	service := NewTransferWindowService(weekRepo, nil, nil)

	target := week.Week{ID: "w1", SeasonID: "s1", Number: 1, TransferWindowOpen: true}
	weekRepo.On("GetByID", mock.Anything, "w1").Return(target, true, nil).Once()
	weekRepo.On("ListBySeason", mock.Anything, "s1").Return([]week.Week{target}, nil).Once()
	weekRepo.
		On("UpdateWindow", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("update week: %w", errors.New("deadlock detected"))).
		Once()

	_, err := service.CloseWindow(ctx, "w1")
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
}
