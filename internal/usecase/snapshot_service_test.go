package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/valuechange"
	snapshotmock "github.com/riskibarqy/ultimate-fantasy/internal/mocks/domain/snapshot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func TestSnapshotService_CreateSnapshot_PricesRosterAtWeek(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	if err := f.values.UpsertMany(ctx, []valuechange.ValueChange{
		{PlayerID: "h1", Round: 2, Value: mustDecimal(t, "131.25")},
	}); err != nil {
		t.Fatalf("seed value change: %v", err)
	}

	first, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", "w1"))
	if err != nil {
		t.Fatalf("create week 1 snapshot: %v", err)
	}
	if !first.TotalValue.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected week 1 total: got=%s want=1000", first.TotalValue)
	}
	if first.CaptainPlayerID != "h1" {
		t.Fatalf("unexpected captain: got=%s want=h1", first.CaptainPlayerID)
	}
	if !first.CreatedAt.Equal(engineNow) {
		t.Fatalf("unexpected created at: got=%s want=%s", first.CreatedAt, engineNow)
	}

	second, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", "w2"))
	if err != nil {
		t.Fatalf("create week 2 snapshot: %v", err)
	}
	if want := mustDecimal(t, "1011.25"); !second.TotalValue.Equal(want) {
		t.Fatalf("unexpected week 2 total: got=%s want=%s", second.TotalValue, want)
	}
	for _, slot := range second.Slots {
		if slot.PlayerID == "h1" && !slot.ValueAtSnapshot.Equal(mustDecimal(t, "131.25")) {
			t.Fatalf("unexpected h1 value: got=%s", slot.ValueAtSnapshot)
		}
	}
}

func TestSnapshotService_CreateSnapshot_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*CreateSnapshotInput)
		targetErr error
		kind      error
	}{
		{
			name: "unknown position",
			mutate: func(in *CreateSnapshotInput) {
				in.Slots[0].Position = "goalkeeper"
			},
			targetErr: player.ErrInvalidPosition,
			kind:      ErrValidationFailed,
		},
		{
			name: "missing captain",
			mutate: func(in *CreateSnapshotInput) {
				in.Slots[0].IsCaptain = false
			},
			targetErr: snapshot.ErrCaptainCount,
			kind:      ErrValidationFailed,
		},
		{
			name: "player rostered at the wrong position",
			mutate: func(in *CreateSnapshotInput) {
				in.Slots[1].PlayerID = "c4"
			},
			kind: ErrValidationFailed,
		},
		{
			name: "player from another season",
			mutate: func(in *CreateSnapshotInput) {
				in.Slots[1].PlayerID = "x1"
			},
			kind: ErrValidationFailed,
		},
		{
			name: "unknown player",
			mutate: func(in *CreateSnapshotInput) {
				in.Slots[1].PlayerID = "ghost"
			},
			kind: ErrNotFound,
		},
		{
			name: "unknown team",
			mutate: func(in *CreateSnapshotInput) {
				in.TeamID = "missing"
			},
			kind: ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newEngineFixture(t)
			input := fullRosterInput("t1", "w1")
			tc.mutate(&input)

			_, err := f.snapSvc.CreateSnapshot(context.Background(), input)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if tc.targetErr != nil && !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestSnapshotService_CreateSnapshot_PartialRoster(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	input := CreateSnapshotInput{
		TeamID:       "t1",
		WeekID:       "w1",
		AllowPartial: true,
		Slots: []SnapshotSlotInput{
			{PlayerID: "h1", Position: "Handler"},
			{PlayerID: "r4", Position: "receiver", IsBenched: true},
		},
	}

	got, err := f.snapSvc.CreateSnapshot(context.Background(), input)
	if err != nil {
		t.Fatalf("create partial snapshot: %v", err)
	}
	if !got.TotalValue.Equal(decimal.NewFromInt(420)) {
		t.Fatalf("unexpected total: got=%s want=420", got.TotalValue)
	}
	if got.CaptainPlayerID != "" {
		t.Fatalf("expected no captain, got %s", got.CaptainPlayerID)
	}
}

func TestSnapshotService_CreateThenReplace(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	created, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", "w1"))
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	_, err = f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", "w1"))
	if !errors.Is(err, ErrInvariantViolation) || !errors.Is(err, snapshot.ErrAlreadyExists) {
		t.Fatalf("expected duplicate create to be rejected, got %v", err)
	}

	input := fullRosterInput("t1", "w1")
	input.Slots[2].PlayerID = "h5"
	replaced, err := f.snapSvc.ReplaceSnapshot(ctx, input)
	if err != nil {
		t.Fatalf("replace snapshot: %v", err)
	}
	if replaced.ID == created.ID {
		t.Fatalf("replace must record a new snapshot id")
	}
	if !replaced.TotalValue.Equal(decimal.NewFromInt(980)) {
		t.Fatalf("unexpected replaced total: got=%s want=980", replaced.TotalValue)
	}

	stored, err := f.snapSvc.GetSnapshot(ctx, "t1", "w1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if stored.ID != replaced.ID {
		t.Fatalf("unexpected stored snapshot: got=%s want=%s", stored.ID, replaced.ID)
	}

	if err := f.snapSvc.DeleteSnapshot(ctx, "t1", "w1"); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}
	if _, err := f.snapSvc.GetSnapshot(ctx, "t1", "w1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound after delete, got %v", err)
	}
	if err := f.snapSvc.DeleteSnapshot(ctx, "t1", "w1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSnapshotService_GetMostRecentSnapshotBeforeWeek_SkipsGaps(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	if _, found, err := f.snapSvc.GetMostRecentSnapshotBeforeWeek(ctx, "t1", "w3"); err != nil || found {
		t.Fatalf("expected nothing before any snapshot: found=%v err=%v", found, err)
	}

	created, err := f.snapSvc.CreateSnapshot(ctx, fullRosterInput("t1", "w1"))
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	got, found, err := f.snapSvc.GetMostRecentSnapshotBeforeWeek(ctx, "t1", "w3")
	if err != nil {
		t.Fatalf("get most recent snapshot: %v", err)
	}
	if !found || got.ID != created.ID {
		t.Fatalf("unexpected snapshot: found=%v id=%s want=%s", found, got.ID, created.ID)
	}

	if _, found, _ := f.snapSvc.GetMostRecentSnapshotBeforeWeek(ctx, "t1", "w1"); found {
		t.Fatalf("week 1 has no earlier week")
	}
}

func TestSnapshotService_CreateSnapshot_StoreRaceUsingMockery(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	snapshotRepo := snapshotmock.NewRepository(t)
	service := NewSnapshotService(f.teams, f.weeks, f.players, snapshotRepo, f.priceSvc, &sequenceIDGenerator{}, nil)

	snapshotRepo.
		On("GetByTeamAndWeek", mock.Anything, "t1", "w1").
		Return(snapshot.Snapshot{}, false, nil).
		Once()
	snapshotRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(item snapshot.Snapshot) bool {
			return item.TeamID == "t1" && item.WeekID == "w1" && len(item.Slots) == snapshot.MaxRosterSize
		})).
		Return(snapshot.ErrAlreadyExists).
		Once()

	_, err := service.CreateSnapshot(ctx, fullRosterInput("t1", "w1"))
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}

func TestSnapshotService_CreateSnapshot_StoreFailureUsingMockery(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	snapshotRepo := snapshotmock.NewRepository(t)
	service := NewSnapshotService(f.teams, f.weeks, f.players, snapshotRepo, f.priceSvc, &sequenceIDGenerator{}, nil)

	snapshotRepo.
		On("GetByTeamAndWeek", mock.Anything, "t1", "w1").
		Return(snapshot.Snapshot{}, false, errors.New("connection reset")).
		Once()

	_, err := service.CreateSnapshot(context.Background(), fullRosterInput("t1", "w1"))
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
}

func TestSnapshot_RosterFeedsTransferDiff(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	created, err := f.snapSvc.CreateSnapshot(context.Background(), fullRosterInput("t1", "w1"))
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	next := created.Roster()
	next[0] = fantasyteam.RosterEntry{PlayerID: "h5", Position: player.Handler}
	transfers := fantasyteam.DiffRoster(created.Roster(), next)
	if len(transfers) != 1 || transfers[0].OutPlayerID != "h1" || transfers[0].InPlayerID != "h5" {
		t.Fatalf("unexpected transfers: %+v", transfers)
	}
}
