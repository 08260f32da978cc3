package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

const snapshotLockNamespace = "team_week_snapshot"

var snapshotColumns = []string{
	"public_id",
	"team_public_id",
	"week_public_id",
	"captain_player_public_id",
	"total_value",
	"created_at",
}

// SnapshotRepository stores the snapshot header in fantasy_team_snapshots and
// one row per slot in fantasy_team_snapshot_players. Slots cascade on delete.
type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) GetByTeamAndWeek(ctx context.Context, teamID, weekID string) (snapshot.Snapshot, bool, error) {
	query, args, err := qb.Select(snapshotColumns...).From("fantasy_team_snapshots").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("week_public_id", weekID),
		).
		ToSQL()
	if err != nil {
		return snapshot.Snapshot{}, false, fmt.Errorf("build get snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return snapshot.Snapshot{}, false, nil
		}
		return snapshot.Snapshot{}, false, fmt.Errorf("get snapshot: %w", err)
	}

	items, err := r.withSlots(ctx, []snapshotTableModel{row})
	if err != nil {
		return snapshot.Snapshot{}, false, err
	}
	return items[0], true, nil
}

func (r *SnapshotRepository) ListByTeam(ctx context.Context, teamID string) ([]snapshot.Snapshot, error) {
	query, args, err := qb.Select(snapshotColumns...).From("fantasy_team_snapshots").
		Where(qb.Eq("team_public_id", teamID)).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list snapshots by team query: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list snapshots by team: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return r.withSlots(ctx, rows)
}

func (r *SnapshotRepository) ListTeamIDsByWeek(ctx context.Context, weekID string) ([]string, error) {
	query, args, err := qb.Select("team_public_id").From("fantasy_team_snapshots").
		Where(qb.Eq("week_public_id", weekID)).
		OrderBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list snapshot teams by week query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list snapshot teams by week: %w", err)
	}
	return out, nil
}

func (r *SnapshotRepository) Create(ctx context.Context, item snapshot.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx for snapshot create")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertSnapshot(ctx, tx, item); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: team=%s week=%s", snapshot.ErrAlreadyExists, item.TeamID, item.WeekID)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: team=%s week=%s", snapshot.ErrAlreadyExists, item.TeamID, item.WeekID)
		}
		return crerr.Wrap(err, "commit snapshot create tx")
	}
	return nil
}

// Replace serializes writers on the (team, week) pair, drops the old snapshot
// and inserts item in the same transaction.
func (r *SnapshotRepository) Replace(ctx context.Context, item snapshot.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx for snapshot replace")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockKey := advisoryLockKey(snapshotLockNamespace, item.TeamID+"|"+item.WeekID)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
		return crerr.Wrapf(err, "lock snapshot team=%s week=%s", item.TeamID, item.WeekID)
	}

	if _, err := deleteSnapshot(ctx, tx, item.TeamID, item.WeekID); err != nil {
		return err
	}
	if err := insertSnapshot(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit snapshot replace tx")
	}
	return nil
}

func (r *SnapshotRepository) DeleteByTeamAndWeek(ctx context.Context, teamID, weekID string) (bool, error) {
	return deleteSnapshot(ctx, r.db, teamID, weekID)
}

func (r *SnapshotRepository) withSlots(ctx context.Context, rows []snapshotTableModel) ([]snapshot.Snapshot, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}

	query, args, err := qb.Select("*").From("fantasy_team_snapshot_players").
		Where(qb.In("snapshot_public_id", stringSliceToAny(ids))).
		OrderBy("snapshot_public_id", "slot_order").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list snapshot slots query: %w", err)
	}

	var slotRows []snapshotPlayerTableModel
	if err := r.db.SelectContext(ctx, &slotRows, query, args...); err != nil {
		return nil, fmt.Errorf("list snapshot slots: %w", err)
	}

	slotsBySnapshot := make(map[string][]snapshot.Slot, len(rows))
	for _, slotRow := range slotRows {
		position, err := player.ParsePosition(slotRow.Position)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot slot snapshot=%s player=%s: %w", slotRow.SnapshotPublicID, slotRow.PlayerPublicID, err)
		}
		slotsBySnapshot[slotRow.SnapshotPublicID] = append(slotsBySnapshot[slotRow.SnapshotPublicID], snapshot.Slot{
			PlayerID:        slotRow.PlayerPublicID,
			Position:        position,
			IsBenched:       slotRow.IsBenched,
			IsCaptain:       slotRow.IsCaptain,
			ValueAtSnapshot: slotRow.ValueAtSnapshot,
		})
	}

	out := make([]snapshot.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshot.Snapshot{
			ID:              row.PublicID,
			TeamID:          row.TeamPublicID,
			WeekID:          row.WeekPublicID,
			CaptainPlayerID: nullStringToString(row.CaptainPlayerPublicID),
			TotalValue:      row.TotalValue,
			CreatedAt:       row.CreatedAt.UTC(),
			Slots:           slotsBySnapshot[row.PublicID],
		})
	}
	return out, nil
}

func insertSnapshot(ctx context.Context, tx *sqlx.Tx, item snapshot.Snapshot) error {
	query, args, err := qb.InsertModel("fantasy_team_snapshots", snapshotTableModel{
		PublicID:              item.ID,
		TeamPublicID:          item.TeamID,
		WeekPublicID:          item.WeekID,
		CaptainPlayerPublicID: stringToNull(item.CaptainPlayerID),
		TotalValue:            item.TotalValue,
		CreatedAt:             item.CreatedAt.UTC(),
	}, "")
	if err != nil {
		return crerr.Wrap(err, "build insert snapshot query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert snapshot team=%s week=%s", item.TeamID, item.WeekID)
	}

	if len(item.Slots) == 0 {
		return nil
	}

	slotRows := make([]snapshotPlayerTableModel, 0, len(item.Slots))
	for i, slot := range item.Slots {
		slotRows = append(slotRows, snapshotPlayerTableModel{
			SnapshotPublicID: item.ID,
			PlayerPublicID:   slot.PlayerID,
			SlotOrder:        i,
			Position:         slot.Position.String(),
			IsBenched:        slot.IsBenched,
			IsCaptain:        slot.IsCaptain,
			ValueAtSnapshot:  slot.ValueAtSnapshot,
		})
	}
	query, args, err = qb.InsertModels("fantasy_team_snapshot_players", slotRows, "")
	if err != nil {
		return crerr.Wrap(err, "build insert snapshot slots query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert snapshot slots snapshot=%s", item.ID)
	}
	return nil
}

func deleteSnapshot(ctx context.Context, exec sqlx.ExecerContext, teamID, weekID string) (bool, error) {
	query, args, err := qb.DeleteFrom("fantasy_team_snapshots").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("week_public_id", weekID),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build delete snapshot query")
	}

	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return false, crerr.Wrapf(err, "delete snapshot team=%s week=%s", teamID, weekID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "read deleted snapshot count")
	}
	return affected > 0, nil
}
