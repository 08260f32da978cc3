package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/valuechange"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

type ValueChangeRepository struct {
	db *sqlx.DB
}

func NewValueChangeRepository(db *sqlx.DB) *ValueChangeRepository {
	return &ValueChangeRepository{db: db}
}

func (r *ValueChangeRepository) ListByPlayers(ctx context.Context, playerIDs []string) ([]valuechange.ValueChange, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("player_value_changes").
		Where(qb.In("player_public_id", stringSliceToAny(playerIDs))).
		OrderBy("player_public_id", "round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list value changes query: %w", err)
	}

	var rows []valueChangeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list value changes: %w", err)
	}

	out := make([]valuechange.ValueChange, 0, len(rows))
	for _, row := range rows {
		out = append(out, valueChangeFromRow(row))
	}
	return out, nil
}

func (r *ValueChangeRepository) GetLatestAtOrBefore(ctx context.Context, playerID string, round int) (valuechange.ValueChange, bool, error) {
	query, args, err := qb.Select("*").From("player_value_changes").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Expr("round <= ?", round),
		).
		OrderBy("round DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return valuechange.ValueChange{}, false, fmt.Errorf("build get latest value change query: %w", err)
	}

	var row valueChangeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return valuechange.ValueChange{}, false, nil
		}
		return valuechange.ValueChange{}, false, fmt.Errorf("get latest value change: %w", err)
	}

	return valueChangeFromRow(row), true, nil
}

const valueChangeBatchSize = 500

// UpsertMany writes every row inside one transaction so a round is never left
// half priced.
func (r *ValueChangeRepository) UpsertMany(ctx context.Context, items []valuechange.ValueChange) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx for value change upsert")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(items); start += valueChangeBatchSize {
		end := min(start+valueChangeBatchSize, len(items))

		builder := qb.InsertInto("player_value_changes").
			Columns("player_public_id", "round", "value")
		for _, item := range items[start:end] {
			builder = builder.Values(item.PlayerID, item.Round, item.Value)
		}
		query, args, err := builder.
			Suffix(`ON CONFLICT (player_public_id, round)
DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = NOW()`).
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build upsert value changes query")
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "upsert value changes batch=%d..%d", start, end)
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit value change upsert tx")
	}
	return nil
}

func valueChangeFromRow(row valueChangeTableModel) valuechange.ValueChange {
	return valuechange.ValueChange{
		PlayerID: row.PlayerPublicID,
		Round:    row.Round,
		Value:    row.Value,
	}
}
