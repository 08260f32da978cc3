package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

const weekWindowLockNamespace = "week_window"

type WeekRepository struct {
	db *sqlx.DB
}

func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) GetByID(ctx context.Context, weekID string) (week.Week, bool, error) {
	query, args, err := qb.Select("*").From("weeks").
		Where(qb.Eq("public_id", weekID)).
		ToSQL()
	if err != nil {
		return week.Week{}, false, fmt.Errorf("build get week by id query: %w", err)
	}

	var row weekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return week.Week{}, false, nil
		}
		return week.Week{}, false, fmt.Errorf("get week by id: %w", err)
	}

	return weekFromRow(row), true, nil
}

func (r *WeekRepository) ListBySeason(ctx context.Context, seasonID string) ([]week.Week, error) {
	return listWeeksBySeason(ctx, r.db, seasonID)
}

// UpdateWindow takes a transaction-scoped advisory lock on the season so that
// concurrent window writers for the same season run their guards one at a time.
func (r *WeekRepository) UpdateWindow(ctx context.Context, w week.Week, guard week.WindowGuard) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx for week window update")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var seasonID string
	if err := tx.GetContext(ctx, &seasonID, `SELECT season_public_id FROM weeks WHERE public_id = $1`, w.ID); err != nil {
		if isNotFound(err) {
			return crerr.Newf("week not found: %s", w.ID)
		}
		return crerr.Wrapf(err, "resolve season for week=%s", w.ID)
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey(weekWindowLockNamespace, seasonID)); err != nil {
		return crerr.Wrapf(err, "lock week windows season=%s", seasonID)
	}

	if guard != nil {
		seasonWeeks, err := listWeeksBySeason(ctx, tx, seasonID)
		if err != nil {
			return err
		}
		if err := guard(seasonWeeks); err != nil {
			return err
		}
	}

	query, args, err := qb.Update("weeks").
		Set("transfer_window_open", w.TransferWindowOpen).
		Set("transfer_cutoff_time", timePtrToNull(w.TransferCutoffTime)).
		Set("transfer_window_closed_at", timePtrToNull(w.TransferWindowClosedAt)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", w.ID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update week window query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "update week window week=%s", w.ID)
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit week window update tx")
	}
	return nil
}

func (r *WeekRepository) MarkPricesCalculated(ctx context.Context, weekID string) error {
	query, args, err := qb.Update("weeks").
		Set("prices_calculated", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", weekID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark prices calculated query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark prices calculated week=%s: %w", weekID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("week not found: %s", weekID)
	}
	return nil
}

func listWeeksBySeason(ctx context.Context, q sqlx.QueryerContext, seasonID string) ([]week.Week, error) {
	query, args, err := qb.Select("*").From("weeks").
		Where(qb.Eq("season_public_id", seasonID)).
		OrderBy("week_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weeks by season query: %w", err)
	}

	var rows []weekTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weeks by season: %w", err)
	}

	out := make([]week.Week, 0, len(rows))
	for _, row := range rows {
		out = append(out, weekFromRow(row))
	}
	return out, nil
}

func weekFromRow(row weekTableModel) week.Week {
	return week.Week{
		ID:                     row.PublicID,
		SeasonID:               row.SeasonPublicID,
		Number:                 row.WeekNumber,
		GameDate:               row.GameDate.UTC(),
		TransferWindowOpen:     row.TransferWindowOpen,
		TransferCutoffTime:     nullTimeToPtr(row.TransferCutoffTime),
		TransferWindowClosedAt: nullTimeToPtr(row.TransferWindowClosedAt),
		PricesCalculated:       row.PricesCalculated,
	}
}
