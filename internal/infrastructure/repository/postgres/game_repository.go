package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("public_id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, weekID string) ([]game.Game, error) {
	return r.ListByWeeks(ctx, []string{weekID})
}

func (r *GameRepository) ListByWeeks(ctx context.Context, weekIDs []string) ([]game.Game, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("games").
		Where(qb.In("week_public_id", stringSliceToAny(weekIDs))).
		OrderBy("starts_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by weeks query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games by weeks: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:       row.PublicID,
		WeekID:   row.WeekPublicID,
		HomeTeam: row.HomeTeam,
		AwayTeam: row.AwayTeam,
		StartsAt: row.StartsAt.UTC(),
	}
}
