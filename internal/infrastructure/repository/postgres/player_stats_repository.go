package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) GetByPlayerAndGame(ctx context.Context, playerID, gameID string) (playerstats.Stats, bool, error) {
	query, args, err := qb.Select("*").From("player_stats").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("game_public_id", gameID),
		).
		ToSQL()
	if err != nil {
		return playerstats.Stats{}, false, fmt.Errorf("build get player stats query: %w", err)
	}

	var row playerStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerstats.Stats{}, false, nil
		}
		return playerstats.Stats{}, false, fmt.Errorf("get player stats: %w", err)
	}

	return statsFromRow(row), true, nil
}

func (r *PlayerStatsRepository) ListByGames(ctx context.Context, gameIDs []string) ([]playerstats.Stats, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("player_stats").
		Where(qb.In("game_public_id", stringSliceToAny(gameIDs))).
		OrderBy("game_public_id", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats by games query: %w", err)
	}

	var rows []playerStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats by games: %w", err)
	}

	out := make([]playerstats.Stats, 0, len(rows))
	for _, row := range rows {
		out = append(out, statsFromRow(row))
	}
	return out, nil
}

func (r *PlayerStatsRepository) Upsert(ctx context.Context, item playerstats.Stats) error {
	query, args, err := qb.InsertInto("player_stats").
		Columns("player_public_id", "game_public_id", "goals", "assists", "blocks", "drops", "throwaways", "points", "played").
		Values(item.PlayerID, item.GameID, item.Goals, item.Assists, item.Blocks, item.Drops, item.Throwaways, item.Points, item.Played).
		Suffix(`ON CONFLICT (player_public_id, game_public_id)
DO UPDATE SET
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    blocks = EXCLUDED.blocks,
    drops = EXCLUDED.drops,
    throwaways = EXCLUDED.throwaways,
    points = EXCLUDED.points,
    played = EXCLUDED.played,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert player stats query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player stats player=%s game=%s: %w", item.PlayerID, item.GameID, err)
	}
	return nil
}

func statsFromRow(row playerStatsTableModel) playerstats.Stats {
	return playerstats.Stats{
		PlayerID:   row.PlayerPublicID,
		GameID:     row.GamePublicID,
		Goals:      row.Goals,
		Assists:    row.Assists,
		Blocks:     row.Blocks,
		Drops:      row.Drops,
		Throwaways: row.Throwaways,
		Points:     row.Points,
		Played:     row.Played,
	}
}
