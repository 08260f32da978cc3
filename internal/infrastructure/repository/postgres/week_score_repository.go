package postgres

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/scoring"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

type WeekScoreRepository struct {
	db *sqlx.DB
}

func NewWeekScoreRepository(db *sqlx.DB) *WeekScoreRepository {
	return &WeekScoreRepository{db: db}
}

func (r *WeekScoreRepository) GetByTeamAndWeek(ctx context.Context, teamID, weekID string) (scoring.WeekScore, bool, error) {
	query, args, err := qb.Select("*").From("week_scores").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("week_public_id", weekID),
		).
		ToSQL()
	if err != nil {
		return scoring.WeekScore{}, false, fmt.Errorf("build get week score query: %w", err)
	}

	var row weekScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.WeekScore{}, false, nil
		}
		return scoring.WeekScore{}, false, fmt.Errorf("get week score: %w", err)
	}

	item, err := weekScoreFromRow(row)
	if err != nil {
		return scoring.WeekScore{}, false, err
	}
	return item, true, nil
}

func (r *WeekScoreRepository) ListByTeam(ctx context.Context, teamID string) ([]scoring.WeekScore, error) {
	query, args, err := qb.Select("*").From("week_scores").
		Where(qb.Eq("team_public_id", teamID)).
		OrderBy("week_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list week scores query: %w", err)
	}

	var rows []weekScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list week scores: %w", err)
	}

	out := make([]scoring.WeekScore, 0, len(rows))
	for _, row := range rows {
		item, err := weekScoreFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *WeekScoreRepository) Upsert(ctx context.Context, item scoring.WeekScore) error {
	substitutions, err := encodeSubstitutions(item.Substitutions)
	if err != nil {
		return fmt.Errorf("encode substitutions team=%s week=%s: %w", item.TeamID, item.WeekID, err)
	}

	query, args, err := qb.InsertModel("week_scores", weekScoreTableModel{
		TeamPublicID:  item.TeamID,
		WeekPublicID:  item.WeekID,
		TotalPoints:   item.TotalPoints,
		CaptainPoints: item.CaptainPoints,
		Substitutions: substitutions,
		CalculatedAt:  item.CalculatedAt.UTC(),
	}, `ON CONFLICT (team_public_id, week_public_id)
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    captain_points = EXCLUDED.captain_points,
    substitutions = EXCLUDED.substitutions,
    calculated_at = EXCLUDED.calculated_at`)
	if err != nil {
		return fmt.Errorf("build upsert week score query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert week score team=%s week=%s: %w", item.TeamID, item.WeekID, err)
	}
	return nil
}

type substitutionDocument struct {
	GameID      string `json:"game_id"`
	OutPlayerID string `json:"out_player_id"`
	InPlayerID  string `json:"in_player_id"`
	Position    string `json:"position"`
	Points      int    `json:"points"`
	Reason      string `json:"reason,omitempty"`
}

func encodeSubstitutions(items []scoring.Substitution) (string, error) {
	docs := make([]substitutionDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, substitutionDocument{
			GameID:      item.GameID,
			OutPlayerID: item.OutPlayerID,
			InPlayerID:  item.InPlayerID,
			Position:    item.Position.String(),
			Points:      item.Points,
			Reason:      item.Reason,
		})
	}
	encoded, err := sonic.Marshal(docs)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeSubstitutions(raw string) ([]scoring.Substitution, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var docs []substitutionDocument
	if err := sonic.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, err
	}

	out := make([]scoring.Substitution, 0, len(docs))
	for _, doc := range docs {
		position, err := player.ParsePosition(doc.Position)
		if err != nil {
			return nil, err
		}
		out = append(out, scoring.Substitution{
			GameID:      doc.GameID,
			OutPlayerID: doc.OutPlayerID,
			InPlayerID:  doc.InPlayerID,
			Position:    position,
			Points:      doc.Points,
			Reason:      doc.Reason,
		})
	}
	return out, nil
}

func weekScoreFromRow(row weekScoreTableModel) (scoring.WeekScore, error) {
	substitutions, err := decodeSubstitutions(row.Substitutions)
	if err != nil {
		return scoring.WeekScore{}, fmt.Errorf("decode substitutions team=%s week=%s: %w", row.TeamPublicID, row.WeekPublicID, err)
	}
	return scoring.WeekScore{
		TeamID:        row.TeamPublicID,
		WeekID:        row.WeekPublicID,
		TotalPoints:   row.TotalPoints,
		CaptainPoints: row.CaptainPoints,
		Substitutions: substitutions,
		CalculatedAt:  row.CalculatedAt.UTC(),
	}, nil
}
