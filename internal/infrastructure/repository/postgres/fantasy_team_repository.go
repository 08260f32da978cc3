package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

type FantasyTeamRepository struct {
	db *sqlx.DB
}

func NewFantasyTeamRepository(db *sqlx.DB) *FantasyTeamRepository {
	return &FantasyTeamRepository{db: db}
}

func (r *FantasyTeamRepository) GetByID(ctx context.Context, teamID string) (fantasyteam.Team, bool, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return fantasyteam.Team{}, false, fmt.Errorf("build get fantasy team by id query: %w", err)
	}

	var row fantasyTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasyteam.Team{}, false, nil
		}
		return fantasyteam.Team{}, false, fmt.Errorf("get fantasy team by id: %w", err)
	}

	return fantasyteam.Team{
		ID:            row.PublicID,
		SeasonID:      row.SeasonPublicID,
		OwnerUserID:   row.OwnerUserID,
		Name:          row.Name,
		TotalValue:    row.TotalValue,
		OriginalValue: row.OriginalValue,
		CreatedAt:     row.CreatedAt.UTC(),
	}, true, nil
}
