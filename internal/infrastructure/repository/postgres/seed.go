package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/ultimate-fantasy/internal/platform/querybuilder"
)

// BootstrapSeed loads the embedded demo season into an empty database. It is a
// no-op once any season exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed, err := memory.LoadSeed()
	if err != nil {
		return fmt.Errorf("load bootstrap seed: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const onConflict = "ON CONFLICT (public_id) DO NOTHING"

	seasons := qb.InsertInto("seasons").
		Columns("public_id", "name", "is_active", "starts_at", "ends_at", "salary_cap")
	for _, s := range seed.Seasons {
		seasons = seasons.Values(s.ID, s.Name, s.Active, s.StartsAt.UTC(), s.EndsAt.UTC(), s.SalaryCap)
	}

	weeks := qb.InsertInto("weeks").
		Columns("public_id", "season_public_id", "week_number", "game_date")
	for _, w := range seed.Weeks {
		weeks = weeks.Values(w.ID, w.SeasonID, w.Number, w.GameDate.UTC())
	}

	players := qb.InsertInto("players").
		Columns("public_id", "season_public_id", "name", "team_name", "position", "starting_value", "is_active")
	for _, p := range seed.Players {
		players = players.Values(p.ID, p.SeasonID, p.Name, p.TeamName, p.Position.String(), p.StartingValue, p.Active)
	}

	games := qb.InsertInto("games").
		Columns("public_id", "week_public_id", "home_team", "away_team", "starts_at")
	for _, g := range seed.Games {
		games = games.Values(g.ID, g.WeekID, g.HomeTeam, g.AwayTeam, g.StartsAt.UTC())
	}

	teams := qb.InsertInto("fantasy_teams").
		Columns("public_id", "season_public_id", "owner_user_id", "name", "total_value", "original_value", "created_at")
	for _, t := range seed.FantasyTeams {
		teams = teams.Values(t.ID, t.SeasonID, t.OwnerUserID, t.Name, t.TotalValue, t.OriginalValue, t.CreatedAt.UTC())
	}

	steps := []struct {
		name    string
		rows    int
		builder *qb.InsertBuilder
	}{
		{name: "seasons", rows: len(seed.Seasons), builder: seasons},
		{name: "weeks", rows: len(seed.Weeks), builder: weeks},
		{name: "players", rows: len(seed.Players), builder: players},
		{name: "games", rows: len(seed.Games), builder: games},
		{name: "fantasy teams", rows: len(seed.FantasyTeams), builder: teams},
	}
	for _, step := range steps {
		if step.rows == 0 {
			continue
		}
		query, args, err := step.builder.Suffix(onConflict).ToSQL()
		if err != nil {
			return fmt.Errorf("build seed %s query: %w", step.name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
