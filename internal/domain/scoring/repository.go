package scoring

import "context"

type Repository interface {
	GetByTeamAndWeek(ctx context.Context, teamID, weekID string) (WeekScore, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]WeekScore, error)
	// Upsert stores the score keyed by (team, week), replacing any previous one.
	Upsert(ctx context.Context, item WeekScore) error
}
