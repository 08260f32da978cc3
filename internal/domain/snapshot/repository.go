package snapshot

import "context"

type Repository interface {
	GetByTeamAndWeek(ctx context.Context, teamID, weekID string) (Snapshot, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Snapshot, error)
	ListTeamIDsByWeek(ctx context.Context, weekID string) ([]string, error)
	Create(ctx context.Context, item Snapshot) error
	// Replace removes any snapshot for the same team and week and writes item
	// in one atomic step.
	Replace(ctx context.Context, item Snapshot) error
	DeleteByTeamAndWeek(ctx context.Context, teamID, weekID string) (bool, error)
}
