package fantasyteam

import "context"

type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
}
