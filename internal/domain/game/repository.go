package game

import "context"

type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListByWeek(ctx context.Context, weekID string) ([]Game, error)
	ListByWeeks(ctx context.Context, weekIDs []string) ([]Game, error)
}
