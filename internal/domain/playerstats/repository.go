package playerstats

import "context"

type Repository interface {
	GetByPlayerAndGame(ctx context.Context, playerID, gameID string) (Stats, bool, error)
	ListByGames(ctx context.Context, gameIDs []string) ([]Stats, error)
	Upsert(ctx context.Context, item Stats) error
}
