package valuechange

import "context"

type Repository interface {
	ListByPlayers(ctx context.Context, playerIDs []string) ([]ValueChange, error)
	GetLatestAtOrBefore(ctx context.Context, playerID string, round int) (ValueChange, bool, error)
	UpsertMany(ctx context.Context, items []ValueChange) error
}
