package season

import "context"

type Repository interface {
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	GetActive(ctx context.Context) (Season, bool, error)
}
