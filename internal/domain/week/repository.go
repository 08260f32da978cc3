package week

import "context"

// WindowGuard re-verifies window invariants against the season's weeks as the
// store currently holds them.
type WindowGuard func(seasonWeeks []Week) error

type Repository interface {
	GetByID(ctx context.Context, weekID string) (Week, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Week, error)
	// UpdateWindow persists the window fields of w. guard runs after every
	// other writer for the same season is excluded; a guard error aborts the
	// write and is returned unchanged.
	UpdateWindow(ctx context.Context, w Week, guard WindowGuard) error
	MarkPricesCalculated(ctx context.Context, weekID string) error
}
