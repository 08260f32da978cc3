package season

import (
	"time"

	"github.com/shopspring/decimal"
)

// Season is a competition period. At most one season is active at a time.
type Season struct {
	ID        string
	Name      string
	Active    bool
	StartsAt  time.Time
	EndsAt    time.Time
	SalaryCap decimal.Decimal
}
