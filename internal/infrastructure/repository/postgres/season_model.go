package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type seasonTableModel struct {
	ID        int64           `db:"id"`
	PublicID  string          `db:"public_id"`
	Name      string          `db:"name"`
	IsActive  bool            `db:"is_active"`
	StartsAt  time.Time       `db:"starts_at"`
	EndsAt    time.Time       `db:"ends_at"`
	SalaryCap decimal.Decimal `db:"salary_cap"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
