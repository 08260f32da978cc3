package postgres

import (
	"database/sql"
	"time"
)

type weekTableModel struct {
	ID                     int64        `db:"id"`
	PublicID               string       `db:"public_id"`
	SeasonPublicID         string       `db:"season_public_id"`
	WeekNumber             int          `db:"week_number"`
	GameDate               time.Time    `db:"game_date"`
	TransferWindowOpen     bool         `db:"transfer_window_open"`
	TransferCutoffTime     sql.NullTime `db:"transfer_cutoff_time"`
	TransferWindowClosedAt sql.NullTime `db:"transfer_window_closed_at"`
	PricesCalculated       bool         `db:"prices_calculated"`
	CreatedAt              time.Time    `db:"created_at"`
	UpdatedAt              time.Time    `db:"updated_at"`
}
