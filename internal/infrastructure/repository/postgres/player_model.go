package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type playerTableModel struct {
	ID             int64           `db:"id"`
	PublicID       string          `db:"public_id"`
	SeasonPublicID string          `db:"season_public_id"`
	Name           string          `db:"name"`
	TeamName       string          `db:"team_name"`
	Position       string          `db:"position"`
	StartingValue  decimal.Decimal `db:"starting_value"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type playerStatsTableModel struct {
	PlayerPublicID string    `db:"player_public_id"`
	GamePublicID   string    `db:"game_public_id"`
	Goals          int       `db:"goals"`
	Assists        int       `db:"assists"`
	Blocks         int       `db:"blocks"`
	Drops          int       `db:"drops"`
	Throwaways     int       `db:"throwaways"`
	Points         int       `db:"points"`
	Played         bool      `db:"played"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type valueChangeTableModel struct {
	PlayerPublicID string          `db:"player_public_id"`
	Round          int             `db:"round"`
	Value          decimal.Decimal `db:"value"`
	UpdatedAt      time.Time       `db:"updated_at"`
}
