package postgres

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type fantasyTeamTableModel struct {
	ID             int64           `db:"id"`
	PublicID       string          `db:"public_id"`
	SeasonPublicID string          `db:"season_public_id"`
	OwnerUserID    string          `db:"owner_user_id"`
	Name           string          `db:"name"`
	TotalValue     decimal.Decimal `db:"total_value"`
	OriginalValue  decimal.Decimal `db:"original_value"`
	CreatedAt      time.Time       `db:"created_at"`
}

type snapshotTableModel struct {
	PublicID              string          `db:"public_id"`
	TeamPublicID          string          `db:"team_public_id"`
	WeekPublicID          string          `db:"week_public_id"`
	CaptainPlayerPublicID sql.NullString  `db:"captain_player_public_id"`
	TotalValue            decimal.Decimal `db:"total_value"`
	CreatedAt             time.Time       `db:"created_at"`
}

type snapshotPlayerTableModel struct {
	SnapshotPublicID string          `db:"snapshot_public_id"`
	PlayerPublicID   string          `db:"player_public_id"`
	SlotOrder        int             `db:"slot_order"`
	Position         string          `db:"position"`
	IsBenched        bool            `db:"is_benched"`
	IsCaptain        bool            `db:"is_captain"`
	ValueAtSnapshot  decimal.Decimal `db:"value_at_snapshot"`
}

type weekScoreTableModel struct {
	TeamPublicID  string    `db:"team_public_id"`
	WeekPublicID  string    `db:"week_public_id"`
	TotalPoints   int       `db:"total_points"`
	CaptainPoints int       `db:"captain_points"`
	Substitutions string    `db:"substitutions"`
	CalculatedAt  time.Time `db:"calculated_at"`
}
