package postgres

import "time"

type gameTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	WeekPublicID string    `db:"week_public_id"`
	HomeTeam     string    `db:"home_team"`
	AwayTeam     string    `db:"away_team"`
	StartsAt     time.Time `db:"starts_at"`
	CreatedAt    time.Time `db:"created_at"`
}
