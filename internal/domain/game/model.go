package game

import "time"

// Game is a real-world match scheduled inside a fantasy week.
type Game struct {
	ID       string
	WeekID   string
	HomeTeam string
	AwayTeam string
	StartsAt time.Time
}
