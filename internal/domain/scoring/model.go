package scoring

import (
	"time"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
)

// Substitution records a bench player standing in for a starter who did not
// play in a game.
type Substitution struct {
	GameID      string
	OutPlayerID string
	InPlayerID  string
	Position    player.Position
	Points      int
	Reason      string
}

// WeekScore is a team's computed result for one week. Captain points are
// already doubled and kept apart from TotalPoints.
type WeekScore struct {
	TeamID        string
	WeekID        string
	TotalPoints   int
	CaptainPoints int
	Substitutions []Substitution
	CalculatedAt  time.Time
}

func (s WeekScore) Points() int {
	return s.TotalPoints + s.CaptainPoints
}
