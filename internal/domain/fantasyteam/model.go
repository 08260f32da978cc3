package fantasyteam

import (
	"time"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/shopspring/decimal"
)

// Team is one participant's fantasy team for a season.
type Team struct {
	ID            string
	SeasonID      string
	OwnerUserID   string
	Name          string
	TotalValue    decimal.Decimal
	OriginalValue decimal.Decimal
	CreatedAt     time.Time
}

// RosterEntry is a player and the position they are rostered at.
type RosterEntry struct {
	PlayerID string
	Position player.Position
}

// Transfer swaps OutPlayerID for InPlayerID. One side is empty when the
// roster shrinks or grows.
type Transfer struct {
	OutPlayerID string
	InPlayerID  string
	Position    player.Position
}
