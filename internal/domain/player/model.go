package player

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Player is a real athlete registered for one season. Market value history is
// keyed by this registration ID.
type Player struct {
	ID            string
	SeasonID      string
	Name          string
	TeamName      string
	Position      Position
	StartingValue decimal.Decimal
	Active        bool
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.SeasonID) == "" {
		return fmt.Errorf("player season id is required")
	}
	if !p.Position.Valid() {
		return fmt.Errorf("%w: player=%s", ErrInvalidPosition, p.ID)
	}
	if !p.StartingValue.IsPositive() {
		return fmt.Errorf("player starting value must be greater than zero: %s", p.ID)
	}

	return nil
}
