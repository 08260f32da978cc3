package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/shopspring/decimal"
)

// Slot is one roster position inside a snapshot.
type Slot struct {
	PlayerID        string
	Position        player.Position
	IsBenched       bool
	IsCaptain       bool
	ValueAtSnapshot decimal.Decimal
}

// Snapshot is the roster a team saved for one week. Snapshots are never
// updated in place; an edit deletes the row and writes a new one.
type Snapshot struct {
	ID              string
	TeamID          string
	WeekID          string
	CaptainPlayerID string
	TotalValue      decimal.Decimal
	CreatedAt       time.Time
	Slots           []Slot
}

func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("snapshot id is required")
	}
	if strings.TrimSpace(s.TeamID) == "" {
		return fmt.Errorf("snapshot team id is required")
	}
	if strings.TrimSpace(s.WeekID) == "" {
		return fmt.Errorf("snapshot week id is required")
	}
	return nil
}

func (s Snapshot) Starters() []Slot {
	out := make([]Slot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if !slot.IsBenched {
			out = append(out, slot)
		}
	}
	return out
}

func (s Snapshot) Bench() []Slot {
	out := make([]Slot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.IsBenched {
			out = append(out, slot)
		}
	}
	return out
}

func (s Snapshot) Roster() []fantasyteam.RosterEntry {
	out := make([]fantasyteam.RosterEntry, 0, len(s.Slots))
	for _, slot := range s.Slots {
		out = append(out, fantasyteam.RosterEntry{PlayerID: slot.PlayerID, Position: slot.Position})
	}
	return out
}

// Total sums ValueAtSnapshot over every slot.
func Total(slots []Slot) decimal.Decimal {
	total := decimal.Zero
	for _, slot := range slots {
		total = total.Add(slot.ValueAtSnapshot)
	}
	return total
}

// CaptainID returns the captain's player id, or "" when no slot is flagged.
func CaptainID(slots []Slot) string {
	for _, slot := range slots {
		if slot.IsCaptain {
			return slot.PlayerID
		}
	}
	return ""
}
