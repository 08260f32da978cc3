package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
)

const (
	MaxRosterSize = 10
	MaxCaptains   = 1
)

var (
	ErrMissingPlayerID = errors.New("roster slot is missing a player id")
	ErrDuplicatePlayer = errors.New("duplicate player in roster")
	ErrRosterTooLarge  = errors.New("roster exceeds maximum size")
	ErrPositionQuota   = errors.New("position quota not satisfied")
	ErrCaptainCount    = errors.New("invalid captain count")
	ErrBenchedCaptain  = errors.New("captain must be a starter")

	// ErrAlreadyExists is returned by stores when (team, week) already has a
	// snapshot.
	ErrAlreadyExists = errors.New("snapshot already exists")
)

// StartingQuota is the number of starters a complete roster fields per position.
func StartingQuota(p player.Position) int {
	switch p {
	case player.Handler:
		return 3
	case player.Cutter:
		return 2
	case player.Receiver:
		return 2
	default:
		return 0
	}
}

// BenchQuota is the number of bench players a complete roster holds per position.
func BenchQuota(p player.Position) int {
	switch p {
	case player.Handler, player.Cutter, player.Receiver:
		return 1
	default:
		return 0
	}
}

// ValidateRoster checks slots against the position quotas. With allowPartial
// only the upper bounds apply, so a roster under construction may be short.
func ValidateRoster(slots []Slot, allowPartial bool) error {
	if len(slots) > MaxRosterSize {
		return fmt.Errorf("%w: max=%d got=%d", ErrRosterTooLarge, MaxRosterSize, len(slots))
	}

	seen := make(map[string]struct{}, len(slots))
	starting := make(map[player.Position]int, len(player.Positions))
	bench := make(map[player.Position]int, len(player.Positions))
	captains := 0

	for i, slot := range slots {
		id := strings.TrimSpace(slot.PlayerID)
		if id == "" {
			return fmt.Errorf("%w: slot=%d", ErrMissingPlayerID, i)
		}
		if !slot.Position.Valid() {
			return fmt.Errorf("%w: player=%s", player.ErrInvalidPosition, id)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}

		if slot.IsBenched {
			bench[slot.Position]++
		} else {
			starting[slot.Position]++
		}
		if slot.IsCaptain {
			if slot.IsBenched {
				return fmt.Errorf("%w: %s", ErrBenchedCaptain, id)
			}
			captains++
		}
	}

	for _, pos := range player.Positions {
		if got, limit := starting[pos], StartingQuota(pos); got > limit {
			return fmt.Errorf("%w: starting %s max=%d got=%d", ErrPositionQuota, pos, limit, got)
		}
		if got, limit := bench[pos], BenchQuota(pos); got > limit {
			return fmt.Errorf("%w: bench %s max=%d got=%d", ErrPositionQuota, pos, limit, got)
		}
	}
	if captains > MaxCaptains {
		return fmt.Errorf("%w: max=%d got=%d", ErrCaptainCount, MaxCaptains, captains)
	}

	if allowPartial {
		return nil
	}

	for _, pos := range player.Positions {
		if got, want := starting[pos], StartingQuota(pos); got != want {
			return fmt.Errorf("%w: starting %s want=%d got=%d", ErrPositionQuota, pos, want, got)
		}
		if got, want := bench[pos], BenchQuota(pos); got != want {
			return fmt.Errorf("%w: bench %s want=%d got=%d", ErrPositionQuota, pos, want, got)
		}
	}
	if captains != MaxCaptains {
		return fmt.Errorf("%w: want=%d got=%d", ErrCaptainCount, MaxCaptains, captains)
	}

	return nil
}
