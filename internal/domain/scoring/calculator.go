package scoring

import (
	"fmt"
	"sort"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
)

const captainMultiplier = 2

// CalculateWeek scores a snapshot against the week's games. A starter who did
// not play a game is credited with the first same-position, non-captain bench
// player who did. Several absent starters may be covered by the same bench
// player in one game.
func CalculateWeek(snap snapshot.Snapshot, games []game.Game, stats playerstats.Index) WeekScore {
	out := WeekScore{
		TeamID: snap.TeamID,
		WeekID: snap.WeekID,
	}
	if len(games) == 0 {
		return out
	}

	ordered := append([]game.Game(nil), games...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartsAt.Equal(ordered[j].StartsAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].StartsAt.Before(ordered[j].StartsAt)
	})

	starters := snap.Starters()
	bench := snap.Bench()
	slotPoints := make([]int, len(starters))

	for _, g := range ordered {
		for i, starter := range starters {
			if line, ok := stats.Get(g.ID, starter.PlayerID); ok && line.Played {
				slotPoints[i] += line.Points
				continue
			}

			sub, line, ok := findSubstitute(bench, starter, g.ID, stats)
			if !ok {
				continue
			}
			slotPoints[i] += line.Points
			out.Substitutions = append(out.Substitutions, Substitution{
				GameID:      g.ID,
				OutPlayerID: starter.PlayerID,
				InPlayerID:  sub.PlayerID,
				Position:    starter.Position,
				Points:      line.Points,
				Reason:      fmt.Sprintf("%s %s did not play game %s", starter.Position, starter.PlayerID, g.ID),
			})
		}
	}

	for i, starter := range starters {
		if starter.IsCaptain {
			out.CaptainPoints += slotPoints[i] * captainMultiplier
			continue
		}
		out.TotalPoints += slotPoints[i]
	}

	return out
}

func findSubstitute(
	bench []snapshot.Slot,
	starter snapshot.Slot,
	gameID string,
	stats playerstats.Index,
) (snapshot.Slot, playerstats.Stats, bool) {
	for _, candidate := range bench {
		if candidate.Position != starter.Position || candidate.IsCaptain {
			continue
		}
		line, ok := stats.Get(gameID, candidate.PlayerID)
		if !ok || !line.Played {
			continue
		}
		return candidate, line, true
	}
	return snapshot.Slot{}, playerstats.Stats{}, false
}
