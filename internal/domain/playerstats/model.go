package playerstats

import (
	"fmt"
	"strings"
)

// Stats is one player's line for one game. Points is derived from the raw
// counters with Rules and may be corrected after the fact.
type Stats struct {
	PlayerID   string
	GameID     string
	Goals      int
	Assists    int
	Blocks     int
	Drops      int
	Throwaways int
	Points     int
	Played     bool
}

func (s Stats) Validate() error {
	if strings.TrimSpace(s.PlayerID) == "" {
		return fmt.Errorf("stats player id is required")
	}
	if strings.TrimSpace(s.GameID) == "" {
		return fmt.Errorf("stats game id is required")
	}
	for name, v := range map[string]int{
		"goals":      s.Goals,
		"assists":    s.Assists,
		"blocks":     s.Blocks,
		"drops":      s.Drops,
		"throwaways": s.Throwaways,
	} {
		if v < 0 {
			return fmt.Errorf("stats %s must be >= 0: player=%s game=%s", name, s.PlayerID, s.GameID)
		}
	}
	return nil
}

// Rules weights each counter when deriving fantasy points.
type Rules struct {
	Goal      int
	Assist    int
	Block     int
	Drop      int
	Throwaway int
}

func DefaultRules() Rules {
	return Rules{
		Goal:      3,
		Assist:    3,
		Block:     2,
		Drop:      -2,
		Throwaway: -1,
	}
}

func (r Rules) Points(s Stats) int {
	return s.Goals*r.Goal +
		s.Assists*r.Assist +
		s.Blocks*r.Block +
		s.Drops*r.Drop +
		s.Throwaways*r.Throwaway
}

// Index groups stats rows by game then player for constant-time lookups.
type Index map[string]map[string]Stats

func NewIndex(items []Stats) Index {
	out := make(Index)
	for _, item := range items {
		byPlayer, ok := out[item.GameID]
		if !ok {
			byPlayer = make(map[string]Stats)
			out[item.GameID] = byPlayer
		}
		byPlayer[item.PlayerID] = item
	}
	return out
}

func (i Index) Get(gameID, playerID string) (Stats, bool) {
	item, ok := i[gameID][playerID]
	return item, ok
}
