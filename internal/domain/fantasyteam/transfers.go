package fantasyteam

import "github.com/riskibarqy/ultimate-fantasy/internal/domain/player"

// MaxTransfersPerWeek caps transfers once a team has a saved roster.
const MaxTransfersPerWeek = 2

// DiffRoster pairs players leaving previous with players joining next.
// Same-position swaps are paired first, in roster order; what remains is
// paired across positions, and any surplus becomes one-sided transfers.
func DiffRoster(previous, next []RosterEntry) []Transfer {
	nextSet := make(map[string]struct{}, len(next))
	for _, item := range next {
		nextSet[item.PlayerID] = struct{}{}
	}
	prevSet := make(map[string]struct{}, len(previous))
	for _, item := range previous {
		prevSet[item.PlayerID] = struct{}{}
	}

	var outs, ins []RosterEntry
	for _, item := range previous {
		if _, kept := nextSet[item.PlayerID]; !kept {
			outs = append(outs, item)
		}
	}
	for _, item := range next {
		if _, existed := prevSet[item.PlayerID]; !existed {
			ins = append(ins, item)
		}
	}

	transfers := make([]Transfer, 0, max(len(outs), len(ins)))
	usedOut := make([]bool, len(outs))
	usedIn := make([]bool, len(ins))

	for _, pos := range player.Positions {
		for i, out := range outs {
			if usedOut[i] || out.Position != pos {
				continue
			}
			for j, in := range ins {
				if usedIn[j] || in.Position != pos {
					continue
				}
				usedOut[i], usedIn[j] = true, true
				transfers = append(transfers, Transfer{OutPlayerID: out.PlayerID, InPlayerID: in.PlayerID, Position: pos})
				break
			}
		}
	}

	j := 0
	for i, out := range outs {
		if usedOut[i] {
			continue
		}
		for j < len(ins) && usedIn[j] {
			j++
		}
		if j < len(ins) {
			usedIn[j] = true
			transfers = append(transfers, Transfer{OutPlayerID: out.PlayerID, InPlayerID: ins[j].PlayerID, Position: ins[j].Position})
			continue
		}
		transfers = append(transfers, Transfer{OutPlayerID: out.PlayerID, Position: out.Position})
	}
	for k, in := range ins {
		if usedIn[k] {
			continue
		}
		transfers = append(transfers, Transfer{InPlayerID: in.PlayerID, Position: in.Position})
	}

	return transfers
}
