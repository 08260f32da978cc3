package valuechange

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	averageWindow = 2
	priceScale    = 2
)

var (
	pointsMultiplier  = decimal.NewFromInt(10)
	adjustmentDivisor = decimal.NewFromInt(4)
)

// CalculateNewPrice applies prev + (10*avg - prev) / 4 and rounds to cents.
func CalculateNewPrice(previous, twoWeekAverage decimal.Decimal) decimal.Decimal {
	target := pointsMultiplier.Mul(twoWeekAverage)
	return previous.Add(target.Sub(previous).Div(adjustmentDivisor)).Round(priceScale)
}

// CalculatePriceTable prices a player for rounds 1..throughRound. Round 1 is
// the starting value. Each later round averages the points of the two most
// recent played weeks before it; weeks without a played row never count.
func CalculatePriceTable(startingValue decimal.Decimal, history []Performance, throughRound int) []RoundValue {
	if throughRound < 1 {
		return nil
	}

	played := playedWeekPoints(history)
	weeks := make([]int, 0, len(played))
	for number := range played {
		weeks = append(weeks, number)
	}
	sort.Ints(weeks)

	out := make([]RoundValue, 0, throughRound)
	out = append(out, RoundValue{Round: 1, Value: startingValue})

	prev := startingValue
	for round := 2; round <= throughRound; round++ {
		avg, ok := trailingAverage(weeks, played, round)
		if ok {
			prev = CalculateNewPrice(prev, avg)
		}
		out = append(out, RoundValue{Round: round, Value: prev})
	}

	return out
}

func playedWeekPoints(history []Performance) map[int]int {
	out := make(map[int]int)
	for _, item := range history {
		if !item.Played {
			continue
		}
		out[item.WeekNumber] += item.Points
	}
	return out
}

// trailingAverage averages the last played weeks strictly before round.
func trailingAverage(sortedWeeks []int, points map[int]int, round int) (decimal.Decimal, bool) {
	idx := sort.SearchInts(sortedWeeks, round)
	if idx == 0 {
		return decimal.Zero, false
	}

	start := max(idx-averageWindow, 0)
	window := sortedWeeks[start:idx]

	var total int64
	for _, number := range window {
		total += int64(points[number])
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(len(window)))), true
}

// ValueAt resolves the value in force for round from a player's history.
func ValueAt(startingValue decimal.Decimal, changes []ValueChange, round int) decimal.Decimal {
	value := startingValue
	best := 0
	for _, item := range changes {
		if item.Round <= round && item.Round > best {
			best = item.Round
			value = item.Value
		}
	}
	return value
}

// Current returns the latest priced round and its delta. Without any value
// change the starting value is returned as round 1 with a zero delta.
func Current(playerID string, startingValue decimal.Decimal, changes []ValueChange) CurrentPrice {
	if len(changes) == 0 {
		return CurrentPrice{PlayerID: playerID, Round: 1, Value: startingValue, Delta: decimal.Zero}
	}

	sorted := append([]ValueChange(nil), changes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Round < sorted[j].Round })

	latest := sorted[len(sorted)-1]
	previous := ValueAt(startingValue, sorted[:len(sorted)-1], latest.Round-1)

	return CurrentPrice{
		PlayerID: playerID,
		Round:    latest.Round,
		Value:    latest.Value,
		Delta:    latest.Value.Sub(previous),
	}
}
