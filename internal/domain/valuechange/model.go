package valuechange

import "github.com/shopspring/decimal"

// ValueChange is a player's market value for one round. Round is the week
// number the value applies to.
type ValueChange struct {
	PlayerID string
	Round    int
	Value    decimal.Decimal
}

// Performance is one stats row reduced to what pricing needs.
type Performance struct {
	WeekNumber int
	Points     int
	Played     bool
}

type RoundValue struct {
	Round int
	Value decimal.Decimal
}

// CurrentPrice is a player's latest known value and its change against the
// round before it.
type CurrentPrice struct {
	PlayerID string
	Round    int
	Value    decimal.Decimal
	Delta    decimal.Decimal
}
