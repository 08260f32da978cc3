package player

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPosition = errors.New("invalid position")

// Position is the on-field role of an ultimate player. The zero value is not
// a valid position.
type Position uint8

const (
	Handler Position = iota + 1
	Cutter
	Receiver
)

// Positions lists every valid position in roster order.
var Positions = [...]Position{Handler, Cutter, Receiver}

func ParsePosition(raw string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "handler":
		return Handler, nil
	case "cutter":
		return Cutter, nil
	case "receiver":
		return Receiver, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
	}
}

func (p Position) String() string {
	switch p {
	case Handler:
		return "handler"
	case Cutter:
		return "cutter"
	case Receiver:
		return "receiver"
	default:
		return fmt.Sprintf("position(%d)", uint8(p))
	}
}

func (p Position) Valid() bool {
	switch p {
	case Handler, Cutter, Receiver:
		return true
	default:
		return false
	}
}

func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
