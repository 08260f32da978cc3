package week

import (
	"fmt"
	"strings"
	"time"
)

// Week is a scoring period inside a season. The transfer window fields are the
// persisted inputs of the window state machine; use WindowState to read them.
type Week struct {
	ID                     string
	SeasonID               string
	Number                 int
	GameDate               time.Time
	TransferWindowOpen     bool
	TransferCutoffTime     *time.Time
	TransferWindowClosedAt *time.Time
	PricesCalculated       bool
}

func (w Week) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("week id is required")
	}
	if strings.TrimSpace(w.SeasonID) == "" {
		return fmt.Errorf("week season id is required")
	}
	if w.Number < 1 {
		return fmt.Errorf("week number must be >= 1: week=%s", w.ID)
	}
	return nil
}

// Previous returns the week numbered one before target, if present.
func Previous(seasonWeeks []Week, target Week) (Week, bool) {
	for _, item := range seasonWeeks {
		if item.Number == target.Number-1 {
			return item, true
		}
	}
	return Week{}, false
}
