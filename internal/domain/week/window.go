package week

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPricesNotCalculated = errors.New("previous week prices are not calculated")
	ErrWindowAlreadyOpen   = errors.New("another transfer window is already open")
	ErrCutoffNotInFuture   = errors.New("transfer cutoff must be in the future")
)

type WindowState string

const (
	WindowUpcoming  WindowState = "upcoming"
	WindowReady     WindowState = "ready"
	WindowOpen      WindowState = "open"
	WindowCompleted WindowState = "completed"
)

// PricesReady reports whether the window of target may open. Week 1 has no
// prerequisite; any later week needs the previous week's prices.
func PricesReady(target Week, previous *Week) bool {
	if target.Number <= 1 {
		return true
	}
	return previous != nil && previous.PricesCalculated
}

// WindowState projects the stored window fields onto the four window states.
func (w Week) WindowState(now time.Time, pricesReady bool) WindowState {
	switch {
	case w.TransferWindowOpen && w.cutoffPassed(now):
		return WindowCompleted
	case w.TransferWindowOpen:
		return WindowOpen
	case w.TransferWindowClosedAt != nil:
		return WindowCompleted
	case pricesReady:
		return WindowReady
	default:
		return WindowUpcoming
	}
}

// AcceptsTransfers reports whether the window is open and the cutoff, if any,
// has not been reached.
func (w Week) AcceptsTransfers(now time.Time) bool {
	return w.TransferWindowOpen && !w.cutoffPassed(now)
}

func (w Week) cutoffPassed(now time.Time) bool {
	return w.TransferCutoffTime != nil && !now.Before(*w.TransferCutoffTime)
}

// OpenWindow moves the week into the open state. A completed window may be
// reopened, which clears its closed timestamp. A nil cutoff keeps the current
// one.
func OpenWindow(w Week, previous *Week, cutoff *time.Time, now time.Time) (Week, error) {
	if err := CheckPricesReady(w, previous); err != nil {
		return Week{}, err
	}

	next := w
	if cutoff != nil {
		c := cutoff.UTC()
		next.TransferCutoffTime = &c
	}
	if next.cutoffPassed(now) {
		return Week{}, fmt.Errorf("%w: week=%d cutoff=%s", ErrCutoffNotInFuture, w.Number, next.TransferCutoffTime.Format(time.RFC3339))
	}

	next.TransferWindowOpen = true
	next.TransferWindowClosedAt = nil
	return next, nil
}

// CloseWindow marks the window completed. Closing an already closed window
// keeps the original closed timestamp.
func CloseWindow(w Week, now time.Time) Week {
	next := w
	next.TransferWindowOpen = false
	if next.TransferWindowClosedAt == nil {
		closedAt := now.UTC()
		next.TransferWindowClosedAt = &closedAt
	}
	return next
}

func CheckPricesReady(target Week, previous *Week) error {
	if PricesReady(target, previous) {
		return nil
	}
	return fmt.Errorf("%w: week=%d requires week=%d", ErrPricesNotCalculated, target.Number, target.Number-1)
}

// CheckSingleOpenWindow fails when a week other than targetID currently has
// an open window. Stores re-run it inside their critical section before
// persisting an opened window.
func CheckSingleOpenWindow(seasonWeeks []Week, targetID string, now time.Time) error {
	for _, item := range seasonWeeks {
		if item.ID == targetID {
			continue
		}
		if item.AcceptsTransfers(now) {
			return fmt.Errorf("%w: week=%d (%s)", ErrWindowAlreadyOpen, item.Number, item.ID)
		}
	}
	return nil
}
