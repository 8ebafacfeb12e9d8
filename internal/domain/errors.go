package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrShowNotFound         = errors.New("show not found")
	ErrUnauthorized         = errors.New("resource does not belong to the requester")
	ErrSeatConflict         = errors.New("seat state conflict")
	ErrSeatUnavailable      = errors.New("seat(s) are not available")
	ErrAlreadyHasHold       = errors.New("user already has a pending hold")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrTooLateToCancel      = errors.New("too late to cancel")
	ErrInvalidTransition    = errors.New("invalid seat state transition")
	ErrInvalidSeatSelection = errors.New("invalid seat selection")
	ErrInvalidLayout        = errors.New("invalid screen layout")
	ErrInvalidPrice         = errors.New("price must be positive with at most 2 decimal places")
	ErrStorage              = errors.New("storage failure")
)

// SeatConflictError reports the seats that did not satisfy the expected state
// during a seat-set transition. It matches ErrSeatConflict.
type SeatConflictError struct {
	ShowID  int
	SeatIDs []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat state conflict on show %d: %s", e.ShowID, strings.Join(e.SeatIDs, ", "))
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatConflict
}

// StorageError wraps an unexpected failure of the underlying store so callers
// can tell infrastructure faults apart from business errors.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
