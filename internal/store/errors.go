package store

import (
	"errors"
	"fmt"
)

var (
	ErrStationNotFound    = errors.New("station not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrQueueEntryNotFound = errors.New("queue entry not found")
	ErrNoActiveAssignment = errors.New("no active assignment for station")
	ErrInvalidRemovalType = errors.New("invalid removal type")
)

// EmployeeAssignedError reports that an employee already holds an active
// assignment on another station. The conflicting station is carried so the
// caller can name it.
type EmployeeAssignedError struct {
	EmployeeID int64
	StationID  int64
}

func (e *EmployeeAssignedError) Error() string {
	return fmt.Sprintf("employee %d is already assigned to station %d", e.EmployeeID, e.StationID)
}

// InvalidTransitionError reports a rejected queue status move.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid queue status transition %s -> %s", e.From, e.To)
}
