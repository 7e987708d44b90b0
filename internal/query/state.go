package query

import (
	"fmt"
	"time"
)

// Status is the lifecycle position of a cached query.
type Status int

// Query statuses.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusSuccess:
		return "Success"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// State is a snapshot of one cache entry.
// Data stays populated from the last success while a refetch is loading or after it failed.
type State[T any] struct {
	UpdatedAt  time.Time
	Data       T
	Err        error
	Key        Key
	Status     Status
	HasData    bool
	Refreshing bool
	Stale      bool
}

// IsFetching reports whether a call for this key is in flight.
func (s State[T]) IsFetching() bool {
	return s.Status == StatusLoading
}
