package repository

import "errors"

var (
	// ErrEventNotFound is returned when an event is not found
	ErrEventNotFound = errors.New("event not found")
	// ErrDuplicateEvent is returned when an event with the same ID already exists
	ErrDuplicateEvent = errors.New("event already exists")
)
