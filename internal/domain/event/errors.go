package event

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidName     = errors.New("event name is required")
	ErrNotInRoster     = errors.New("user not found in roster")
	ErrInvalidCapacity = errors.New("capacity must be positive or unbounded")
	ErrEventClosed     = errors.New("event is closed for registration")
	ErrEventExists     = errors.New("event already exists")
)
