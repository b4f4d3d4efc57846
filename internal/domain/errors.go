package domain

import "errors"

// ErrSessionNotFound is returned when a conversation key has no stored session.
var ErrSessionNotFound = errors.New("session not found")
