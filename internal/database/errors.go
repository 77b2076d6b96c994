package database

import "errors"

// Sentinel errors surfaced to handlers, which map them onto HTTP statuses.
var (
	// ErrNotFound covers a missing row, a wrong actor, and a wrong state for
	// the attempted transition. The three are deliberately indistinguishable
	// so that callers learn nothing about requests they do not own.
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePending is returned when a pending swap request already
	// exists for the same (sender, recipient) pair.
	ErrDuplicatePending = errors.New("request already pending")

	// ErrEmailTaken is returned when an email address is already registered.
	ErrEmailTaken = errors.New("email already registered")
)
