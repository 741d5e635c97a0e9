package repository

import "errors"

var (
	// ErrNotFound is returned when no payment matches the lookup key.
	ErrNotFound = errors.New("payment not found")

	// ErrStatusConflict is returned when a terminal status would be
	// overwritten by a different terminal status.
	ErrStatusConflict = errors.New("conflicting terminal payment status")
)
