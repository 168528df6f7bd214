package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOverlayLocked   = errors.New("season overlay is locked and cannot be dismissed")
	ErrNoHostContext   = errors.New("no telegram host context present")
)
