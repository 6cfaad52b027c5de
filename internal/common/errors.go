// Package common defines shared constants and sentinel errors used across
// client and gateway layers of medsync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Client-side errors.
	ErrValidation = errors.New("validation error")
	ErrTransport  = errors.New("transport error")

	// Gateway-side errors.
	ErrInvalidRecord    = errors.New("invalid record")
	ErrStatusRegression = errors.New("status regression")
)
