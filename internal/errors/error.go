// Package errors provides the error taxonomy of product operations.
package errors

import "errors"

var (
	// ErrInvalidInput reports a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProductExists reports an add for a name that is already taken.
	ErrProductExists = errors.New("product already exists")
	// ErrProductNotFound reports an unknown product id.
	ErrProductNotFound = errors.New("product not found")
	// ErrStoreUnavailable wraps any failure of the underlying store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
