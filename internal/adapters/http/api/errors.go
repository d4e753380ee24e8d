// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// NewKind returns an error of the given kind annotated with the operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind wraps cause with the given kind and operation.
func WrapKind(op string, kind error, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}
