package utils

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	ErrImageRequired = fmt.Errorf("%w: image not provided", ErrValidation)
	ErrImageTooLarge = fmt.Errorf("%w: image payload too large", ErrValidation)
	ErrInvalidID     = fmt.Errorf("%w: invalid image id format", ErrValidation)

	ErrImageNotFound = fmt.Errorf("%w: image", ErrNotFound)
	ErrNoImages      = fmt.Errorf("%w: no images", ErrNotFound)
)

// UpstreamError reports a failed call to the media host or the record store.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}
