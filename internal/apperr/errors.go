// Package apperr holds the sentinel errors shared across the filter pipeline.
package apperr

import "errors"

var (
	ErrInputNotFound          = errors.New("input not found")
	ErrMalformedInput         = errors.New("malformed input")
	ErrMalformedInterfaceName = errors.New("malformed interface name")
	ErrMissingExpectedKey     = errors.New("missing expected key")
)
