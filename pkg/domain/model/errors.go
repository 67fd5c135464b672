package model

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrTagValidation marks errors caused by the client request. They are
	// reported as 400 and never treated as a server fault.
	ErrTagValidation = goerr.NewTag("validation")

	// ErrTagConversion marks failures raised by a converter backend or by
	// exporting its document.
	ErrTagConversion = goerr.NewTag("conversion")
)

// IsValidationError reports whether err, or any error it wraps, was caused
// by the client request
func IsValidationError(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if goerr.HasTag(err, ErrTagValidation) {
			return true
		}
	}
	return false
}
