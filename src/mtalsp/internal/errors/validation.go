package errors

import (
	stderr "errors"
	"fmt"
)

// ValidationError indicates that the manifest validator failed for a manifest.
// It is recoverable: diagnostics already published for the manifest are kept.
type ValidationError struct {
	ManifestPath string
	Err          error
}

// Error is an implementation of the error interface.
func (v *ValidationError) Error() string {
	return fmt.Sprintf("validating %q: %v", v.ManifestPath, v.Err)
}

// Unwrap returns the underlying validator failure.
func (v *ValidationError) Unwrap() error {
	return v.Err
}

// IsValidationError returns the failed manifest path and true if a ValidationError is part of the error chain.
func IsValidationError(e error) (_ string, ok bool) {
	var ve *ValidationError
	if !stderr.As(e, &ve) {
		return "", false
	}
	return ve.ManifestPath, true
}

// DescriptorParseError indicates a descriptor could not be read or decoded.
type DescriptorParseError struct {
	Path string
	Err  error
}

// Error is an implementation of the error interface.
func (d *DescriptorParseError) Error() string {
	return fmt.Sprintf("reading descriptor %q: %v", d.Path, d.Err)
}

// Unwrap returns the underlying parse failure.
func (d *DescriptorParseError) Unwrap() error {
	return d.Err
}
