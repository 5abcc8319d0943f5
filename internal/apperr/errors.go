// Package apperr defines the sentinel errors shared across notisync.
package apperr

import "errors"

var (
	// ErrMissingField marks source events that lack a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrUnparseableDate marks raw date strings that match neither the
	// RFC 3339 nor the plain date format.
	ErrUnparseableDate = errors.New("unparseable date")
	// ErrLookupFailed marks a failed duplicate-check call. Creation is
	// skipped when this happens so a transient store error can never
	// produce a duplicate record.
	ErrLookupFailed = errors.New("record lookup failed")
	// ErrCreateFailed marks a non-success response to a create call.
	ErrCreateFailed = errors.New("record create failed")
	// ErrArchiveFailed marks a non-success response to an archive call.
	ErrArchiveFailed = errors.New("record archive failed")
)
