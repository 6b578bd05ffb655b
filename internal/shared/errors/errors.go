package errors

import "errors"

// Domain errors
var (
	// Finding errors
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrEmptySummary    = errors.New("finding summary cannot be empty")
	ErrInvalidStatus   = errors.New("invalid terminal status")

	// Check errors
	ErrEmptyTarget   = errors.New("target cannot be empty")
	ErrInvalidTarget = errors.New("invalid target URL")
	ErrRequestFailed = errors.New("http request failed")

	// External scanner errors
	ErrProgramNotFound   = errors.New("scanner program not found")
	ErrMalformedFinding  = errors.New("malformed finding line")
	ErrProcessOutputPump = errors.New("reading scanner output failed")

	// Output errors
	ErrSerializationFailed = errors.New("serialization failed")
)
