package main

import "errors"

// Process exit codes. Usage errors (bad column, bad sort key, bad format)
// are distinguished from operation failures (store errors, failed name
// resolution) so shell callers can tell a bad invocation from a bad day.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// usageErr marks err as a configuration/argument error (exit 2).
func usageErr(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// failureErr marks err as an operation-level failure (exit 1).
func failureErr(err error) error {
	return &exitError{code: exitFailure, err: err}
}

// exitCode extracts the exit code carried by err; untagged errors count as
// operation failures.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}
