package main

import "fmt"

// exitCodeCanceled matches the shell convention for SIGINT.
const exitCodeCanceled = 130

// exitError pins the process exit code for an audit failure.
type exitError struct {
	code int
	err  error
}

func canceledError(err error) *exitError {
	return &exitError{code: exitCodeCanceled, err: err}
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("audit exited with status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}
