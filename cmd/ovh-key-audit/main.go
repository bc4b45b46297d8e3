package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	code := runMain(Execute, os.Stdout)
	if code != 0 {
		os.Exit(code)
	}
}

func runMain(execute func() error, stdout io.Writer) int {
	if err := execute(); err != nil {
		return exitCodeForError(err, stdout)
	}
	return 0
}

// exitCodeForError prints a one-line message on stdout, next to the report,
// and returns the process exit code.
func exitCodeForError(err error, stdout io.Writer) int {
	var ee *exitError
	if errors.As(err, &ee) {
		emitCommandError(resolveErrorForExitError(ee, err), ee.code, stdout)
		return ee.code
	}

	if errors.Is(err, context.Canceled) {
		emitCommandError(err, exitCodeCanceled, stdout)
		return exitCodeCanceled
	}

	emitCommandError(err, 1, stdout)
	return 1
}

func emitCommandError(err error, exitCode int, stdout io.Writer) {
	if exitCode == exitCodeCanceled {
		fmt.Fprintln(stdout, "canceled")
		return
	}
	fmt.Fprintf(stdout, "Error: %v\n", err)
}

func resolveErrorForExitError(ee *exitError, fallback error) error {
	if ee != nil && ee.err != nil {
		return ee.err
	}
	return fallback
}
