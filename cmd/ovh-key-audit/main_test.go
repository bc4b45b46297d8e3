package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/open-sspm/ovh-key-audit/internal/config"
)

func TestExitCodeForError_PlainMessageOnStdout(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := exitCodeForError(&config.MissingError{Keys: []string{config.EnvConsumerKey}}, &out)
	if code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
	if got, want := out.String(), "Error: missing OVH API credentials: OVH_CONSUMER_KEY\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestExitCodeForError_Canceled(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := exitCodeForError(fmt.Errorf("scan: %w", context.Canceled), &out)
	if code != 130 {
		t.Fatalf("code = %d, want 130", code)
	}
	if got := out.String(); got != "canceled\n" {
		t.Fatalf("output = %q, want %q", got, "canceled\n")
	}
}

func TestExitCodeForError_CanceledRun(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := fmt.Errorf("audit: %w", canceledError(errors.New("interrupted during listing")))
	if code := exitCodeForError(err, &out); code != exitCodeCanceled {
		t.Fatalf("code = %d, want %d", code, exitCodeCanceled)
	}
	if got := out.String(); got != "canceled\n" {
		t.Fatalf("output = %q, want %q", got, "canceled\n")
	}
}

func TestExitCodeForError_ExitErrorCode(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := exitCodeForError(&exitError{code: 2, err: errors.New("listing failed")}, &out)
	if code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
	if got, want := out.String(), "Error: listing failed\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestExitErrorMessageWithoutCause(t *testing.T) {
	t.Parallel()

	if got, want := (&exitError{code: 4}).Error(), "audit exited with status 4"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestRunMain_Success(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if code := runMain(func() error { return nil }, &out); code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
}
