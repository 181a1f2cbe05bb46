package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/flatrange/internal/configloader"
	"github.com/yaklabco/flatrange/pkg/fsutil"
	"github.com/yaklabco/flatrange/pkg/runner"
	"github.com/yaklabco/flatrange/pkg/script"
)

// Exit codes for flatrange.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitStepFailures indicates a run completed but a step failed or a
	// file could not be processed.
	ExitStepFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates invalid configuration, scripts or focus.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrStepFailures is returned by run when the result has failures.
var ErrStepFailures = errors.New("steps failed")

// UsageError marks errors caused by bad arguments or flags.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// DataError marks input the command understood but could not accept,
// such as a malformed script.
type DataError struct {
	Err error
}

func (e *DataError) Error() string {
	return e.Err.Error()
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var data *DataError
	var validation *configloader.ValidationError
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, ErrStepFailures):
		return ExitStepFailures
	case errors.As(err, &usage):
		return ExitInvalidUsage
	case errors.As(err, &validation),
		errors.Is(err, script.ErrInvalid),
		errors.Is(err, runner.ErrNoContainer),
		errors.As(err, &data):
		return ExitConfigError
	case errors.As(err, &pathErr),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModified):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
