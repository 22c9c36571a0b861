package download

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigDisallowsBehaviour is the category for operations refused
	// because the request configuration forbids them.
	ErrConfigDisallowsBehaviour = errors.New("config disallows behaviour")

	// ErrOverwriteDisabled is returned when the destination file exists and
	// the overwrite mode is [OverwriteError].
	ErrOverwriteDisabled = fmt.Errorf("overwrite disabled: %w", ErrConfigDisallowsBehaviour)

	ErrEmptyPath             = errors.New("destination path must not be empty")
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// OverwriteMode governs what happens when the destination file
// of a download already exists.
type OverwriteMode int

const (
	// OverwriteError fails the download with ErrOverwriteDisabled.
	OverwriteError OverwriteMode = iota
	// OverwriteSkip leaves the existing file untouched and reports success.
	OverwriteSkip
	// OverwriteReplace truncates the existing file and writes the new body.
	OverwriteReplace
)

func (m OverwriteMode) String() string {
	switch m {
	case OverwriteError:
		return "error"
	case OverwriteSkip:
		return "skip"
	case OverwriteReplace:
		return "replace"
	default:
		return fmt.Sprintf("OverwriteMode(%d)", int(m))
	}
}
