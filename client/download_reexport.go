package client

import (
	"hash"

	"github.com/adamwoolhether/webclient/client/download"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types from [download].
// ————————————————————————————————————————————————————————————————————

type (
	// OverwriteMode governs what DownloadFile does when the destination exists.
	OverwriteMode = download.OverwriteMode

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// DownloadOption configures how DownloadFile writes the body.
	DownloadOption = download.Option
)

const (
	OverwriteError   = download.OverwriteError
	OverwriteSkip    = download.OverwriteSkip
	OverwriteReplace = download.OverwriteReplace
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrConfigDisallowsBehaviour is the category for operations refused by the RequestConfig.
	ErrConfigDisallowsBehaviour = download.ErrConfigDisallowsBehaviour

	// ErrOverwriteDisabled indicates the destination exists and OverwriteMode is OverwriteError.
	ErrOverwriteDisabled = download.ErrOverwriteDisabled

	// ErrEmptyPath indicates DownloadFile was given no destination.
	ErrEmptyPath = download.ErrEmptyPath

	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch

	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch
)

// ————————————————————————————————————————————————————————————————————
// Download option forwarding functions
// ————————————————————————————————————————————————————————————————————

// WithChecksum enables checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithProgress enables periodic download progress logging.
func WithProgress() DownloadOption { return download.WithProgress() }
