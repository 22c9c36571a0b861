package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for saving a body to disk.
//
// WithChecksum enables checksum validation of the written file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
//
// WithProgress enables periodic progress logging via the
// logger supplied to Save.
type Option func(*options) error

type options struct {
	checksum *checksumVerifier
	progress bool
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}
