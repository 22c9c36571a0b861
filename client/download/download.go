package download

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Destination is a resolved download target whose overwrite policy
// has already been applied.
type Destination struct {
	// Path is the absolute path of the file.
	Path string
	// Exists reports whether a file was present at Path during Resolve.
	Exists bool
	// Mode is the policy Resolve applied.
	Mode OverwriteMode
}

// Skip reports whether the body should be discarded without writing.
func (d Destination) Skip() bool {
	return d.Exists && d.Mode == OverwriteSkip
}

// Resolve converts path to an absolute path and applies mode if a
// file already exists there. ErrOverwriteDisabled is returned for an
// existing file under OverwriteError.
func Resolve(path string, mode OverwriteMode) (Destination, error) {
	if path == "" {
		return Destination{}, ErrEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Destination{}, fmt.Errorf("resolving destination path: %w", err)
	}

	dst := Destination{Path: abs, Mode: mode}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return dst, nil
	case err != nil:
		return Destination{}, fmt.Errorf("checking destination: %w", err)
	case info.IsDir():
		return Destination{}, fmt.Errorf("destination %s is a directory", abs)
	}

	dst.Exists = true

	switch mode {
	case OverwriteSkip, OverwriteReplace:
		return dst, nil
	case OverwriteError:
		return Destination{}, &Error{
			Err:    ErrOverwriteDisabled,
			Detail: fmt.Sprintf("%s exists; use OverwriteReplace to replace it or OverwriteSkip to ignore it", abs),
		}
	default:
		return Destination{}, fmt.Errorf("unknown overwrite mode %v", mode)
	}
}

// Save drains body into dst. An existing file is truncated first, a
// missing one is created exclusively and removed again if the write fails.
// A skipped destination writes nothing.
func Save(body io.Reader, contentLength int64, dst Destination, logger *slog.Logger, optFns ...Option) error {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return fmt.Errorf("applying option: %w", err)
		}
	}

	if dst.Skip() {
		logger.Info("skipping existing file", "path", dst.Path)
		return nil
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if dst.Exists {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	file, err := os.OpenFile(dst.Path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("opening destination: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing destination file", "path", dst.Path, "error", err)
		}
		if !successful && !dst.Exists {
			if err := os.Remove(dst.Path); err != nil {
				logger.Error("failed to remove partial file", "path", dst.Path, "error", err)
			}
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	if opts.progress {
		writer = &progressWriter{
			w:         writer,
			logger:    logger.With("path", dst.Path),
			total:     contentLength,
			startTime: time.Now(),
		}
	}

	n, err := io.Copy(writer, body)
	if err != nil {
		return fmt.Errorf("copying body to file: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return err
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	successful = true

	return nil
}
