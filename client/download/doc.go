// Package download writes an HTTP response body to a file on disk,
// enforcing an [OverwriteMode] when the destination already exists.
//
// # Saving a Body
//
// [Resolve] turns the path into an absolute one and applies the overwrite
// policy. [Save] then drains the body into the file:
//
//	dst, err := download.Resolve("out.bin", download.OverwriteReplace)
//	if err != nil {
//		return err
//	}
//
//	err = download.Save(resp.Body, resp.ContentLength, dst, logger,
//		download.WithChecksum(sha256.New(), expectedHex),
//	)
//
// Resolve never consults the body, so callers that already issued the
// request simply close it when Resolve reports [ErrOverwriteDisabled] or
// the destination reports [Destination.Skip].
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/webclient/client] package, which invokes
// Resolve and Save internally and re-exports the overwrite modes and options.
package download
