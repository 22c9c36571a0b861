// Package client provides a WebClient-style facade for transferring
// bytes, strings and files over HTTP, built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithBaseAddress("https://api.example.com"),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// Headers applied to every request live in the store returned by
// [Client.Headers]:
//
//	c.Headers().Set("Accept", "application/octet-stream")
//
// # Transferring Data
//
// Every operation has an asynchronous form returning an [async.Result]
// and a blocking form that waits for it. A nil *RequestConfig selects
// the client's default config:
//
//	body, err := c.DownloadData(ctx, "/v1/blob", nil)
//	text, err := c.DownloadString(ctx, "/v1/readme", nil)
//	echo, err := c.UploadString(ctx, "/v1/echo", "hello", nil)
//
//	r := c.DownloadDataAsync(ctx, "/v1/blob", nil)
//	// ... do other work ...
//	body, err = r.Wait()
//
// [Upload] and [UploadAsync] pick the byte or string variant from the
// payload type.
//
// # Downloading Files
//
// [Client.DownloadFile] writes the body to disk. What happens to an
// existing file is decided by [RequestConfig.OverwriteMode]:
//
//	cfg := client.DefaultRequestConfig()
//	cfg.OverwriteMode = client.OverwriteReplace
//	err = c.DownloadFile(ctx, "/v1/blob", "/tmp/blob.bin", &cfg,
//		client.WithChecksum(sha256.New(), expectedHex),
//	)
//
// The request is sent before the destination is inspected, so a skipped
// or refused write has still cost a round trip.
//
// # Unsupported Operations
//
// [Client.CancelAsync] always returns [ErrNotImplemented] and
// [Client.Close] does nothing: requests cannot be interrupted once begun
// and each one releases its own transport client.
package client
