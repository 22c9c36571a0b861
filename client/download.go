package client

import (
	"context"
	"fmt"
	"io"

	"github.com/adamwoolhether/webclient/client/async"
	"github.com/adamwoolhether/webclient/client/download"
)

// DownloadDataAsync GETs address and resolves to the full response body.
// A nil cfg uses the client's default config.
func (c *Client) DownloadDataAsync(ctx context.Context, address string, cfg *RequestConfig) *async.Result[[]byte] {
	return async.Go(ctx, func(ctx context.Context) ([]byte, error) {
		return c.downloadData(ctx, address, cfg)
	})
}

// DownloadData is the blocking form of [Client.DownloadDataAsync].
func (c *Client) DownloadData(ctx context.Context, address string, cfg *RequestConfig) ([]byte, error) {
	return c.DownloadDataAsync(ctx, address, cfg).Wait()
}

// DownloadStringAsync is [Client.DownloadDataAsync] with the body
// interpreted as UTF-8. No charset detection is attempted.
func (c *Client) DownloadStringAsync(ctx context.Context, address string, cfg *RequestConfig) *async.Result[string] {
	return async.Go(ctx, func(ctx context.Context) (string, error) {
		b, err := c.downloadData(ctx, address, cfg)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
}

// DownloadString is the blocking form of [Client.DownloadStringAsync].
func (c *Client) DownloadString(ctx context.Context, address string, cfg *RequestConfig) (string, error) {
	return c.DownloadStringAsync(ctx, address, cfg).Wait()
}

// DownloadFileAsync GETs address and writes the body to path under the
// config's OverwriteMode.
//
// The request is always issued before path is inspected. When the file
// exists, OverwriteSkip discards the response and reports success, and
// OverwriteError fails with ErrOverwriteDisabled after the request has
// already been made.
func (c *Client) DownloadFileAsync(ctx context.Context, address, path string, cfg *RequestConfig, opts ...DownloadOption) *async.Result[struct{}] {
	return async.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.downloadFile(ctx, address, path, cfg, opts...)
	})
}

// DownloadFile is the blocking form of [Client.DownloadFileAsync].
func (c *Client) DownloadFile(ctx context.Context, address, path string, cfg *RequestConfig, opts ...DownloadOption) error {
	return c.DownloadFileAsync(ctx, address, path, cfg, opts...).Err()
}

func (c *Client) downloadData(ctx context.Context, address string, cfg *RequestConfig) ([]byte, error) {
	conf, err := c.configOrDefault(cfg)
	if err != nil {
		return nil, err
	}

	resp, err := c.RawGet(ctx, address)
	if err != nil {
		return nil, err
	}

	return c.readBody(resp, conf)
}

func (c *Client) downloadFile(ctx context.Context, address, path string, cfg *RequestConfig, opts ...DownloadOption) error {
	conf, err := c.configOrDefault(cfg)
	if err != nil {
		return err
	}

	if path == "" {
		return ErrEmptyPath
	}

	resp, err := c.RawGet(ctx, address)
	if err != nil {
		return err
	}
	defer c.closeResponse(resp)

	dst, err := download.Resolve(path, conf.OverwriteMode)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	log := c.responseLogger(resp)

	if dst.Skip() {
		log.Info("skipping existing file", "path", dst.Path)
		return nil
	}

	if conf.EnsureSuccess {
		if err := checkStatus(resp.Response); err != nil {
			return err
		}
	}

	if err := download.Save(resp.Body, resp.ContentLength, dst, log, opts...); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	return nil
}

// readBody closes resp after enforcing the status code and reading the body.
func (c *Client) readBody(resp *Response, conf RequestConfig) ([]byte, error) {
	defer c.closeResponse(resp)

	if conf.EnsureSuccess {
		if err := checkStatus(resp.Response); err != nil {
			return nil, err
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return b, nil
}
